// Package visitphilly scrapes the Visit Philadelphia weekly roundup page
package visitphilly

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	pstrings "blockparty/internal/platform/strings"
)

const (
	sectionSelector  = ".vp-article-section__content"
	itemSelector     = "ul"
	headingSelector  = ".vp-article-section__heading"
	bodySelector     = ".vp-article-section__body"
	subheadSelector  = ".vp-body-subhead-2"
	dateTimeSelector = ".vp-article-section__date-time"
	detailsSelector  = ".vp-article-section__details"
)

// section is one article block: sub-items aligned one-to-one with locations,
// all sharing a date line
type section struct {
	items     []item
	date      string
	locations []string
}

type item struct {
	title       string
	description string
}

var dateTimeTail = regexp.MustCompile(`\s\|.*`)

// parseSections extracts the event sections from the roundup HTML.
// Sections missing a date, items, or locations are dropped here; item and
// location counts are reconciled by the caller
func parseSections(r io.Reader) ([]section, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var out []section
	doc.Find(sectionSelector).Each(func(_ int, sel *goquery.Selection) {
		sec := section{}

		sel.Find(itemSelector).Each(func(_ int, ul *goquery.Selection) {
			title := strings.TrimRight(strings.TrimSpace(ul.Find("b").Text()), ":")
			desc := strings.Replace(ul.Text(), ul.Find("b").Text(), "", 1)
			desc = strings.TrimPrefix(strings.TrimSpace(desc), ": ")
			sec.items = append(sec.items, item{
				title:       title,
				description: pstrings.CollapseSpace(desc),
			})
		})

		// sections without bullet lists carry a single heading+body item
		if len(sec.items) == 0 {
			title := strings.TrimSpace(sel.Find(headingSelector).Text())
			body := sel.Find(bodySelector).Clone()
			body.Find(subheadSelector).Remove()
			desc := pstrings.CollapseSpace(body.Text())
			sec.items = append(sec.items, item{title: title, description: desc})
		}

		sec.date = strings.TrimSpace(sel.Find(subheadSelector).Text())
		if sec.date == "" {
			raw := sel.Find(dateTimeSelector).Text()
			sec.date = strings.TrimSpace(dateTimeTail.ReplaceAllString(raw, ""))
		}

		sec.locations = parseLocations(sel.Find(detailsSelector).Text())

		if sec.date == "" || len(sec.locations) == 0 || len(sec.items) == 0 {
			return
		}
		out = append(out, sec)
	})
	return out, nil
}

func parseLocations(raw string) []string {
	raw = strings.ReplaceAll(raw, "\t", "")
	raw = strings.ReplaceAll(raw, "Where: ", "")
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "VIEW OTHER LOCATIONS") {
			continue
		}
		out = append(out, line)
	}
	return out
}
