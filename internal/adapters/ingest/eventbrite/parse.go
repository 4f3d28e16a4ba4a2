package eventbrite

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// card is one search result before date parsing and geocoding
type card struct {
	title    string
	link     string
	date     string
	location string
}

// the date line always opens with a relative day or a weekday name
var dateLineRe = regexp.MustCompile(`\b(Today|Tomorrow|Sunday|Monday|Tuesday|Wednesday|Thursday|Friday|Saturday)\b`)

// parseCards pulls event cards out of rendered search results HTML.
// Cards missing a title, date, or location are dropped silently
func parseCards(html string) ([]card, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var out []card
	doc.Find(resultsSelector).Children().Each(func(_ int, sel *goquery.Selection) {
		anchor := sel.Find("a[aria-label]").First()
		title, _ := anchor.Attr("aria-label")
		title = strings.TrimPrefix(strings.TrimSpace(title), "View ")
		link, _ := anchor.Attr("href")

		var texts []string
		sel.Find("p").Each(func(_ int, p *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(p.Text()))
		})

		var date, location string
		for i, txt := range texts {
			if dateLineRe.MatchString(txt) {
				date = strings.TrimPrefix(txt, "• ")
				if i+1 < len(texts) {
					location = strings.TrimPrefix(texts[i+1], "· ")
				}
				break
			}
		}

		if title == "" || date == "" || location == "" {
			return
		}
		out = append(out, card{title: title, link: link, date: date, location: location})
	})
	return out, nil
}
