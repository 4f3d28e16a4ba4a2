// Package domain defines the types and interfaces for the ingest service
package domain

import (
	"strings"
	"time"
)

// Candidate is an event pulled from an outside source before persistence.
// Identity is assigned by the events gateway at insert time, never here
type Candidate struct {
	Title               string
	Description         string
	LocationDescription string
	Lat                 *float64
	Long                *float64
	Time                *time.Time
	Owner               string
	Image               *string
	ExternalLink        *string
}

// Usable reports whether a candidate carries enough signal to keep.
// A candidate with no timestamp and nothing to identify it by is noise
func (c Candidate) Usable() bool {
	if c.Time != nil {
		return true
	}
	return strings.TrimSpace(c.Title) != "" && strings.TrimSpace(c.LocationDescription) != ""
}

// Result summarizes one ingestion run
type Result struct {
	Saved int `json:"saved"`
	Total int `json:"total"`
}
