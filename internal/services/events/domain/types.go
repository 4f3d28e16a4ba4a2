// Package domain defines the types and interfaces for the events service
package domain

import "time"

// Event is a persisted community event. Identity and CreatedAt are assigned
// by the repo at insert time
type Event struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	LocationDescription string     `json:"location_description"`
	Lat                 *float64   `json:"lat"`
	Long                *float64   `json:"long"`
	Time                *time.Time `json:"time"`
	Owner               string     `json:"owner"`
	Image               *string    `json:"image"`
	ExternalLink        *string    `json:"external_link"`
	IsExternal          bool       `json:"is_external"`
	CreatedAt           time.Time  `json:"created_at"`
}

// EventWrite is the insert shape, identity-free
type EventWrite struct {
	Title               string
	Description         string
	LocationDescription string
	Lat                 *float64
	Long                *float64
	Time                *time.Time
	Owner               string
	Image               *string
	ExternalLink        *string
	IsExternal          bool
}

// EventUpdate carries the mutable fields for an owner-driven edit
type EventUpdate struct {
	Title               string
	Description         string
	LocationDescription string
	Time                *time.Time
	Image               *string
	ExternalLink        *string
}
