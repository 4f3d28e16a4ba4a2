// Package domain defines transport DTOs for the events API
package domain

import "time"

// CreateEventRequest is the create payload
type CreateEventRequest struct {
	Title               string     `json:"title" validate:"required,min=1,max=200"`
	Description         string     `json:"description" validate:"max=5000"`
	LocationDescription string     `json:"location_description" validate:"max=500"`
	Lat                 *float64   `json:"lat"`
	Long                *float64   `json:"long"`
	Time                *time.Time `json:"time"`
	Image               *string    `json:"image"`
	ExternalLink        *string    `json:"external_link"`
}

// UpdateEventRequest is the update payload
type UpdateEventRequest struct {
	Title               string     `json:"title" validate:"required,min=1,max=200"`
	Description         string     `json:"description" validate:"max=5000"`
	LocationDescription string     `json:"location_description" validate:"max=500"`
	Time                *time.Time `json:"time"`
	Image               *string    `json:"image"`
	ExternalLink        *string    `json:"external_link"`
}
