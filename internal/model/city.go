package model

import "time"

// CityID uniquely identifies a city; it doubles as the city's URL slug
type CityID string

// City is a reference-data document describing one city the league
// operates in
type City struct {
	ID           CityID    `json:"id"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"displayName"`
	Slug         string    `json:"slug"`
	Logo         string    `json:"logo,omitempty"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	PrimaryColor string    `json:"primaryColor,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
