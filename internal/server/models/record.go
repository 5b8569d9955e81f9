package models

import "time"

// Record is a single home-history event: maintenance, a repair, an
// inspection, and so on.
type Record struct {
	ID        string
	HomeID    string
	Title     string
	Note      string
	Kind      string
	Vendor    string
	Cost      *float64
	Date      time.Time
	CreatedBy string
	CreatedAt time.Time
}

// Reminder is a dated to-do attached to a home.
type Reminder struct {
	ID        string
	HomeID    string
	Title     string
	DueAt     time.Time
	CreatedBy string
	CreatedAt time.Time
}

// Warranty tracks coverage for an item in a home.
type Warranty struct {
	ID        string
	HomeID    string
	Item      string
	Provider  string
	PolicyNo  string
	ExpiresAt *time.Time
	CreatedAt time.Time
}
