package models

import "time"

type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	AlbumURL    *string    `json:"album_url,omitempty"`
}

// CalendarDay is one cell of the month grid. Outside marks padding days
// that belong to the previous or next month.
type CalendarDay struct {
	Date    string  `json:"date"`
	Day     int     `json:"day"`
	Outside bool    `json:"outside"`
	Events  []Event `json:"events"`
}

type CalendarMonth struct {
	Month string          `json:"month"`
	Weeks [][]CalendarDay `json:"weeks"`
	Total int             `json:"total"`
}
