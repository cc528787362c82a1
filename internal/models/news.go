package models

import "time"

const (
	NewsCategoryNews  = "News"
	NewsCategoryRules = "Rules"
)

type NewsItem struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Date     *time.Time `json:"date,omitempty"`
	Category string     `json:"category"`
	Body     string     `json:"body,omitempty"`
	Link     *string    `json:"link,omitempty"`
}
