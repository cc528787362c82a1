package models

import "time"

// MemberProfile is what a logged-in member sees and edits.
type MemberProfile struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Nickname    string     `json:"nickname,omitempty"`
	Username    string     `json:"username"`
	PhotoURL    string     `json:"photo_url"`
	HasPhoto    bool       `json:"has_photo"`
	Birthday    *time.Time `json:"birthday,omitempty"`
	AgeYears    int        `json:"age_years"`
	RankGroup   string     `json:"rank_group"`
	RankTitle   string     `json:"rank_title"`
	Score       float64    `json:"score"`
	Rank        int        `json:"rank"`
	JuniorScore float64    `json:"junior_score"`
	JuniorRank  int        `json:"junior_rank"`
}

type Birthday struct {
	MemberID    string  `json:"member_id"`
	DisplayName string  `json:"display_name"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	Date        string  `json:"date"`
	Month       int     `json:"month"`
	Day         int     `json:"day"`
	TurningAge  int     `json:"turning_age"`
	DaysUntil   int     `json:"days_until"`
}
