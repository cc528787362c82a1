package ranking

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"time"

	"lsx-portal/config"
	"lsx-portal/internal/notion"
)

// MemberRecord is the normalized read model of one member document.
type MemberRecord struct {
	ID                string     `json:"id"`
	DisplayName       string     `json:"display_name"`
	Username          string     `json:"username,omitempty"`
	PhotoURL          *string    `json:"photo_url,omitempty"`
	Birthday          *time.Time `json:"-"`
	AgeYears          int        `json:"age_years"`
	RankGroup         string     `json:"rank_group"`
	RankTitle         string     `json:"rank_title"`
	OverallScore      float64    `json:"overall_score"`
	JuniorScore       float64    `json:"junior_score"`
	OverallRankParsed int        `json:"overall_rank"`
	JuniorRankParsed  int        `json:"junior_rank"`
	EventsAttended    int        `json:"events_attended"`
}

// IsJunior reports membership of the junior view.
func (m MemberRecord) IsJunior() bool {
	return m.AgeYears <= JuniorMaxAge
}

// Row is a record placed in a view. DisplayRank copies the parsed rank of
// the view it belongs to.
type Row struct {
	MemberRecord
	DisplayRank int `json:"display_rank"`
}

type Views struct {
	Overall []Row `json:"overall"`
	Junior  []Row `json:"junior"`
}

// RecordFromPage normalizes one member document. It never fails; every
// missing or malformed field takes its documented default.
func RecordFromPage(page notion.Page, fields config.MemberSchema, asOf time.Time) MemberRecord {
	p := page.Properties
	birthday := p.Date(fields.Birthday)

	return MemberRecord{
		ID:                page.ID,
		DisplayName:       p.Text(fields.Name, ""),
		Username:          p.Text(fields.Username, ""),
		PhotoURL:          p.URL(fields.Photo),
		Birthday:          birthday,
		AgeYears:          AgeOn(birthday, asOf),
		RankGroup:         p.Text(fields.RankGroup, "-"),
		RankTitle:         p.Text(fields.RankTitle, "-"),
		OverallScore:      nonNegative(p.Number(fields.OverallScore)),
		JuniorScore:       nonNegative(p.Number(fields.JuniorScore)),
		OverallRankParsed: ParseRank(rankText(p, fields.OverallRank)),
		JuniorRankParsed:  ParseRank(rankText(p, fields.JuniorRank)),
		EventsAttended:    int(nonNegative(p.Number(fields.EventsAttended))),
	}
}

// rankText accepts the rank as display text or as a whole number property,
// and is nil when the property holds neither.
func rankText(p notion.Properties, name string) *string {
	if s := p.Text(name, ""); s != "" {
		return &s
	}
	n := p.Number(name)
	if n > 0 && n == math.Trunc(n) {
		s := strconv.Itoa(int(n))
		return &s
	}
	return nil
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

// FromPages normalizes every page in order.
func FromPages(pages []notion.Page, fields config.MemberSchema, asOf time.Time) []MemberRecord {
	records := make([]MemberRecord, 0, len(pages))
	for _, page := range pages {
		records = append(records, RecordFromPage(page, fields, asOf))
	}
	return records
}

// Project builds the overall and junior views. It does not modify records
// and returns the same views for the same input.
func Project(records []MemberRecord) Views {
	views := Views{
		Overall: make([]Row, 0, len(records)),
		Junior:  make([]Row, 0),
	}

	for _, r := range records {
		views.Overall = append(views.Overall, Row{MemberRecord: r, DisplayRank: r.OverallRankParsed})
		if r.IsJunior() {
			views.Junior = append(views.Junior, Row{MemberRecord: r, DisplayRank: r.JuniorRankParsed})
		}
	}

	slices.SortStableFunc(views.Overall, func(a, b Row) int {
		return cmp.Or(
			cmp.Compare(a.OverallRankParsed, b.OverallRankParsed),
			cmp.Compare(a.DisplayName, b.DisplayName),
			cmp.Compare(a.ID, b.ID),
		)
	})
	slices.SortStableFunc(views.Junior, func(a, b Row) int {
		return cmp.Or(
			cmp.Compare(b.JuniorScore, a.JuniorScore),
			cmp.Compare(a.DisplayName, b.DisplayName),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return views
}
