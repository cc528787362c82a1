package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Schema maps the fields the portal reads to the property names used in the
// document store. Operators rename columns, so the names are data, not code.
type Schema struct {
	Member MemberSchema `yaml:"member"`
	Event  EventSchema  `yaml:"event"`
	News   NewsSchema   `yaml:"news"`
}

// MemberSchema names the member properties. UsernameType is the store type
// of the username property ("formula", "rich_text" or "title") because
// query filters depend on it.
type MemberSchema struct {
	Name           string `yaml:"name"`
	Nickname       string `yaml:"nickname"`
	Username       string `yaml:"username"`
	UsernameType   string `yaml:"username_type"`
	Password       string `yaml:"password"`
	Photo          string `yaml:"photo"`
	Birthday       string `yaml:"birthday"`
	RankGroup      string `yaml:"rank_group"`
	RankTitle      string `yaml:"rank_title"`
	OverallScore   string `yaml:"overall_score"`
	OverallRank    string `yaml:"overall_rank"`
	JuniorScore    string `yaml:"junior_score"`
	JuniorRank     string `yaml:"junior_rank"`
	EventsAttended string `yaml:"events_attended"`
}

type EventSchema struct {
	Name        string `yaml:"name"`
	Date        string `yaml:"date"`
	Location    string `yaml:"location"`
	Description string `yaml:"description"`
	Photo       string `yaml:"photo"`
	Album       string `yaml:"album"`
	Category    string `yaml:"category"`
}

type NewsSchema struct {
	Title    string `yaml:"title"`
	Date     string `yaml:"date"`
	Category string `yaml:"category"`
	Body     string `yaml:"body"`
	Link     string `yaml:"link"`
}

func DefaultSchema() Schema {
	return Schema{
		Member: MemberSchema{
			Name:           "ชื่อ",
			Nickname:       "Nickname",
			Username:       "username",
			UsernameType:   "formula",
			Password:       "Password",
			Photo:          "Photo",
			Birthday:       "Birthday",
			RankGroup:      "Rank Group",
			RankTitle:      "Rank Title",
			OverallScore:   "Score",
			OverallRank:    "rank_num",
			JuniorScore:    "Junior Score",
			JuniorRank:     "junior_rank_num",
			EventsAttended: "Events Attended",
		},
		Event: EventSchema{
			Name:        "Name",
			Date:        "Date",
			Location:    "Location",
			Description: "Description",
			Photo:       "Photo",
			Album:       "Album",
			Category:    "Category",
		},
		News: NewsSchema{
			Title:    "Title",
			Date:     "Date",
			Category: "Category",
			Body:     "Body",
			Link:     "Link",
		},
	}
}

// LoadSchema overlays the YAML file at path on top of DefaultSchema; keys
// missing from the file keep their defaults.
func LoadSchema(path string) (Schema, error) {
	schema := DefaultSchema()

	raw, err := os.ReadFile(path)
	if err != nil {
		return schema, err
	}
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return schema, fmt.Errorf("parse %s: %w", path, err)
	}
	return schema, nil
}
