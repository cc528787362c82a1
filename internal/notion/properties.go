package notion

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Properties is the raw property bag of a page. Values are decoded lazily
// and every accessor falls back to a default on any shape mismatch.
type Properties map[string]json.RawMessage

type richText struct {
	PlainText string `json:"plain_text"`
	Text      *struct {
		Content string `json:"content"`
	} `json:"text"`
}

type option struct {
	Name string `json:"name"`
}

type DateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

type fileObject struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	External *struct {
		URL string `json:"url"`
	} `json:"external"`
	File *struct {
		URL string `json:"url"`
	} `json:"file"`
}

type computed struct {
	Type    string          `json:"type"`
	Number  *float64        `json:"number"`
	String  *string         `json:"string"`
	Boolean *bool           `json:"boolean"`
	Date    *DateValue      `json:"date"`
	Array   []propertyValue `json:"array"`
}

type propertyValue struct {
	Type        string       `json:"type"`
	Title       []richText   `json:"title"`
	RichText    []richText   `json:"rich_text"`
	Select      *option      `json:"select"`
	Status      *option      `json:"status"`
	MultiSelect []option     `json:"multi_select"`
	Number      *float64     `json:"number"`
	Formula     *computed    `json:"formula"`
	Rollup      *computed    `json:"rollup"`
	Date        *DateValue   `json:"date"`
	Files       []fileObject `json:"files"`
	URL         *string      `json:"url"`
	Email       *string      `json:"email"`
	PhoneNumber *string      `json:"phone_number"`
	Checkbox    *bool        `json:"checkbox"`
}

func (p Properties) value(name string) (propertyValue, bool) {
	var v propertyValue
	raw, ok := p[name]
	if !ok || len(raw) == 0 {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return propertyValue{}, false
	}
	return v, true
}

func joinRichText(parts []richText) string {
	return strings.TrimSpace(rawRichText(parts))
}

func rawRichText(parts []richText) string {
	var b strings.Builder
	for _, rt := range parts {
		switch {
		case rt.PlainText != "":
			b.WriteString(rt.PlainText)
		case rt.Text != nil:
			b.WriteString(rt.Text.Content)
		}
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (p Properties) Title(name, def string) string {
	v, ok := p.value(name)
	if !ok {
		return def
	}
	return orDefault(joinRichText(v.Title), def)
}

func (p Properties) RichText(name, def string) string {
	v, ok := p.value(name)
	if !ok {
		return def
	}
	return orDefault(joinRichText(v.RichText), def)
}

// RawText returns rich text or title content exactly as stored, surrounding
// whitespace included.
func (p Properties) RawText(name string) string {
	v, ok := p.value(name)
	if !ok {
		return ""
	}
	if s := rawRichText(v.RichText); s != "" {
		return s
	}
	return rawRichText(v.Title)
}

func (p Properties) Select(name, def string) string {
	v, ok := p.value(name)
	if !ok {
		return def
	}
	if v.Select != nil {
		return orDefault(strings.TrimSpace(v.Select.Name), def)
	}
	if v.Status != nil {
		return orDefault(strings.TrimSpace(v.Status.Name), def)
	}
	return def
}

func (p Properties) MultiSelectFirst(name, def string) string {
	v, ok := p.value(name)
	if !ok {
		return def
	}
	for _, o := range v.MultiSelect {
		if s := strings.TrimSpace(o.Name); s != "" {
			return s
		}
	}
	return def
}

func (p Properties) MultiSelect(name string) []string {
	v, ok := p.value(name)
	if !ok {
		return nil
	}
	var out []string
	for _, o := range v.MultiSelect {
		if s := strings.TrimSpace(o.Name); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Text returns the first non-empty text found in any text-like shape of the
// property: title, rich text, select, status, multi-select, formula or
// rollup string, url, email, phone.
func (p Properties) Text(name, def string) string {
	v, ok := p.value(name)
	if !ok {
		return def
	}
	return orDefault(v.text(), def)
}

func (v propertyValue) text() string {
	if s := joinRichText(v.Title); s != "" {
		return s
	}
	if s := joinRichText(v.RichText); s != "" {
		return s
	}
	if v.Select != nil && strings.TrimSpace(v.Select.Name) != "" {
		return strings.TrimSpace(v.Select.Name)
	}
	if v.Status != nil && strings.TrimSpace(v.Status.Name) != "" {
		return strings.TrimSpace(v.Status.Name)
	}
	for _, o := range v.MultiSelect {
		if s := strings.TrimSpace(o.Name); s != "" {
			return s
		}
	}
	for _, c := range []*computed{v.Formula, v.Rollup} {
		if c == nil {
			continue
		}
		if c.String != nil && strings.TrimSpace(*c.String) != "" {
			return strings.TrimSpace(*c.String)
		}
		for _, item := range c.Array {
			if s := item.text(); s != "" {
				return s
			}
		}
	}
	for _, s := range []*string{v.URL, v.Email, v.PhoneNumber} {
		if s != nil && strings.TrimSpace(*s) != "" {
			return strings.TrimSpace(*s)
		}
	}
	return ""
}

// Number resolves the named property with ResolveNumber.
func (p Properties) Number(name string) float64 {
	return ResolveNumber(p[name])
}

// ResolveNumber normalizes a plain number, a formula result or a rollup
// result into one value. Array rollups are summed recursively. Anything
// absent, null or non-numeric resolves to 0.
func ResolveNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var v propertyValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return finite(v.number())
}

func (v propertyValue) number() float64 {
	switch {
	case v.Number != nil:
		return *v.Number
	case v.Formula != nil:
		return v.Formula.number()
	case v.Rollup != nil:
		return v.Rollup.number()
	}
	return 0
}

func (c *computed) number() float64 {
	switch {
	case c.Number != nil:
		return *c.Number
	case c.String != nil:
		f, err := cast.ToFloat64E(strings.TrimSpace(*c.String))
		if err != nil {
			return 0
		}
		return f
	case len(c.Array) > 0:
		var sum float64
		for _, item := range c.Array {
			sum += finite(item.number())
		}
		return sum
	}
	return 0
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Date returns the start of a date property (or of a date-typed formula or
// rollup), nil when absent or unparseable.
func (p Properties) Date(name string) *time.Time {
	start, _ := p.DateRange(name)
	return start
}

func (p Properties) DateRange(name string) (start, end *time.Time) {
	v, ok := p.value(name)
	if !ok {
		return nil, nil
	}
	d := v.Date
	if d == nil && v.Formula != nil {
		d = v.Formula.Date
	}
	if d == nil && v.Rollup != nil {
		d = v.Rollup.Date
	}
	if d == nil {
		return nil, nil
	}
	start = ParseDate(d.Start)
	if d.End != nil {
		end = ParseDate(*d.End)
	}
	return start, end
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

// CivilDay returns midnight in loc of the day t names. Date-only values
// parsed by ParseDate carry no zone and already name the civil day.
func CivilDay(t time.Time, loc *time.Location) time.Time {
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// URL returns the first link found among external files, hosted files and
// url properties, or nil.
func (p Properties) URL(name string) *string {
	v, ok := p.value(name)
	if !ok {
		return nil
	}
	for _, f := range v.Files {
		if f.External != nil && f.External.URL != "" {
			u := f.External.URL
			return &u
		}
		if f.File != nil && f.File.URL != "" {
			u := f.File.URL
			return &u
		}
	}
	if v.URL != nil && strings.TrimSpace(*v.URL) != "" {
		u := strings.TrimSpace(*v.URL)
		return &u
	}
	if v.Formula != nil && v.Formula.String != nil && strings.HasPrefix(*v.Formula.String, "http") {
		u := *v.Formula.String
		return &u
	}
	return nil
}

func (p Properties) Checkbox(name string) bool {
	v, ok := p.value(name)
	if !ok {
		return false
	}
	if v.Checkbox != nil {
		return *v.Checkbox
	}
	if v.Formula != nil && v.Formula.Boolean != nil {
		return *v.Formula.Boolean
	}
	return false
}
