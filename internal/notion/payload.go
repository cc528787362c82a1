package notion

import "time"

// Filter is a database query filter object.
type Filter map[string]any

// PropertyFilter builds {"property": name, kind: {op: value}}, e.g.
// PropertyFilter("Password", "rich_text", "equals", "x").
func PropertyFilter(property, kind, op string, value any) Filter {
	return Filter{
		"property": property,
		kind:       map[string]any{op: value},
	}
}

// FormulaFilter matches on the result of a formula property.
func FormulaFilter(property, resultType, op string, value any) Filter {
	return Filter{
		"property": property,
		"formula":  map[string]any{resultType: map[string]any{op: value}},
	}
}

func And(filters ...Filter) Filter {
	return Filter{"and": filters}
}

func Or(filters ...Filter) Filter {
	return Filter{"or": filters}
}

func TitleValue(s string) map[string]any {
	return map[string]any{"title": []any{textObject(s)}}
}

func RichTextValue(s string) map[string]any {
	return map[string]any{"rich_text": []any{textObject(s)}}
}

func ExternalFileValue(name, url string) map[string]any {
	return map[string]any{
		"files": []any{
			map[string]any{
				"name":     name,
				"type":     "external",
				"external": map[string]string{"url": url},
			},
		},
	}
}

func DateOnlyValue(t time.Time) map[string]any {
	return map[string]any{"date": map[string]any{"start": t.Format(time.DateOnly)}}
}

func textObject(s string) map[string]any {
	return map[string]any{"text": map[string]string{"content": s}}
}
