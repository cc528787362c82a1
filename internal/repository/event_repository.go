package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"lsx-portal/config"
	"lsx-portal/internal/models"
	"lsx-portal/internal/notion"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository struct {
	store  Store
	dbID   string
	fields config.EventSchema
	logger *zap.Logger
}

func NewEventRepository(store Store, dbID string, fields config.EventSchema, logger *zap.Logger) *EventRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventRepository{store: store, dbID: dbID, fields: fields, logger: logger}
}

func (r *EventRepository) toEvent(page notion.Page) models.Event {
	p := page.Properties
	start, end := p.DateRange(r.fields.Date)
	return models.Event{
		ID:          page.ID,
		Name:        p.Text(r.fields.Name, "(untitled)"),
		Start:       start,
		End:         end,
		Location:    p.Text(r.fields.Location, ""),
		Description: p.Text(r.fields.Description, ""),
		Category:    p.Text(r.fields.Category, ""),
		PhotoURL:    p.URL(r.fields.Photo),
		AlbumURL:    p.URL(r.fields.Album),
	}
}

// maxEventSpan bounds how far before the range a multi-day event may start
// and still be found; date filters match on the start date only.
const maxEventSpan = 62 * 24 * time.Hour

// Between returns events overlapping [from, to), oldest first. An event that
// starts before from but ends on or after it is included.
func (r *EventRepository) Between(ctx context.Context, from, to time.Time) []models.Event {
	if r.dbID == "" {
		return []models.Event{}
	}
	q := notion.QueryRequest{
		Filter: notion.And(
			notion.PropertyFilter(r.fields.Date, "date", "on_or_after", from.Add(-maxEventSpan).Format(time.DateOnly)),
			notion.PropertyFilter(r.fields.Date, "date", "before", to.Format(time.DateOnly)),
		),
		Sorts: []notion.Sort{{Property: r.fields.Date, Direction: "ascending"}},
	}
	pages, _ := WalkDatabase(ctx, r.store, r.dbID, q, r.logger)

	loc := from.Location()
	fromDay := notion.CivilDay(from, loc)
	toDay := notion.CivilDay(to, loc)
	events := make([]models.Event, 0, len(pages))
	for _, page := range pages {
		ev := r.toEvent(page)
		if ev.Start == nil {
			continue
		}
		first := notion.CivilDay(*ev.Start, loc)
		last := first
		if ev.End != nil {
			if end := notion.CivilDay(*ev.End, loc); end.After(last) {
				last = end
			}
		}
		if !first.Before(toDay) || last.Before(fromDay) {
			continue
		}
		events = append(events, ev)
	}
	return events
}

// WithPhotos returns events that have a photo or an album link, newest first.
func (r *EventRepository) WithPhotos(ctx context.Context) []models.Event {
	if r.dbID == "" {
		return []models.Event{}
	}
	q := notion.QueryRequest{
		Filter: notion.Or(
			notion.PropertyFilter(r.fields.Photo, "files", "is_not_empty", true),
			notion.PropertyFilter(r.fields.Album, "url", "is_not_empty", true),
		),
		Sorts: []notion.Sort{{Property: r.fields.Date, Direction: "descending"}},
	}
	pages, _ := WalkDatabase(ctx, r.store, r.dbID, q, r.logger)

	events := make([]models.Event, 0, len(pages))
	for _, page := range pages {
		events = append(events, r.toEvent(page))
	}
	return events
}

// Count returns how many events exist; used for participation ratios.
func (r *EventRepository) Count(ctx context.Context) int {
	if r.dbID == "" {
		return 0
	}
	pages, _ := WalkDatabase(ctx, r.store, r.dbID, notion.QueryRequest{}, r.logger)
	return len(pages)
}

func (r *EventRepository) Get(ctx context.Context, id string) (*models.Event, error) {
	page, err := r.store.GetPage(ctx, id)
	if errors.Is(err, notion.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	ev := r.toEvent(*page)
	return &ev, nil
}
