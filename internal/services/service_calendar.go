package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lsx-portal/internal/models"
	"lsx-portal/internal/notion"
	"lsx-portal/internal/ranking"
	"lsx-portal/internal/repository"
)

type CalendarService struct {
	events *repository.EventRepository
	clock  ranking.Clock
}

func NewCalendarService(events *repository.EventRepository, clock ranking.Clock) *CalendarService {
	return &CalendarService{events: events, clock: clock}
}

// ParseMonth reads "YYYY-MM"; empty means the current civil month.
func (s *CalendarService) ParseMonth(raw string) (time.Time, error) {
	loc := s.clock.Location()
	if raw == "" {
		today := s.clock.Today()
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation("2006-01", raw, loc)
	if err != nil {
		return time.Time{}, invalid("month must be YYYY-MM")
	}
	return t, nil
}

// Month lays out the events of one month on a Sunday-first grid. Multi-day
// events appear on every day they span within the grid.
func (s *CalendarService) Month(ctx context.Context, first time.Time) models.CalendarMonth {
	loc := s.clock.Location()
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, loc)
	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	next := first.AddDate(0, 1, 0)
	gridEnd := next.AddDate(0, 0, (7-int(next.Weekday()))%7)

	events := s.events.Between(ctx, gridStart, gridEnd)

	byDay := map[string][]models.Event{}
	for _, ev := range events {
		if ev.Start == nil {
			continue
		}
		start := notion.CivilDay(*ev.Start, loc)
		end := start
		if ev.End != nil && notion.CivilDay(*ev.End, loc).After(start) {
			end = notion.CivilDay(*ev.End, loc)
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if d.Before(gridStart) || !d.Before(gridEnd) {
				continue
			}
			key := d.Format(time.DateOnly)
			byDay[key] = append(byDay[key], ev)
		}
	}

	cal := models.CalendarMonth{Month: first.Format("2006-01")}
	var week []models.CalendarDay
	for d := gridStart; d.Before(gridEnd); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		day := models.CalendarDay{
			Date:    key,
			Day:     d.Day(),
			Outside: d.Month() != first.Month(),
			Events:  byDay[key],
		}
		if day.Events == nil {
			day.Events = []models.Event{}
		}
		week = append(week, day)
		if len(week) == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = nil
		}
	}

	seen := map[string]struct{}{}
	for _, ev := range events {
		if ev.Start == nil {
			continue
		}
		if _, ok := seen[ev.ID]; ok {
			continue
		}
		seen[ev.ID] = struct{}{}
		if start := notion.CivilDay(*ev.Start, loc); start.Month() == first.Month() && start.Year() == first.Year() {
			cal.Total++
		}
	}
	return cal
}

func (s *CalendarService) Event(ctx context.Context, id string) (*models.Event, error) {
	ev, err := s.events.Get(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrEventNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ev, err
}
