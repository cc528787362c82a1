package services

import (
	"context"
	"slices"
	"time"

	"lsx-portal/internal/models"
	"lsx-portal/internal/ranking"
)

const (
	DefaultUpcomingDays = 30
	MaxUpcomingDays     = 366
)

// BirthdayService answers birthday questions from the cached projection so
// no extra store traffic is needed.
type BirthdayService struct {
	ranking *RankingService
	clock   ranking.Clock
}

func NewBirthdayService(rankingSvc *RankingService, clock ranking.Clock) *BirthdayService {
	return &BirthdayService{ranking: rankingSvc, clock: clock}
}

// nextOccurrence is the first civil day on or after today that celebrates
// birth. Feb 29 falls back to Feb 28 in common years.
func nextOccurrence(birth, today time.Time) time.Time {
	loc := today.Location()
	on := func(year int) time.Time {
		day := birth.Day()
		if birth.Month() == time.February && day == 29 && !isLeap(year) {
			day = 28
		}
		return time.Date(year, birth.Month(), day, 0, 0, 0, 0, loc)
	}
	next := on(today.Year())
	if next.Before(today) {
		next = on(today.Year() + 1)
	}
	return next
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func birthdayOf(r ranking.MemberRecord, on, today time.Time) models.Birthday {
	return models.Birthday{
		MemberID:    r.ID,
		DisplayName: r.DisplayName,
		PhotoURL:    r.PhotoURL,
		Date:        on.Format(time.DateOnly),
		Month:       int(on.Month()),
		Day:         on.Day(),
		TurningAge:  on.Year() - r.Birthday.Year(),
		DaysUntil:   daysBetween(today, on),
	}
}

// InMonth lists birthdays celebrated in the given month of the current year
// ordered by day then name.
func (s *BirthdayService) InMonth(ctx context.Context, month time.Month) []models.Birthday {
	today := s.clock.Today()
	out := []models.Birthday{}
	for _, r := range s.ranking.Current(ctx).Records {
		if r.Birthday == nil || r.Birthday.Month() != month {
			continue
		}
		on := nextOccurrence(*r.Birthday, time.Date(today.Year(), month, 1, 0, 0, 0, 0, today.Location()))
		b := birthdayOf(r, on, today)
		b.DaysUntil = daysBetween(today, nextOccurrence(*r.Birthday, today))
		out = append(out, b)
	}
	slices.SortStableFunc(out, func(a, b models.Birthday) int {
		if a.Day != b.Day {
			return a.Day - b.Day
		}
		return compareStrings(a.DisplayName, b.DisplayName)
	})
	return out
}

// Upcoming lists birthdays within the next days days, today included,
// soonest first.
func (s *BirthdayService) Upcoming(ctx context.Context, days int) []models.Birthday {
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	days = min(days, MaxUpcomingDays)

	today := s.clock.Today()
	out := []models.Birthday{}
	for _, r := range s.ranking.Current(ctx).Records {
		if r.Birthday == nil {
			continue
		}
		b := birthdayOf(r, nextOccurrence(*r.Birthday, today), today)
		if b.DaysUntil < days {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Birthday) int {
		if a.DaysUntil != b.DaysUntil {
			return a.DaysUntil - b.DaysUntil
		}
		return compareStrings(a.DisplayName, b.DisplayName)
	})
	return out
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
