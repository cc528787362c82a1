package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsx-portal/internal/models"
)

func birthdayNames(bs []models.Birthday) []string {
	out := []string{}
	for _, b := range bs {
		out = append(out, b.DisplayName)
	}
	return out
}

func birthdayFixture(t *testing.T) *BirthdayService {
	fx := newFixture(t, today,
		member{id: "a", name: "Ake", birthday: "2000-03-10"},
		member{id: "b", name: "Bam", birthday: "2012-03-20"},
		member{id: "c", name: "Chai", birthday: "2004-02-29"},
		member{id: "d", name: "Dao", birthday: "1999-03-05"},
		member{id: "e", name: "Eve"},
	)
	return NewBirthdayService(fx.ranking, fx.clock)
}

func TestUpcomingBirthdays(t *testing.T) {
	svc := birthdayFixture(t)

	got := svc.Upcoming(context.Background(), 30)
	require.Equal(t, []string{"Ake", "Bam"}, birthdayNames(got))
	assert.Equal(t, 0, got[0].DaysUntil)
	assert.Equal(t, 26, got[0].TurningAge)
	assert.Equal(t, 10, got[1].DaysUntil)
	assert.Equal(t, "2026-03-20", got[1].Date)

	all := svc.Upcoming(context.Background(), MaxUpcomingDays)
	assert.Len(t, all, 4)
}

func TestBirthdaysInMonth(t *testing.T) {
	svc := birthdayFixture(t)

	got := svc.InMonth(context.Background(), time.March)
	require.Equal(t, []string{"Dao", "Ake", "Bam"}, birthdayNames(got))
	assert.Equal(t, 27, got[0].TurningAge)
	assert.Equal(t, 360, got[0].DaysUntil)

	feb := svc.InMonth(context.Background(), time.February)
	require.Len(t, feb, 1)
	assert.Equal(t, 28, feb[0].Day)
}

func TestLeapDayBirthday(t *testing.T) {
	birth := time.Date(2004, 2, 29, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2027, 2, 28, 0, 0, 0, 0, bangkok), nextOccurrence(birth, today))
	leapYear := time.Date(2028, 1, 1, 0, 0, 0, 0, bangkok)
	assert.Equal(t, time.Date(2028, 2, 29, 0, 0, 0, 0, bangkok), nextOccurrence(birth, leapYear))
}
