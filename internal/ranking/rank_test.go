package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRank(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12/213", 12},
		{"7", 7},
		{"", UnrankedSentinel},
		{"abc", UnrankedSentinel},
		{" 3 / 40 ", 3},
		{"1/2/3", 1},
		{"12/abc", UnrankedSentinel},
		{"x/12", UnrankedSentinel},
		{"12/", 12},
		{"-4", UnrankedSentinel},
		{"4.5", UnrankedSentinel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRank(&tt.in))
		})
	}

	t.Run("absent", func(t *testing.T) {
		assert.Equal(t, UnrankedSentinel, ParseRank(nil))
	})
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAgeOn(t *testing.T) {
	asOf := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 12, AgeOn(date(2013, 6, 15), asOf))
	assert.Equal(t, 13, AgeOn(date(2013, 1, 1), asOf))
	assert.Equal(t, 12, AgeOn(date(2013, 1, 2), asOf))
	assert.Equal(t, UnknownAge, AgeOn(nil, asOf))

	// leap day birthdays turn over on March 1st in common years
	assert.Equal(t, 5, AgeOn(date(2020, 2, 29), time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, AgeOn(date(2020, 2, 29), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestClockUsesCivilTimezone(t *testing.T) {
	bangkok, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// 20:00 UTC on Dec 31 is already Jan 1 in Bangkok
	instant := time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC)
	c := Clock{loc: bangkok, now: func() time.Time { return instant }}

	today := c.Today()
	assert.Equal(t, 2026, today.Year())
	assert.Equal(t, time.January, today.Month())
	assert.Equal(t, 1, today.Day())
	assert.Equal(t, 13, AgeOn(date(2013, 1, 1), today))
}
