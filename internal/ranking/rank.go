package ranking

import (
	"strconv"
	"strings"
	"time"
)

const (
	// UnrankedSentinel sorts members without a valid rank after everyone else.
	UnrankedSentinel = 9999
	// UnknownAge keeps members without a birth date out of the junior view.
	UnknownAge = 99
	// JuniorMaxAge is the oldest age that still counts as junior.
	JuniorMaxAge = 13
)

// ParseRank reads "12/213" or "12" and returns 12. Nil, empty or
// malformed input returns UnrankedSentinel. Only the first two "/" segments
// are looked at, and both must be numeric when present.
func ParseRank(raw *string) int {
	if raw == nil {
		return UnrankedSentinel
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return UnrankedSentinel
	}

	head, tail, hasSlash := strings.Cut(s, "/")
	rank, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || rank < 0 {
		return UnrankedSentinel
	}

	if hasSlash {
		total, _, _ := strings.Cut(tail, "/")
		total = strings.TrimSpace(total)
		if total != "" {
			if _, err := strconv.Atoi(total); err != nil {
				return UnrankedSentinel
			}
		}
	}
	return rank
}

// AgeOn returns the age in whole years on asOf, or UnknownAge for a nil
// birth date. Only calendar fields are compared, so callers pass asOf
// already converted to the civil timezone.
func AgeOn(birth *time.Time, asOf time.Time) int {
	if birth == nil {
		return UnknownAge
	}
	age := asOf.Year() - birth.Year()
	if asOf.Month() < birth.Month() || (asOf.Month() == birth.Month() && asOf.Day() < birth.Day()) {
		age--
	}
	return age
}

// Clock yields "today" in a fixed civil timezone regardless of the host
// machine's local time.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc, now: time.Now}
}

// FixedClock always reports t; used by tests and the CLI --as-of flag.
func FixedClock(t time.Time) Clock {
	return Clock{loc: t.Location(), now: func() time.Time { return t }}
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now().In(c.location())
	}
	return c.now().In(c.location())
}

// Today is midnight of the current civil date.
func (c Clock) Today() time.Time {
	n := c.Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, c.location())
}

func (c Clock) Location() *time.Location { return c.location() }

func (c Clock) location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}
