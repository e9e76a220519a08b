// Package holiday classifies dates against the Swedish public holiday
// calendar, extended with user-supplied custom holidays.
package holiday

import (
	"sync"
	"time"
)

const dayFormat = "2006-01-02"

// Holiday is a named calendar date.
type Holiday struct {
	Date time.Time
	Name string
}

// Calendar answers holiday queries. Official holidays are computed per year
// on demand and memoized; custom holidays are merged in, and a custom
// holiday on an official date displaces the official name.
type Calendar struct {
	mu     sync.Mutex
	custom map[string]string
	years  map[int]map[string]string
}

// NewCalendar creates a calendar with the given custom holidays.
func NewCalendar(custom []Holiday) *Calendar {
	c := &Calendar{
		custom: make(map[string]string, len(custom)),
		years:  make(map[int]map[string]string),
	}
	for _, h := range custom {
		c.custom[h.Date.Format(dayFormat)] = h.Name
	}
	return c
}

// IsHoliday reports whether t falls on a holiday (official or custom).
func (c *Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.Name(t)
	return ok
}

// Name returns the holiday name for t. Custom names take precedence over
// official ones on the same date.
func (c *Calendar) Name(t time.Time) (string, bool) {
	key := t.Format(dayFormat)
	if name, ok := c.custom[key]; ok {
		return name, true
	}
	if name, ok := c.official(t.Year())[key]; ok {
		return name, true
	}
	return "", false
}

// InRange returns the holidays in [start, end] inclusive, ordered by date.
func (c *Calendar) InRange(start, end time.Time) []Holiday {
	var out []Holiday
	for d := midnight(start); !d.After(midnight(end)); d = d.AddDate(0, 0, 1) {
		if name, ok := c.Name(d); ok {
			out = append(out, Holiday{Date: d, Name: name})
		}
	}
	return out
}

func (c *Calendar) official(year int) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.years[year]; ok {
		return m
	}
	m := officialHolidays(year)
	c.years[year] = m
	return m
}

// EasterSunday computes Gregorian Easter Sunday via the anonymous
// (Meeus/Jones/Butcher) algorithm.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func officialHolidays(year int) map[string]string {
	easter := EasterSunday(year)
	m := make(map[string]string, 14)

	add := func(t time.Time, name string) {
		m[t.Format(dayFormat)] = name
	}
	fixed := func(month time.Month, day int, name string) {
		add(time.Date(year, month, day, 0, 0, 0, 0, time.UTC), name)
	}

	fixed(time.January, 1, "Nyårsdagen")
	fixed(time.January, 6, "Trettondedag jul")
	fixed(time.May, 1, "Första maj")
	fixed(time.June, 6, "Sveriges nationaldag")
	fixed(time.December, 24, "Julafton")
	fixed(time.December, 25, "Juldagen")
	fixed(time.December, 26, "Annandag jul")
	fixed(time.December, 31, "Nyårsafton")

	add(easter.AddDate(0, 0, -2), "Långfredagen")
	add(easter.AddDate(0, 0, 1), "Annandag påsk")
	add(easter.AddDate(0, 0, 39), "Kristi himmelsfärdsdag")
	add(easter.AddDate(0, 0, 50), "Annandag pingst")

	// Midsommarafton: the Friday in June 19-25.
	for d := 19; d <= 25; d++ {
		t := time.Date(year, time.June, d, 0, 0, 0, 0, time.UTC)
		if t.Weekday() == time.Friday {
			add(t, "Midsommarafton")
			break
		}
	}

	// Alla helgons dag: the Saturday in Oct 31 - Nov 6. The search runs on
	// from October into early November.
	for i := 0; i < 7; i++ {
		t := time.Date(year, time.October, 31+i, 0, 0, 0, 0, time.UTC)
		if t.Weekday() == time.Saturday {
			add(t, "Alla helgons dag")
			break
		}
	}

	return m
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
