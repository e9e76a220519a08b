package holiday

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEasterSunday(t *testing.T) {
	tests := []struct {
		year int
		want time.Time
	}{
		{2024, date(2024, time.March, 31)},
		{2025, date(2025, time.April, 20)},
		{2026, date(2026, time.April, 5)},
	}
	for _, tt := range tests {
		if got := EasterSunday(tt.year); !got.Equal(tt.want) {
			t.Errorf("EasterSunday(%d) = %s, want %s", tt.year, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
		}
	}
}

func TestOfficialHolidays2025(t *testing.T) {
	cal := NewCalendar(nil)

	tests := []struct {
		day  time.Time
		name string
	}{
		{date(2025, time.January, 1), "Nyårsdagen"},
		{date(2025, time.January, 6), "Trettondedag jul"},
		{date(2025, time.April, 18), "Långfredagen"},
		{date(2025, time.April, 21), "Annandag påsk"},
		{date(2025, time.May, 1), "Första maj"},
		{date(2025, time.May, 29), "Kristi himmelsfärdsdag"},
		{date(2025, time.June, 6), "Sveriges nationaldag"},
		{date(2025, time.June, 9), "Annandag pingst"},
		{date(2025, time.June, 20), "Midsommarafton"},
		{date(2025, time.November, 1), "Alla helgons dag"},
		{date(2025, time.December, 24), "Julafton"},
		{date(2025, time.December, 31), "Nyårsafton"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := cal.Name(tt.day)
			if !ok {
				t.Fatalf("%s should be a holiday", tt.day.Format("2006-01-02"))
			}
			if name != tt.name {
				t.Errorf("Name(%s) = %q, want %q", tt.day.Format("2006-01-02"), name, tt.name)
			}
		})
	}

	if cal.IsHoliday(date(2025, time.April, 22)) {
		t.Error("2025-04-22 is an ordinary Tuesday")
	}
}

func TestAllSaintsRollsIntoNovember(t *testing.T) {
	// 2027: Oct 31 is a Sunday, so the Saturday search lands on Nov 6.
	cal := NewCalendar(nil)
	if !cal.IsHoliday(date(2027, time.November, 6)) {
		t.Error("Alla helgons dag 2027 should be 2027-11-06")
	}
	if cal.IsHoliday(date(2027, time.October, 31)) {
		t.Error("2027-10-31 is not Alla helgons dag")
	}
}

func TestCustomHolidays(t *testing.T) {
	cal := NewCalendar([]Holiday{
		{Date: date(2025, time.March, 14), Name: "Klämdag"},
		{Date: date(2025, time.June, 6), Name: "Studenten"},
	})

	if name, ok := cal.Name(date(2025, time.March, 14)); !ok || name != "Klämdag" {
		t.Errorf("custom holiday: got (%q, %v)", name, ok)
	}

	// Custom name displaces the official one on the same date.
	if name, _ := cal.Name(date(2025, time.June, 6)); name != "Studenten" {
		t.Errorf("custom name should displace official, got %q", name)
	}
}

func TestInRange(t *testing.T) {
	cal := NewCalendar(nil)
	got := cal.InRange(date(2025, time.April, 1), date(2025, time.May, 2))

	want := []struct {
		day  time.Time
		name string
	}{
		{date(2025, time.April, 18), "Långfredagen"},
		{date(2025, time.April, 21), "Annandag påsk"},
		{date(2025, time.May, 1), "Första maj"},
	}
	if len(got) != len(want) {
		t.Fatalf("InRange returned %d holidays, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if !got[i].Date.Equal(w.day) || got[i].Name != w.name {
			t.Errorf("InRange[%d] = (%s, %q), want (%s, %q)",
				i, got[i].Date.Format("2006-01-02"), got[i].Name, w.day.Format("2006-01-02"), w.name)
		}
	}
}
