// Package timeslot holds the fixed catalog of delivery windows and the
// same-day availability rules. Everything here is pure: decisions come from
// the caller-supplied now, never the wall clock.
package timeslot

import "time"

type Period string

const (
	Morning Period = "morning"
	Evening Period = "evening"
)

type Slot struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	Period    Period `json:"period"`
	StartHour int    `json:"startHour"` // 24h local
}

// catalog order is delivery order; do not reorder
var catalog = []Slot{
	{Code: "7-8AM", Label: "7-8 AM", Period: Morning, StartHour: 7},
	{Code: "8-9AM", Label: "8-9 AM", Period: Morning, StartHour: 8},
	{Code: "9-10AM", Label: "9-10 AM", Period: Morning, StartHour: 9},
	{Code: "10-11AM", Label: "10-11 AM", Period: Morning, StartHour: 10},
	{Code: "11-12AM", Label: "11-12 AM", Period: Morning, StartHour: 11},
	{Code: "4-5PM", Label: "4-5 PM", Period: Evening, StartHour: 16},
	{Code: "5-6PM", Label: "5-6 PM", Period: Evening, StartHour: 17},
	{Code: "6-7PM", Label: "6-7 PM", Period: Evening, StartHour: 18},
}

type Config struct {
	SameDayCutoffHour int // no same-day booking at/after this hour
	MinLeadHours      int // slot start must be at least this far away
}

func DefaultConfig() Config {
	return Config{SameDayCutoffHour: 18, MinLeadHours: 2}
}

// All returns the full static catalog in delivery order.
func All() []Slot {
	out := make([]Slot, len(catalog))
	copy(out, catalog)
	return out
}

// ByCode looks a slot up in the catalog.
func ByCode(code string) (Slot, bool) {
	for _, s := range catalog {
		if s.Code == code {
			return s, true
		}
	}
	return Slot{}, false
}

// SameDay reports whether two times fall on the same calendar date in now's
// location.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// AvailableForDate returns the bookable slots for date given now. For any
// date other than today the full catalog comes back unfiltered; for today
// booking hard-stops at the cutoff hour and each slot needs MinLeadHours of
// lead before its window opens.
func AvailableForDate(now, date time.Time, cfg Config) []Slot {
	if !SameDay(now, date) {
		return All()
	}
	if now.Hour() >= cfg.SameDayCutoffHour {
		return []Slot{}
	}
	out := []Slot{}
	for _, s := range catalog {
		start := time.Date(now.Year(), now.Month(), now.Day(), s.StartHour, 0, 0, 0, now.Location())
		if start.Sub(now) >= time.Duration(cfg.MinLeadHours)*time.Hour {
			out = append(out, s)
		}
	}
	return out
}

// AvailableForToday is AvailableForDate with date = now.
func AvailableForToday(now time.Time, cfg Config) []Slot {
	return AvailableForDate(now, now, cfg)
}
