package utils

import (
	"medblock-service/internal/pkg/constvars"
	"time"
	_ "time/tzdata"
)

// LoadLocation falls back to UTC when the zone database lacks the name.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = constvars.DefaultTimezone
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return location
}

// ParseISODate parses YYYY-MM-DD as midnight in loc.
func ParseISODate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(constvars.DateFormatISO, value, loc)
}

// CivilDate returns midnight UTC of the calendar day t falls on in loc.
// Birth dates are stored this way so they compare independently of zone.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
