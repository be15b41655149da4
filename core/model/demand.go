package model

import (
	"fmt"
	"strconv"
	"strings"
)

// DemandPoint is one observed or forecast unit of passenger demand.
// How forecasts are produced is out of scope; this is the shape the
// optimizer consumes.
type DemandPoint struct {
	Stop       string `json:"stop"`
	Route      string `json:"route,omitempty"`
	Time       string `json:"time"` // "HH:MM" time-of-day label
	Passengers int    `json:"passengers"`
	DayOfWeek  int    `json:"day_of_week"` // 1-7, Monday first
}

// Validate checks the demand point before a run starts. A malformed
// record is an input configuration problem, never a runtime fault.
func (d DemandPoint) Validate() error {
	if _, err := ParseTimeLabel(d.Time); err != nil {
		return fmt.Errorf("demand point for stop %q: %w", d.Stop, err)
	}
	if d.Passengers < 0 {
		return fmt.Errorf("demand point for stop %q: negative passenger count %d", d.Stop, d.Passengers)
	}
	if d.DayOfWeek < 1 || d.DayOfWeek > 7 {
		return fmt.Errorf("demand point for stop %q: day_of_week %d outside 1-7", d.Stop, d.DayOfWeek)
	}
	return nil
}

// RouteSet is the ordered list of route identifiers for which output
// schedules are produced.
type RouteSet []string

// ParseTimeLabel converts an "HH:MM" label to minutes from midnight.
func ParseTimeLabel(label string) (float64, error) {
	parts := strings.SplitN(label, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time label %q", label)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in time label %q", label)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in time label %q", label)
	}
	return float64(h*60 + m), nil
}

// FormatMinutes renders minutes from midnight as an "HH:MM" label.
// Values are wrapped into a single day before formatting.
func FormatMinutes(min float64) string {
	total := int(min)
	total %= 24 * 60
	if total < 0 {
		total += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
