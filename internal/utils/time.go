package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/spendeats/internal/domain"
)

const (
	MonthLayout = "2006-01"
	DateLayout  = "2006-01-02"
)

// MonthKey returns t as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// DateKey returns t as "YYYY-MM-DD".
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate returns date unchanged when it parses as YYYY-MM-DD, otherwise today's date.
func NormalizeDate(date string, now time.Time) string {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return DateKey(now)
	}
	return date
}

// FractionalHours converts the wall-clock part of t to hours, e.g. 13:30 -> 13.5.
func FractionalHours(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60.0
}

// ParseAvailability parses "8-11, 12-14" into slots. Hours must satisfy 0 <= start < end <= 23.
func ParseAvailability(s string) (domain.Availability, error) {
	var slots domain.Availability
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("invalid slot %q: expected start-end", part)
		}
		start, err := parseHour(bounds[0])
		if err != nil {
			return nil, fmt.Errorf("invalid slot %q: %w", part, err)
		}
		end, err := parseHour(bounds[1])
		if err != nil {
			return nil, fmt.Errorf("invalid slot %q: %w", part, err)
		}
		if start >= end {
			return nil, fmt.Errorf("invalid slot %q: start must be before end", part)
		}
		slots = append(slots, domain.Slot{Start: start, End: end})
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("no availability slots given")
	}
	return slots, nil
}

// FormatAvailability renders slots the way ParseAvailability reads them.
func FormatAvailability(slots domain.Availability) string {
	parts := make([]string, 0, len(slots))
	for _, sl := range slots {
		parts = append(parts, fmt.Sprintf("%d-%d", sl.Start, sl.End))
	}
	return strings.Join(parts, ", ")
}

func parseHour(s string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("hour %q is not a number", s)
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("hour %d out of range 0-23", h)
	}
	return h, nil
}
