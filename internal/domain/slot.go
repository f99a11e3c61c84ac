package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is minutes since midnight. Slots store their daily window with
// it so overlap and elapsed-time checks stay integer arithmetic.
type TimeOfDay int

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS" clock strings.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay(hours*60 + minutes), nil
}

// String renders the clock value as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Minutes returns the raw minutes-since-midnight value.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// At anchors the time of day onto a calendar date in the date's location.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(t)/60, int(t)%60, 0, 0, date.Location())
}

// Slot is a business-defined recurring daily time window, not a single
// calendar occurrence. A booking reserves one slot on one date.
type Slot struct {
	ID         string
	BusinessID string
	Start      TimeOfDay
	End        TimeOfDay
	CreatedAt  time.Time
}
