package itinerary

import (
	"fmt"
	"math"
	"time"

	"tripdesk/internal/domain"
)

// MaxTripDays caps the derived calendar length; anything longer is treated as
// a bad date range rather than a real trip.
const MaxTripDays = 30

type Day struct {
	Index int       `json:"index"`
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
}

// Calendar is the ordered sequence of day buckets derived from trip dates.
// It is recomputed wholesale whenever the dates change, never persisted.
type Calendar struct {
	Start time.Time
	Days  []Day
}

// NewCalendar derives day buckets from the trip's start and end date. Both
// ends are normalized to local midnight so a stray time component cannot
// shift an item across a day boundary.
func NewCalendar(start, end time.Time) (Calendar, error) {
	if start.IsZero() || end.IsZero() {
		return Calendar{}, domain.ValidationError{Field: "dates", Msg: "start and end date required"}
	}
	start = Midnight(start)
	end = Midnight(end)

	count := DaysBetween(start, end) + 1
	if count <= 0 {
		return Calendar{}, domain.ValidationError{Field: "dates", Msg: "end date before start date"}
	}
	if count > MaxTripDays {
		return Calendar{}, domain.ValidationError{Field: "dates", Msg: fmt.Sprintf("trip longer than %d days", MaxTripDays)}
	}

	days := make([]Day, count)
	for i := range days {
		days[i] = Day{
			Index: i,
			Label: fmt.Sprintf("Day %d", i+1),
			Date:  start.AddDate(0, 0, i),
		}
	}
	return Calendar{Start: start, Days: days}, nil
}

func (c Calendar) DayCount() int { return len(c.Days) }

func (c Calendar) Contains(idx int) bool { return idx >= 0 && idx < len(c.Days) }

// LastIndex is the highest valid bucket index, -1 for an empty calendar.
func (c Calendar) LastIndex() int { return len(c.Days) - 1 }

// Midnight truncates t to midnight in its own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts whole calendar days from a to b (negative when b is
// earlier). Rounding absorbs the 23h/25h days around DST transitions.
func DaysBetween(a, b time.Time) int {
	diff := Midnight(b).Sub(Midnight(a))
	return int(math.Round(diff.Hours() / 24))
}
