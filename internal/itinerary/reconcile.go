package itinerary

import "time"

// ReconcileResult reports what a trip-date change did to the itinerary.
type ReconcileResult struct {
	Calendar Calendar
	Purged   []Item
	Unlinked []Item // surviving halves of pairs whose partner was purged
	Kept     int
}

// Reconcile rebuilds the store against a new date range. Items whose stored
// day index no longer exists in the new calendar are purged outright, not
// re-placed: the engine has no way to know where the user would want them.
// Surviving spans are re-clamped to the new last bucket, and a survivor whose
// linked partner was purged is unlinked so no dangling reference remains.
// Callers must mirror both the purges and the unlinks in persistence.
func (s *Store) Reconcile(newStart, newEnd time.Time) (ReconcileResult, error) {
	cal, err := NewCalendar(newStart, newEnd)
	if err != nil {
		return ReconcileResult{}, err
	}

	res := ReconcileResult{Calendar: cal}
	purged := map[string]bool{}
	for _, id := range s.order {
		it := s.items[id]
		if !cal.Contains(it.DayIndex) {
			res.Purged = append(res.Purged, *it)
			purged[id] = true
		}
	}
	for _, p := range res.Purged {
		s.drop(p.ID)
	}

	for _, id := range s.order {
		it := s.items[id]
		if it.IsLinked() && purged[it.LinkedItemID] {
			it.LinkedItemID = ""
			res.Unlinked = append(res.Unlinked, *it)
		}
		if it.SpanDays > 1 && it.DayIndex+it.SpanDays > cal.DayCount() {
			it.SpanDays = cal.DayCount() - it.DayIndex
		}
	}

	s.cal = cal
	res.Kept = len(s.items)
	return res, nil
}
