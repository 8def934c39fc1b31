package itinerary

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestReconcile_ShrinkPurgesOutOfRangeItems(t *testing.T) {
	st := newTestStore(t)
	for i, id := range []string{"a", "b", "c"} {
		if err := st.AddItem(plainItem(id, i)); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}

	// 3 days -> 2 days drops everything on day 2
	res, err := st.Reconcile(date(2025, 3, 10), date(2025, 3, 11))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(res.Purged) != 1 || res.Purged[0].ID != "c" {
		t.Fatalf("expected only item c purged, got %+v", res.Purged)
	}
	if res.Kept != 2 || st.Len() != 2 {
		t.Fatalf("expected 2 survivors, got kept=%d len=%d", res.Kept, st.Len())
	}
	if st.Calendar().DayCount() != 2 {
		t.Fatalf("store calendar not swapped, days=%d", st.Calendar().DayCount())
	}
}

func TestReconcile_UnlinksSurvivingPairHalf(t *testing.T) {
	st := newTestStore(t)
	a := plainItem("out", 0)
	b := plainItem("ret", 2)
	a.Type, b.Type = TypeFlight, TypeFlight
	a.LinkedItemID, b.LinkedItemID = "ret", "out"
	if err := st.AddPair(a, b); err != nil {
		t.Fatalf("pair: %v", err)
	}

	res, err := st.Reconcile(date(2025, 3, 10), date(2025, 3, 11))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(res.Purged) != 1 || res.Purged[0].ID != "ret" {
		t.Fatalf("expected the return leg purged, got %+v", res.Purged)
	}
	if len(res.Unlinked) != 1 || res.Unlinked[0].ID != "out" {
		t.Fatalf("surviving leg should be reported unlinked, got %+v", res.Unlinked)
	}
	got, _ := st.Get("out")
	if got.IsLinked() {
		t.Fatalf("survivor still references the purged partner")
	}
}

func TestReconcile_ReclampsSurvivingSpan(t *testing.T) {
	st := newTestStore(t)
	hotel := plainItem("h1", 0)
	hotel.Type = TypeHotel
	hotel.SpanDays = 3
	hotel.Nights = 3
	hotel.Cost = decimal.NewFromInt(100)
	hotel.Quantity = 3
	if err := st.AddItem(hotel); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := st.Reconcile(date(2025, 3, 10), date(2025, 3, 11)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, _ := st.Get("h1")
	if got.SpanDays != 2 {
		t.Fatalf("surviving span should clamp to the new range, got %d", got.SpanDays)
	}
	if got.Nights != 3 {
		t.Fatalf("booked nights must survive the clamp, got %d", got.Nights)
	}
}

func TestReconcile_GrowKeepsEverything(t *testing.T) {
	st := newTestStore(t)
	for i, id := range []string{"a", "b", "c"} {
		if err := st.AddItem(plainItem(id, i)); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}

	res, err := st.Reconcile(date(2025, 3, 10), date(2025, 3, 15))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(res.Purged) != 0 || res.Kept != 3 {
		t.Fatalf("growing the trip must not purge, got %+v", res)
	}
}

func TestReconcile_InvalidRangeLeavesStoreUntouched(t *testing.T) {
	st := newTestStore(t)
	if err := st.AddItem(plainItem("a", 0)); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := st.Reconcile(date(2025, 3, 12), date(2025, 3, 10)); err == nil {
		t.Fatalf("expected error for inverted range")
	}
	if st.Len() != 1 || st.Calendar().DayCount() != 3 {
		t.Fatalf("failed reconcile must not mutate the store")
	}
}
