package itinerary

import (
	"testing"

	"tripdesk/internal/domain"
)

func TestSession_LoadOnce(t *testing.T) {
	sess := NewSession(7, threeDayCal(t))

	gen, ok := sess.BeginLoad()
	if !ok {
		t.Fatalf("first BeginLoad should win")
	}
	if _, ok := sess.BeginLoad(); ok {
		t.Fatalf("second BeginLoad during a load must be refused")
	}

	if err := sess.CompleteLoad(gen, []Item{plainItem("a", 0), plainItem("b", 1)}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !sess.Loaded() {
		t.Fatalf("session should be loaded")
	}
	if _, ok := sess.BeginLoad(); ok {
		t.Fatalf("BeginLoad after a completed load must be refused")
	}

	err := sess.With(func(st *Store) error {
		if st.Len() != 2 {
			t.Fatalf("expected 2 items installed, got %d", st.Len())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
}

func TestSession_WithBeforeLoadRefused(t *testing.T) {
	sess := NewSession(7, threeDayCal(t))
	err := sess.With(func(*Store) error { return nil })
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict before initial load, got %v", err)
	}
}

func TestSession_StaleLoadDiscardedAfterInvalidate(t *testing.T) {
	sess := NewSession(7, threeDayCal(t))

	gen, ok := sess.BeginLoad()
	if !ok {
		t.Fatalf("BeginLoad refused")
	}

	// reset while the load is in flight
	sess.Invalidate()
	if sess.Current(gen) {
		t.Fatalf("old generation should no longer be current")
	}

	if err := sess.CompleteLoad(gen, []Item{plainItem("a", 0)}); !domain.IsConflict(err) {
		t.Fatalf("stale completion must be discarded, got %v", err)
	}
	if sess.Loaded() {
		t.Fatalf("stale load must not mark the session loaded")
	}

	// a fresh load still works
	gen2, ok := sess.BeginLoad()
	if !ok {
		t.Fatalf("reload refused after invalidate")
	}
	if err := sess.CompleteLoad(gen2, nil); err != nil {
		t.Fatalf("fresh load failed: %v", err)
	}
}

func TestSession_AbortLoadAllowsRetry(t *testing.T) {
	sess := NewSession(7, threeDayCal(t))

	gen, _ := sess.BeginLoad()
	sess.AbortLoad(gen)
	if sess.State() != LoadIdle {
		t.Fatalf("abort should return to idle")
	}
	if _, ok := sess.BeginLoad(); !ok {
		t.Fatalf("retry after abort refused")
	}
}

func TestSession_BadRowSkippedDuringLoad(t *testing.T) {
	sess := NewSession(7, threeDayCal(t))
	gen, _ := sess.BeginLoad()

	items := []Item{
		plainItem("a", 0),
		plainItem("bad", 99), // stored day no longer valid
		plainItem("b", 2),
	}
	if err := sess.CompleteLoad(gen, items); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	sess.With(func(st *Store) error {
		if st.Len() != 2 {
			t.Fatalf("bad row should be skipped, not fatal; got %d", st.Len())
		}
		return nil
	})
}
