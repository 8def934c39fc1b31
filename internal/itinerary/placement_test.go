package itinerary

import (
	"testing"

	"github.com/shopspring/decimal"
)

func threeDayCal(t *testing.T) Calendar {
	t.Helper()
	cal, err := NewCalendar(date(2025, 3, 10), date(2025, 3, 12))
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	return cal
}

func TestPlaceSingle_InRange(t *testing.T) {
	cal := threeDayCal(t)
	pl := PlaceSingle(cal, date(2025, 3, 11))
	if pl.DayIndex != 1 || pl.Clamped {
		t.Fatalf("expected day 1 unclamped, got %+v", pl)
	}
}

func TestPlaceSingle_ClampsToEdges(t *testing.T) {
	cal := threeDayCal(t)

	before := PlaceSingle(cal, date(2025, 3, 8))
	if before.DayIndex != 0 || !before.Clamped {
		t.Fatalf("early start should clamp to day 0, got %+v", before)
	}

	after := PlaceSingle(cal, date(2025, 3, 20))
	if after.DayIndex != 2 || !after.Clamped {
		t.Fatalf("late start should clamp to last day, got %+v", after)
	}
}

func TestSplitRoundTrip_HalvesCostAndLinksSegments(t *testing.T) {
	cal := threeDayCal(t)
	offer := FlightOffer{
		TripID:            7,
		Origin:            "LHR",
		Destination:       "JFK",
		TotalCost:         decimal.NewFromInt(850),
		TotalMarkup:       decimal.NewFromInt(50),
		MarkupType:        MarkupFixed,
		OutboundDeparture: date(2025, 3, 10),
		ReturnDeparture:   date(2025, 3, 12),
	}

	out, ret := SplitRoundTrip(cal, offer)

	if !out.Cost.Equal(decimal.NewFromInt(425)) || !ret.Cost.Equal(decimal.NewFromInt(425)) {
		t.Fatalf("cost not halved: %s / %s", out.Cost, ret.Cost)
	}
	if !out.Markup.Equal(decimal.NewFromInt(25)) || !ret.Markup.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("markup not halved: %s / %s", out.Markup, ret.Markup)
	}
	if !out.Cost.Add(ret.Cost).Equal(offer.TotalCost) {
		t.Fatalf("legs do not re-add to the quoted fare")
	}
	if out.DayIndex != 0 || ret.DayIndex != 2 {
		t.Fatalf("legs placed on wrong days: %d / %d", out.DayIndex, ret.DayIndex)
	}
	if out.LinkedItemID != ret.ID || ret.LinkedItemID != out.ID {
		t.Fatalf("links not symmetric")
	}
	if out.FlightDirection != DirectionOutbound || ret.FlightDirection != DirectionReturn {
		t.Fatalf("directions wrong: %s / %s", out.FlightDirection, ret.FlightDirection)
	}
	if out.Name != "LHR → JFK" || ret.Name != "JFK → LHR" {
		t.Fatalf("segment names wrong: %q / %q", out.Name, ret.Name)
	}
}

func TestResolveHotelSpan_TwoNights(t *testing.T) {
	cal := threeDayCal(t)
	stay := HotelStay{
		TripID:      7,
		Name:        "Harbor Hotel",
		CheckIn:     date(2025, 3, 10),
		CheckOut:    date(2025, 3, 12),
		NightlyCost: decimal.NewFromInt(120),
	}

	item, pl, err := ResolveHotelSpan(cal, stay)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Nights != 2 {
		t.Fatalf("expected 2 nights, got %d", item.Nights)
	}
	if item.DayIndex != 0 || item.SpanDays != 2 {
		t.Fatalf("expected span over days 0-1, got day=%d span=%d", item.DayIndex, item.SpanDays)
	}
	if pl.Clamped {
		t.Fatalf("in-range stay should not be clamped")
	}
	if !item.BaseCost().Equal(decimal.NewFromInt(240)) {
		t.Fatalf("base cost should be nightly*nights, got %s", item.BaseCost())
	}
}

func TestResolveHotelSpan_ClampedAtTripEnd(t *testing.T) {
	cal := threeDayCal(t)
	stay := HotelStay{
		Name:        "Long Stay",
		CheckIn:     date(2025, 3, 11),
		CheckOut:    date(2025, 3, 15),
		NightlyCost: decimal.NewFromInt(100),
	}

	item, pl, err := ResolveHotelSpan(cal, stay)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !pl.Clamped {
		t.Fatalf("stay past the trip end should be clamped")
	}
	if item.DayIndex != 1 || item.SpanDays != 2 {
		t.Fatalf("expected clamped span days 1-2, got day=%d span=%d", item.DayIndex, item.SpanDays)
	}
	if item.Nights != 4 {
		t.Fatalf("night count must keep the booked value, got %d", item.Nights)
	}
	if !item.BaseCost().Equal(decimal.NewFromInt(400)) {
		t.Fatalf("clamping must not change the total, got %s", item.BaseCost())
	}
}

func TestResolveHotelSpan_CheckOutNotAfterCheckIn(t *testing.T) {
	cal := threeDayCal(t)
	stay := HotelStay{
		CheckIn:  date(2025, 3, 11),
		CheckOut: date(2025, 3, 11),
	}
	if _, _, err := ResolveHotelSpan(cal, stay); err == nil {
		t.Fatalf("expected error for zero-night stay")
	}
}
