package itinerary

import (
	"time"

	"tripdesk/internal/domain"
	"tripdesk/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Placement is the resolved bucket index for an item, with a flag set when
// the raw index had to be pulled back inside the calendar.
type Placement struct {
	DayIndex int  `json:"dayIndex"`
	Clamped  bool `json:"clamped"`
}

// PlaceSingle resolves the bucket for a one-day item (tour, transfer, one-way
// flight, single-night hotel). Out-of-range starts are clamped to the nearest
// edge instead of rejected, so a selected offer always lands somewhere
// visible; the caller surfaces the clamp as a warning.
func PlaceSingle(cal Calendar, start time.Time) Placement {
	idx := DaysBetween(cal.Start, start)
	switch {
	case idx < 0:
		return Placement{DayIndex: 0, Clamped: true}
	case idx >= cal.DayCount():
		return Placement{DayIndex: cal.LastIndex(), Clamped: true}
	default:
		return Placement{DayIndex: idx}
	}
}

// FlightOffer is a selected round-trip fare as handed over by a flight search
// provider: one total price covering both legs.
type FlightOffer struct {
	TripID      int64           `json:"tripId"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	TotalMarkup decimal.Decimal `json:"totalMarkup"`
	MarkupType  MarkupType      `json:"markupType"`

	OutboundDeparture time.Time `json:"outboundDeparture"`
	OutboundArrival   time.Time `json:"outboundArrival"`
	ReturnDeparture   time.Time `json:"returnDeparture"`
	ReturnArrival     time.Time `json:"returnArrival"`
}

// SplitRoundTrip converts one round-trip fare into two linked flight
// segments, each placed by its own departure date. The 50/50 cost and markup
// split is a policy, not arithmetic: the per-leg numbers must re-add to the
// quoted fare so round-trip totals reconcile.
func SplitRoundTrip(cal Calendar, offer FlightOffer) (outbound, ret Item) {
	two := decimal.NewFromInt(2)
	halfCost := offer.TotalCost.Div(two)
	halfMarkup := offer.TotalMarkup.Div(two)

	outID := uuid.NewString()
	retID := uuid.NewString()

	outDep, outArr := offer.OutboundDeparture, offer.OutboundArrival
	retDep, retArr := offer.ReturnDeparture, offer.ReturnArrival

	outbound = Item{
		ID:              outID,
		TripID:          offer.TripID,
		Type:            TypeFlight,
		Name:            offer.Origin + " → " + offer.Destination,
		Cost:            halfCost,
		Quantity:        1,
		Markup:          halfMarkup,
		MarkupType:      offer.MarkupType,
		StartTime:       &outDep,
		EndTime:         &outArr,
		DayIndex:        PlaceSingle(cal, outDep).DayIndex,
		LinkedItemID:    retID,
		FlightDirection: DirectionOutbound,
	}
	ret = Item{
		ID:              retID,
		TripID:          offer.TripID,
		Type:            TypeFlight,
		Name:            offer.Destination + " → " + offer.Origin,
		Cost:            halfCost,
		Quantity:        1,
		Markup:          halfMarkup,
		MarkupType:      offer.MarkupType,
		StartTime:       &retDep,
		EndTime:         &retArr,
		DayIndex:        PlaceSingle(cal, retDep).DayIndex,
		LinkedItemID:    outID,
		FlightDirection: DirectionReturn,
	}
	return outbound, ret
}

// HotelStay is a selected hotel offer: check-in, check-out and a nightly
// rate.
type HotelStay struct {
	TripID      int64           `json:"tripId"`
	Name        string          `json:"name"`
	CheckIn     time.Time       `json:"checkIn"`
	CheckOut    time.Time       `json:"checkOut"`
	NightlyCost decimal.Decimal `json:"nightlyCost"`
	Markup      decimal.Decimal `json:"markup"`
	MarkupType  MarkupType      `json:"markupType"`
}

// ResolveHotelSpan places a stay across every calendar day it touches. The
// item carries cost per night and quantity = nights, so the total stays
// nightly*nights regardless of clamping; the span end is clamped to the last
// valid bucket, which can leave SpanDays < Nights at a trip boundary.
func ResolveHotelSpan(cal Calendar, stay HotelStay) (Item, Placement, error) {
	nights := DaysBetween(stay.CheckIn, stay.CheckOut)
	if nights < 1 {
		return Item{}, Placement{}, domain.ValidationError{Field: "check_out_date", Msg: "check-out must be after check-in"}
	}

	start := PlaceSingle(cal, stay.CheckIn)
	// last occupied bucket is the final night, the day before check-out
	lastNight := Midnight(stay.CheckOut).AddDate(0, 0, -1)
	end := PlaceSingle(cal, lastNight)

	span := end.DayIndex - start.DayIndex + 1
	if span < 1 {
		span = 1
	}

	item := Item{
		ID:           uuid.NewString(),
		TripID:       stay.TripID,
		Type:         TypeHotel,
		Name:         stay.Name,
		Cost:         stay.NightlyCost,
		Quantity:     nights,
		Markup:       stay.Markup,
		MarkupType:   stay.MarkupType,
		DayIndex:     start.DayIndex,
		SpanDays:     span,
		Nights:       nights,
		CheckInDate:  utils.FormatDate(stay.CheckIn),
		CheckOutDate: utils.FormatDate(stay.CheckOut),
	}
	return item, Placement{DayIndex: start.DayIndex, Clamped: start.Clamped || end.Clamped}, nil
}
