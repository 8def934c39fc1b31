package itinerary

import (
	"strings"
	"time"

	"tripdesk/internal/domain"

	"github.com/shopspring/decimal"
)

type ItemType string

const (
	TypeFlight   ItemType = "Flight"
	TypeHotel    ItemType = "Hotel"
	TypeTour     ItemType = "Tour"
	TypeTransfer ItemType = "Transfer"
)

// ParseItemType normalizes user input into one of the known item types.
func ParseItemType(s string) (ItemType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flight":
		return TypeFlight, nil
	case "hotel":
		return TypeHotel, nil
	case "tour":
		return TypeTour, nil
	case "transfer":
		return TypeTransfer, nil
	default:
		return "", domain.ValidationError{Field: "item_type", Msg: "must be Flight, Hotel, Tour or Transfer"}
	}
}

type MarkupType string

const (
	MarkupPercentage MarkupType = "percentage"
	MarkupFixed      MarkupType = "fixed"
)

func ParseMarkupType(s string) (MarkupType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "percentage", "percent":
		return MarkupPercentage, nil
	case "fixed":
		return MarkupFixed, nil
	default:
		return "", domain.ValidationError{Field: "markup_type", Msg: "must be percentage or fixed"}
	}
}

type FlightDirection string

const (
	DirectionOutbound FlightDirection = "outbound"
	DirectionReturn   FlightDirection = "return"
)

// Item is one bookable entry on a trip itinerary. A round-trip flight is two
// items cross-referencing each other through LinkedItemID; a multi-day hotel
// is a single item whose SpanDays covers consecutive day buckets. The item is
// stored once and the per-day view is derived, so the span never has to be
// duplicated across buckets.
type Item struct {
	ID       string          `json:"id"`
	TripID   int64           `json:"tripId"`
	Type     ItemType        `json:"type"`
	Name     string          `json:"name"`
	Cost     decimal.Decimal `json:"cost"`
	Quantity int             `json:"quantity"`

	Markup     decimal.Decimal `json:"markup"`
	MarkupType MarkupType      `json:"markupType"`

	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`

	DayIndex int `json:"dayIndex"`
	SpanDays int `json:"spanDays,omitempty"` // > 1 only for hotels covering several buckets

	LinkedItemID    string          `json:"linkedItemId,omitempty"`
	FlightDirection FlightDirection `json:"flightDirection,omitempty"`

	CheckInDate  string `json:"checkInDate,omitempty"`
	CheckOutDate string `json:"checkOutDate,omitempty"`
	// Nights is the booked night count; it can exceed SpanDays when the stay
	// was clamped at a trip boundary.
	Nights int `json:"nights,omitempty"`
}

func (it Item) IsLinked() bool { return strings.TrimSpace(it.LinkedItemID) != "" }

// Span is the number of consecutive day buckets the item occupies, never
// less than one.
func (it Item) Span() int {
	if it.SpanDays > 1 {
		return it.SpanDays
	}
	return 1
}

// OccupiesDay reports whether the item appears in the bucket at idx.
func (it Item) OccupiesDay(idx int) bool {
	return idx >= it.DayIndex && idx < it.DayIndex+it.Span()
}

// Qty defaults a missing quantity to one.
func (it Item) Qty() int64 {
	if it.Quantity > 1 {
		return int64(it.Quantity)
	}
	return 1
}

// BaseCost is cost times quantity, before any markup.
func (it Item) BaseCost() decimal.Decimal {
	return it.Cost.Mul(decimal.NewFromInt(it.Qty()))
}

// PerDayShare is the slice of the item total attributed to each bucket it
// occupies. For a stay clamped at the trip boundary the span can be shorter
// than the night count, which inflates the apparent per-day cost; Nights and
// SpanDays stay separate fields so the divergence is visible.
func (it Item) PerDayShare() decimal.Decimal {
	return it.BaseCost().Div(decimal.NewFromInt(int64(it.Span())))
}
