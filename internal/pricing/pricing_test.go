package pricing

import (
	"testing"

	"tripdesk/internal/itinerary"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestParseStrategy(t *testing.T) {
	if s, err := ParseStrategy(""); err != nil || s != StrategyGlobal {
		t.Fatalf("empty should default to global, got %v %v", s, err)
	}
	if s, err := ParseStrategy("per-item"); err != nil || s != StrategyPerItem {
		t.Fatalf("per-item not recognized, got %v %v", s, err)
	}
	if _, err := ParseStrategy("bogus"); err == nil {
		t.Fatalf("unknown strategy should error")
	}
}

func TestItemFinal(t *testing.T) {
	pct := itinerary.Item{Cost: dec("100"), Quantity: 2, Markup: dec("10"), MarkupType: itinerary.MarkupPercentage}
	if got := ItemFinal(pct); !got.Equal(dec("220")) {
		t.Fatalf("percentage markup wrong: %s", got)
	}

	fixed := itinerary.Item{Cost: dec("100"), Quantity: 1, Markup: dec("15"), MarkupType: itinerary.MarkupFixed}
	if got := ItemFinal(fixed); !got.Equal(dec("115")) {
		t.Fatalf("fixed markup wrong: %s", got)
	}
}

func TestTripTotal_GlobalStrategy(t *testing.T) {
	items := []itinerary.Item{
		{ID: "a", Name: "Tour", Type: itinerary.TypeTour, Cost: dec("300"), Quantity: 1},
	}
	terms := TripTerms{Markup: dec("10"), Discount: dec("5"), Strategy: StrategyGlobal}

	bd := TripTotal(items, terms)
	if !bd.Subtotal.Equal(dec("300")) {
		t.Fatalf("subtotal wrong: %s", bd.Subtotal)
	}
	// 300 * 1.10 * 0.95
	if !bd.Total.Equal(dec("313.5")) {
		t.Fatalf("expected 313.5, got %s", bd.Total)
	}
}

func TestTripTotal_GlobalStacksOnItemMarkup(t *testing.T) {
	items := []itinerary.Item{
		{ID: "a", Cost: dec("100"), Quantity: 1, Markup: dec("10"), MarkupType: itinerary.MarkupPercentage},
	}
	terms := TripTerms{Markup: dec("20"), Strategy: StrategyGlobal}

	bd := TripTotal(items, terms)
	// (100 + 10) * 1.20
	if !bd.Total.Equal(dec("132")) {
		t.Fatalf("expected 132, got %s", bd.Total)
	}
}

func TestTripTotal_PerItemStrategy(t *testing.T) {
	items := []itinerary.Item{
		{ID: "a", Cost: dec("100"), Quantity: 1, Markup: dec("10"), MarkupType: itinerary.MarkupPercentage},
		{ID: "b", Cost: dec("50"), Quantity: 1, Markup: dec("5"), MarkupType: itinerary.MarkupFixed},
	}
	// trip markup must be ignored under per-item
	terms := TripTerms{Markup: dec("50"), Discount: dec("10"), Strategy: StrategyPerItem}

	bd := TripTotal(items, terms)
	if !bd.Subtotal.Equal(dec("165")) {
		t.Fatalf("subtotal wrong: %s", bd.Subtotal)
	}
	// (110 + 55) * 0.90
	if !bd.Total.Equal(dec("148.5")) {
		t.Fatalf("expected 148.5, got %s", bd.Total)
	}
}

func TestTripTotal_LinesCarryPerItemFigures(t *testing.T) {
	items := []itinerary.Item{
		{ID: "a", Name: "Hotel", Type: itinerary.TypeHotel, Cost: dec("120"), Quantity: 2, Markup: dec("10"), MarkupType: itinerary.MarkupPercentage, DayIndex: 1},
	}
	bd := TripTotal(items, TripTerms{Strategy: StrategyPerItem})

	if len(bd.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(bd.Lines))
	}
	line := bd.Lines[0]
	if !line.Base.Equal(dec("240")) || !line.Markup.Equal(dec("24")) || !line.Final.Equal(dec("264")) {
		t.Fatalf("line figures wrong: base=%s markup=%s final=%s", line.Base, line.Markup, line.Final)
	}
	if line.Day != 1 {
		t.Fatalf("line day wrong: %d", line.Day)
	}
}

func TestTripTotal_EmptyItinerary(t *testing.T) {
	bd := TripTotal(nil, TripTerms{Markup: dec("10"), Discount: dec("5"), Strategy: StrategyGlobal})
	if !bd.Total.Equal(decimal.Zero) {
		t.Fatalf("empty itinerary should total zero, got %s", bd.Total)
	}
}
