package pricing

import (
	"strings"

	"tripdesk/internal/domain"
	"tripdesk/internal/itinerary"

	"github.com/shopspring/decimal"
)

// Strategy decides how item-level and trip-level markup combine. Global
// stacks the trip markup on top of every item's own markup; per-item applies
// only the item markup and the trip discount. The two deliberately diverge;
// a trip picks one and sticks with it.
type Strategy string

const (
	StrategyGlobal  Strategy = "global"
	StrategyPerItem Strategy = "per-item"
)

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "global":
		return StrategyGlobal, nil
	case "per-item", "per_item", "peritem":
		return StrategyPerItem, nil
	default:
		return "", domain.ValidationError{Field: "markup_strategy", Msg: "must be global or per-item"}
	}
}

var hundred = decimal.NewFromInt(100)

// ItemFinal applies the item's own markup to its quantity-adjusted cost.
func ItemFinal(it itinerary.Item) decimal.Decimal {
	base := it.BaseCost()
	if it.MarkupType == itinerary.MarkupFixed {
		return base.Add(it.Markup)
	}
	return base.Add(base.Mul(it.Markup).Div(hundred))
}

// ItemMarkupAmount is the absolute markup on the item: the fixed amount
// itself, or the percentage applied to the quantity-adjusted cost.
func ItemMarkupAmount(it itinerary.Item) decimal.Decimal {
	if it.MarkupType == itinerary.MarkupFixed {
		return it.Markup
	}
	return it.BaseCost().Mul(it.Markup).Div(hundred)
}

// TripTerms is the trip-level pricing input read off the trip record.
type TripTerms struct {
	Markup   decimal.Decimal `json:"markup"`   // percent
	Discount decimal.Decimal `json:"discount"` // percent
	Strategy Strategy        `json:"strategy"`
}

type Line struct {
	ItemID string             `json:"itemId"`
	Name   string             `json:"name"`
	Type   itinerary.ItemType `json:"type"`
	Day    int                `json:"dayIndex"`
	Base   decimal.Decimal    `json:"base"`
	Markup decimal.Decimal    `json:"markup"`
	Final  decimal.Decimal    `json:"final"`
}

// Breakdown is the itemized result of pricing a whole itinerary.
type Breakdown struct {
	Strategy Strategy        `json:"strategy"`
	Lines    []Line          `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

// TripTotal prices the itinerary under the trip's strategy.
//
// Global sums every item's cost plus its markup amount, then wraps the sum in
// the trip markup and the trip discount:
//
//	total = Σ(base + markup) * (1 + tripMarkup/100) * (1 - tripDiscount/100)
//
// Per-item sums each item's individually computed final price and applies the
// trip discount once to the sum; the trip markup is never reapplied.
func TripTotal(items []itinerary.Item, terms TripTerms) Breakdown {
	bd := Breakdown{Strategy: terms.Strategy, Lines: make([]Line, 0, len(items))}

	for _, it := range items {
		line := Line{
			ItemID: it.ID,
			Name:   it.Name,
			Type:   it.Type,
			Day:    it.DayIndex,
			Base:   it.BaseCost(),
			Markup: ItemMarkupAmount(it),
			Final:  ItemFinal(it),
		}
		bd.Lines = append(bd.Lines, line)
		bd.Subtotal = bd.Subtotal.Add(line.Base.Add(line.Markup))
	}

	total := bd.Subtotal
	if terms.Strategy == StrategyGlobal {
		total = total.Mul(hundred.Add(terms.Markup)).Div(hundred)
	}
	total = total.Mul(hundred.Sub(terms.Discount)).Div(hundred)
	bd.Total = total
	return bd
}
