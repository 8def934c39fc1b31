package models

import "github.com/shopspring/decimal"

// Quote statuses follow the dashboard flow: a draft becomes a quote once
// priced, and a booking once the customer accepts.
const (
	QuoteStatusDraft  = "draft"
	QuoteStatusQuoted = "quoted"
	QuoteStatusBooked = "booked"
)

type Quote struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customerId"`
	TripID     int64           `json:"tripId"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"` // captured at quoting time
	Currency   string          `json:"currency"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  string          `json:"createdAt,omitempty"`
}
