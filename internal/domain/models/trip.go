package models

import "github.com/shopspring/decimal"

// Trip is the dashboard-side trip record. The itinerary engine only reads
// and writes the date and markup/discount/strategy fields.
type Trip struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customerId"`
	Title      string `json:"title"`
	StartDate  string `json:"startDate"` // YYYY-MM-DD
	EndDate    string `json:"endDate"`   // YYYY-MM-DD
	Currency   string `json:"currency"`

	Markup         decimal.Decimal `json:"markup"`         // percent
	Discount       decimal.Decimal `json:"discount"`       // percent
	MarkupStrategy string          `json:"markupStrategy"` // global | per-item

	Status    string `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
}
