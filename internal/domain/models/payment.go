package models

import "github.com/shopspring/decimal"

type Payment struct {
	ID        int64           `json:"id"`
	QuoteID   int64           `json:"quoteId"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"` // cash, card, transfer
	Reference string          `json:"reference,omitempty"`
	PaidAt    string          `json:"paidAt"`
}
