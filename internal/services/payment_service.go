package services

import (
	"fmt"
	"strings"

	"tripdesk/internal/domain"
	"tripdesk/internal/domain/models"
	"tripdesk/internal/repositories"
	"tripdesk/internal/utils"

	"github.com/shopspring/decimal"
)

// PaymentService records collections against booked quotes.
type PaymentService struct {
	Payments  repositories.PaymentRepository
	Quotes    repositories.QuoteRepository
	RequestID string
}

// Balance is the collection status of one quote.
type Balance struct {
	QuoteID     int64           `json:"quoteId"`
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

func (s PaymentService) Record(p models.Payment) (models.Payment, error) {
	if p.QuoteID <= 0 {
		return p, domain.ValidationError{Field: "quote_id", Msg: "required"}
	}
	if !p.Amount.IsPositive() {
		return p, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}
	if strings.TrimSpace(p.Method) == "" {
		p.Method = "transfer"
	}

	q, err := s.Quotes.GetByID(p.QuoteID)
	if err != nil {
		return p, err
	}
	paid, err := s.Payments.TotalPaid(p.QuoteID)
	if err != nil {
		return p, err
	}
	if paid.Add(p.Amount).GreaterThan(q.Total) {
		return p, domain.ValidationError{
			Field: "amount",
			Msg:   fmt.Sprintf("payment exceeds outstanding balance of %s", q.Total.Sub(paid).StringFixed(2)),
		}
	}

	id, err := s.Payments.Insert(p)
	if err != nil {
		return p, err
	}
	p.ID = id
	utils.LogEvent(s.RequestID, "payment", "record", fmt.Sprintf("quote_id=%d amount=%s", p.QuoteID, p.Amount.String()))
	return p, nil
}

func (s PaymentService) BalanceFor(quoteID int64) (Balance, error) {
	q, err := s.Quotes.GetByID(quoteID)
	if err != nil {
		return Balance{}, err
	}
	paid, err := s.Payments.TotalPaid(quoteID)
	if err != nil {
		return Balance{}, err
	}
	return Balance{
		QuoteID:     quoteID,
		Total:       q.Total,
		Paid:        paid,
		Outstanding: q.Total.Sub(paid),
	}, nil
}
