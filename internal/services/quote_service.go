package services

import (
	"fmt"
	"strings"

	"tripdesk/internal/domain"
	"tripdesk/internal/domain/models"
	"tripdesk/internal/repositories"
	"tripdesk/internal/utils"
)

// QuoteService handles the quote lifecycle. Quoting captures the itinerary
// total at that moment; later itinerary edits do not silently reprice an
// issued quote.
type QuoteService struct {
	Quotes      repositories.QuoteRepository
	Customers   repositories.CustomerRepository
	Itineraries ItineraryService
	RequestID   string
}

func (s QuoteService) Create(q models.Quote) (models.Quote, error) {
	if q.CustomerID <= 0 {
		return q, domain.ValidationError{Field: "customer_id", Msg: "required"}
	}
	if _, err := s.Customers.GetByID(q.CustomerID); err != nil {
		return q, err
	}
	q.Status = models.QuoteStatusDraft
	if strings.TrimSpace(q.Currency) == "" {
		q.Currency = "USD"
	}
	id, err := s.Quotes.Insert(q)
	if err != nil {
		return q, err
	}
	q.ID = id
	return q, nil
}

// Issue prices the trip's itinerary and freezes the total on the quote,
// moving it draft → quoted.
func (s QuoteService) Issue(quoteID int64) (models.Quote, error) {
	q, err := s.Quotes.GetByID(quoteID)
	if err != nil {
		return q, err
	}
	if q.Status == models.QuoteStatusBooked {
		return q, domain.ConflictError{Resource: "quote", Msg: "already booked"}
	}
	if q.TripID <= 0 {
		return q, domain.ValidationError{Field: "trip_id", Msg: "quote has no trip attached"}
	}

	bd, trip, err := s.Itineraries.Pricing(q.TripID)
	if err != nil {
		return q, err
	}
	q.Total = bd.Total
	q.Currency = trip.Currency
	q.Status = models.QuoteStatusQuoted
	if err := s.Quotes.Update(q); err != nil {
		return q, err
	}
	utils.LogEvent(s.RequestID, "quote", "issue", fmt.Sprintf("quote_id=%d total=%s", q.ID, q.Total.String()))
	return q, nil
}

// Book marks an issued quote as accepted.
func (s QuoteService) Book(quoteID int64) (models.Quote, error) {
	q, err := s.Quotes.GetByID(quoteID)
	if err != nil {
		return q, err
	}
	if q.Status != models.QuoteStatusQuoted {
		return q, domain.ConflictError{Resource: "quote", Msg: "only a quoted quote can be booked"}
	}
	q.Status = models.QuoteStatusBooked
	if err := s.Quotes.Update(q); err != nil {
		return q, err
	}
	utils.LogEvent(s.RequestID, "quote", "book", fmt.Sprintf("quote_id=%d", q.ID))
	return q, nil
}
