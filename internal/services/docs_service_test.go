package services

import (
	"testing"
	"time"

	"tripdesk/internal/domain/models"
	"tripdesk/internal/itinerary"
	"tripdesk/internal/pricing"

	"github.com/shopspring/decimal"
)

func TestDocsServiceGenerateItinerary(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	loader := func(id int64) (tripDocData, error) {
		cal, err := itinerary.NewCalendar(start, start.AddDate(0, 0, 2))
		if err != nil {
			return tripDocData{}, err
		}
		st := itinerary.NewStore(cal)
		st.AddItem(itinerary.Item{
			ID:       "h1",
			Type:     itinerary.TypeHotel,
			Name:     "Harbor Hotel",
			Cost:     decimal.NewFromInt(120),
			Quantity: 2,
			SpanDays: 2,
			Nights:   2,
		})
		st.AddItem(itinerary.Item{
			ID:       "t1",
			Type:     itinerary.TypeTour,
			Name:     "Old Town Walk",
			Cost:     decimal.NewFromInt(45),
			DayIndex: 2,
		})

		bd := pricing.TripTotal(st.Items(), pricing.TripTerms{Strategy: pricing.StrategyGlobal})
		return tripDocData{
			Trip: models.Trip{
				ID:        id,
				Title:     "Spring Break",
				StartDate: "2025-03-10",
				EndDate:   "2025-03-12",
				Currency:  "USD",
			},
			Customer:  models.Customer{Name: "Tester"},
			Buckets:   st.Buckets(),
			Breakdown: bd,
		}, nil
	}

	svc := DocsService{Loader: loader}

	pdf, filename, err := svc.GenerateItinerary(7)
	if err != nil {
		t.Fatalf("GenerateItinerary returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("GenerateItinerary returned empty data")
	}
	if filename != "ITINERARY_7_Spring_Break.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestDocsServiceGenerateInvoice(t *testing.T) {
	loader := func(id int64) (quoteDocData, error) {
		return quoteDocData{
			Quote: models.Quote{
				ID:       3,
				Status:   models.QuoteStatusQuoted,
				Total:    decimal.NewFromInt(500),
				Currency: "USD",
			},
			Customer: models.Customer{Name: "Jane Roe", Email: "jane@example.com"},
			Lines: []pricing.Line{
				{ItemID: "t1", Name: "Old Town Walk", Type: itinerary.TypeTour, Final: decimal.NewFromInt(50)},
			},
			Paid: decimal.NewFromInt(200),
		}, nil
	}

	svc := DocsService{InvoiceLoader: loader}

	pdf, filename, err := svc.GenerateInvoice(3)
	if err != nil {
		t.Fatalf("GenerateInvoice returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("GenerateInvoice returned empty data")
	}
	if filename != "INVOICE_3_Jane_Roe.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}
