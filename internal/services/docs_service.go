package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"tripdesk/internal/domain"
	"tripdesk/internal/domain/models"
	"tripdesk/internal/itinerary"
	"tripdesk/internal/pricing"
	"tripdesk/internal/repositories"
	"tripdesk/internal/utils"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// DocsService renders the customer-facing PDFs: the day-by-day itinerary
// document and the quote invoice.
type DocsService struct {
	Itineraries ItineraryService
	Quotes      repositories.QuoteRepository
	Customers   repositories.CustomerRepository
	Payments    repositories.PaymentRepository
	RequestID   string

	// Loader and InvoiceLoader override data loading in tests.
	Loader        func(tripID int64) (tripDocData, error)
	InvoiceLoader func(quoteID int64) (quoteDocData, error)
}

type tripDocData struct {
	Trip      models.Trip
	Customer  models.Customer
	Buckets   []itinerary.Bucket
	Breakdown pricing.Breakdown
}

// GenerateItinerary renders the trip's day-by-day plan with per-line and
// total pricing.
func (s DocsService) GenerateItinerary(tripID int64) ([]byte, string, error) {
	data, err := s.loadTripDocData(tripID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_itinerary", fmt.Sprintf("trip_id=%d", tripID))
	return buildItineraryPDF(data)
}

func (s DocsService) loadTripDocData(tripID int64) (tripDocData, error) {
	if s.Loader != nil {
		return s.Loader(tripID)
	}
	buckets, trip, err := s.Itineraries.Itinerary(tripID)
	if err != nil {
		return tripDocData{}, err
	}
	bd, _, err := s.Itineraries.Pricing(tripID)
	if err != nil {
		return tripDocData{}, err
	}
	customer, err := s.Customers.GetByID(trip.CustomerID)
	if err != nil && !domain.IsNotFound(err) {
		return tripDocData{}, err
	}
	return tripDocData{Trip: trip, Customer: customer, Buckets: buckets, Breakdown: bd}, nil
}

func buildItineraryPDF(d tripDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip Itinerary", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TRIP ITINERARY")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	title := strings.TrimSpace(d.Trip.Title)
	if title == "" {
		title = fmt.Sprintf("Trip #%d", d.Trip.ID)
	}
	pdf.Cell(0, 7, title)
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("%s to %s (%d days)", d.Trip.StartDate, d.Trip.EndDate, len(d.Buckets)))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Prepared for: "+safe(d.Customer.Name, "-"))
	pdf.Ln(10)

	for _, b := range d.Buckets {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, fmt.Sprintf("%s - %s", b.Day.Label, b.Day.Date.Format("Mon 02 Jan 2006")))
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 11)
		if len(b.Items) == 0 {
			pdf.Cell(0, 6, "  (free day)")
			pdf.Ln(6)
		}
		for _, it := range b.Items {
			line := fmt.Sprintf("  %-9s %s", it.Type, it.Name)
			if it.StartTime != nil {
				line += " at " + it.StartTime.Format("15:04")
			}
			if it.Span() > 1 {
				line += fmt.Sprintf(" (night %d of %d)", b.Day.Index-it.DayIndex+1, it.Span())
			}
			line += "  " + utils.FormatMoney(it.PerDayShare(), d.Trip.Currency)
			pdf.Cell(0, 6, line)
			pdf.Ln(6)
		}
		pdf.Ln(2)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Total: "+utils.FormatMoney(d.Breakdown.Total, d.Trip.Currency))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("ITINERARY_%d_%s.pdf", d.Trip.ID, safeFilenamePart(title))
	return buf.Bytes(), filename, nil
}

// quoteDocData feeds the invoice PDF.
type quoteDocData struct {
	Quote    models.Quote
	Customer models.Customer
	Lines    []pricing.Line
	Paid     decimal.Decimal
}

// GenerateInvoice renders the invoice for an issued quote, with the amount
// paid so far and the outstanding balance.
func (s DocsService) GenerateInvoice(quoteID int64) ([]byte, string, error) {
	data, err := s.loadQuoteDocData(quoteID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("quote_id=%d", quoteID))
	return buildInvoicePDF(data)
}

func (s DocsService) loadQuoteDocData(quoteID int64) (quoteDocData, error) {
	if s.InvoiceLoader != nil {
		return s.InvoiceLoader(quoteID)
	}
	quote, err := s.Quotes.GetByID(quoteID)
	if err != nil {
		return quoteDocData{}, err
	}
	if quote.Status == models.QuoteStatusDraft {
		return quoteDocData{}, domain.ConflictError{Resource: "quote", Msg: "draft quotes have no invoice"}
	}
	customer, err := s.Customers.GetByID(quote.CustomerID)
	if err != nil {
		return quoteDocData{}, err
	}
	paid, err := s.Payments.TotalPaid(quoteID)
	if err != nil {
		return quoteDocData{}, err
	}
	bd, _, err := s.Itineraries.Pricing(quote.TripID)
	if err != nil {
		return quoteDocData{}, err
	}
	return quoteDocData{Quote: quote, Customer: customer, Lines: bd.Lines, Paid: paid}, nil
}

func buildInvoicePDF(d quoteDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	invNo := fmt.Sprintf("INV-%d", d.Quote.ID)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice no : "+invNo)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Name  : %s", safe(d.Customer.Name, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Email : %s", safe(d.Customer.Email, "-")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Items:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for i, line := range d.Lines {
		pdf.MultiCell(0, 6, fmt.Sprintf("%d) %s %s  %s", i+1, line.Type, line.Name, utils.FormatMoney(line.Final, d.Quote.Currency)), "", "", false)
	}
	pdf.Ln(4)

	balance := d.Quote.Total.Sub(d.Paid)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total:   "+utils.FormatMoney(d.Quote.Total, d.Quote.Currency))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Paid:    "+utils.FormatMoney(d.Paid, d.Quote.Currency))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Balance: "+utils.FormatMoney(balance, d.Quote.Currency))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("INVOICE_%d_%s.pdf", d.Quote.ID, safeFilenamePart(d.Customer.Name))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
