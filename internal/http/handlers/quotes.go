package handlers

import (
	"net/http"
	"strconv"

	"tripdesk/internal/domain/models"
	"tripdesk/internal/http/middleware"
	"tripdesk/internal/repositories"
	"tripdesk/internal/services"

	"github.com/gin-gonic/gin"
)

func quoteService(c *gin.Context) services.QuoteService {
	return services.QuoteService{
		Quotes:      repositories.QuoteRepository{},
		Customers:   repositories.CustomerRepository{},
		Itineraries: itineraryService(c),
		RequestID:   middleware.GetRequestID(c),
	}
}

// GET /api/quotes?customer_id=N
func GetQuotes(c *gin.Context) {
	var customerID int64
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid customer_id", err)
			return
		}
		customerID = id
	}
	repo := repositories.QuoteRepository{}
	quotes, err := repo.List(customerID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

// GET /api/quotes/:id
func GetQuoteByID(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.QuoteRepository{}
	quote, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// POST /api/quotes
func CreateQuote(c *gin.Context) {
	var in models.Quote
	if !BindJSONOrError(c, &in) {
		return
	}
	quote, err := quoteService(c).Create(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quote)
}

// POST /api/quotes/:id/issue
func IssueQuote(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	quote, err := quoteService(c).Issue(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// POST /api/quotes/:id/book
func BookQuote(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	quote, err := quoteService(c).Book(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

type updateQuoteRequest struct {
	Notes    string `json:"notes"`
	Currency string `json:"currency"`
}

// PUT /api/quotes/:id
//
// Only notes and currency are editable directly; status and total move
// through the issue/book lifecycle.
func UpdateQuote(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req updateQuoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	repo := repositories.QuoteRepository{}
	quote, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	quote.Notes = req.Notes
	if req.Currency != "" {
		quote.Currency = req.Currency
	}
	if err := repo.Update(quote); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// DELETE /api/quotes/:id
func DeleteQuote(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.QuoteRepository{}
	if err := repo.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "quote deleted"})
}

// GET /api/quotes/:id/invoice
func GetQuoteInvoicePDF(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	svc := services.DocsService{
		Itineraries: itineraryService(c),
		Quotes:      repositories.QuoteRepository{},
		Customers:   repositories.CustomerRepository{},
		Payments:    repositories.PaymentRepository{},
		RequestID:   middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateInvoice(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
