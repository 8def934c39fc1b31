package handlers

import (
	"net/http"

	"tripdesk/internal/domain/models"
	"tripdesk/internal/http/middleware"
	"tripdesk/internal/repositories"
	"tripdesk/internal/services"

	"github.com/gin-gonic/gin"
)

func paymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Payments:  repositories.PaymentRepository{},
		Quotes:    repositories.QuoteRepository{},
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/quotes/:id/payments
func GetQuotePayments(c *gin.Context) {
	quoteID, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.PaymentRepository{}
	payments, err := repo.ListByQuote(quoteID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// POST /api/quotes/:id/payments
func RecordPayment(c *gin.Context) {
	quoteID, ok := PathID(c, "id")
	if !ok {
		return
	}
	var in models.Payment
	if !BindJSONOrError(c, &in) {
		return
	}
	in.QuoteID = quoteID

	payment, err := paymentService(c).Record(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// DELETE /api/payments/:id
func DeletePayment(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.PaymentRepository{}
	if err := repo.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment deleted"})
}

// GET /api/quotes/:id/balance
func GetQuoteBalance(c *gin.Context) {
	quoteID, ok := PathID(c, "id")
	if !ok {
		return
	}
	balance, err := paymentService(c).BalanceFor(quoteID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}
