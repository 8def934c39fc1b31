package api

import (
	"log"
	stdhttp "net/http"

	intconfig "tripdesk/internal/config"
	h "tripdesk/internal/http/handlers"
	"tripdesk/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	middleware.SetJWTSecret(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Customers
		customers := api.Group("/customers")
		customers.GET("", h.GetCustomers)
		customers.GET("/:id", h.GetCustomerByID)
		customers.POST("", h.CreateCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)

		// Trips and the itinerary board
		trips := api.Group("/trips")
		trips.GET("", h.GetTrips)
		trips.GET("/:id", h.GetTripByID)
		trips.POST("", h.CreateTrip)
		trips.PUT("/:id", h.UpdateTrip)
		trips.DELETE("/:id", h.DeleteTrip)

		trips.GET("/:id/itinerary", h.GetItinerary)
		trips.POST("/:id/itinerary/items", h.AddItineraryItem)
		trips.POST("/:id/itinerary/flights", h.AddRoundTripFlight)
		trips.POST("/:id/itinerary/hotels", h.AddHotelStay)
		trips.DELETE("/:id/itinerary/items/:itemId", h.RemoveItineraryItem)
		trips.PUT("/:id/itinerary/items/:itemId/move", h.MoveItineraryItem)
		trips.PUT("/:id/itinerary/items/:itemId/markup", h.UpdateItemMarkup)
		trips.GET("/:id/pricing", h.GetTripPricing)
		trips.GET("/:id/itinerary/pdf", h.GetItineraryPDF)

		// Quotes and payments
		quotes := api.Group("/quotes")
		quotes.GET("", h.GetQuotes)
		quotes.GET("/:id", h.GetQuoteByID)
		quotes.POST("", h.CreateQuote)
		quotes.PUT("/:id", h.UpdateQuote)
		quotes.POST("/:id/issue", h.IssueQuote)
		quotes.POST("/:id/book", h.BookQuote)
		quotes.DELETE("/:id", h.DeleteQuote)
		quotes.GET("/:id/invoice", h.GetQuoteInvoicePDF)
		quotes.GET("/:id/payments", h.GetQuotePayments)
		quotes.POST("/:id/payments", h.RecordPayment)
		quotes.GET("/:id/balance", h.GetQuoteBalance)
		api.DELETE("/payments/:id", h.DeletePayment)

		// Agency-wide markup policy, agents only
		markup := api.Group("/markup-settings", middleware.RequireAuth())
		markup.GET("", h.GetMarkupSettings)
		markup.PUT("", h.UpdateMarkupSetting)
	}

	return r
}
