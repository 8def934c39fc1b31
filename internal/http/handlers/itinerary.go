package handlers

import (
	"net/http"
	"time"

	"tripdesk/internal/http/middleware"
	"tripdesk/internal/itinerary"
	"tripdesk/internal/repositories"
	"tripdesk/internal/services"
	"tripdesk/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// parseWhen accepts either "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS".
func parseWhen(s string) (time.Time, error) {
	if t, err := utils.ParseDateTime(s); err == nil {
		return t, nil
	}
	return utils.ParseDate(s)
}

// GET /api/trips/:id/itinerary
func GetItinerary(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	svc := itineraryService(c)
	buckets, trip, err := svc.Itinerary(tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trip":    trip,
		"buckets": buckets,
	})
}

type addItemRequest struct {
	Type       string           `json:"type"` // Flight, Hotel, Tour, Transfer
	Name       string           `json:"name"`
	Cost       decimal.Decimal  `json:"cost"`
	Quantity   int              `json:"quantity"`
	Markup     *decimal.Decimal `json:"markup"`
	MarkupType string           `json:"markupType"`
	Start      string           `json:"start"` // date or datetime
	End        string           `json:"end"`
}

// POST /api/trips/:id/itinerary/items
func AddItineraryItem(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req addItemRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	itemType, err := itinerary.ParseItemType(req.Type)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	start, err := parseWhen(req.Start)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid start date", err)
		return
	}

	in := services.SingleItemInput{
		Type:     itemType,
		Name:     req.Name,
		Cost:     req.Cost,
		Quantity: req.Quantity,
		Markup:   req.Markup,
		Start:    start,
	}
	if req.MarkupType != "" {
		mt, err := itinerary.ParseMarkupType(req.MarkupType)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		in.MarkupType = mt
	}
	if req.End != "" {
		end, err := parseWhen(req.End)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid end date", err)
			return
		}
		in.End = &end
	}

	item, pl, err := itineraryService(c).AddSingleItem(tripID, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	resp := gin.H{"item": item, "placement": pl}
	if pl.Clamped {
		resp["warning"] = "item date falls outside the trip range; placed on the nearest day"
	}
	c.JSON(http.StatusCreated, resp)
}

type addFlightRequest struct {
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	TotalMarkup decimal.Decimal `json:"totalMarkup"`
	MarkupType  string          `json:"markupType"`

	OutboundDeparture string `json:"outboundDeparture"`
	OutboundArrival   string `json:"outboundArrival"`
	ReturnDeparture   string `json:"returnDeparture"`
	ReturnArrival     string `json:"returnArrival"`
}

// POST /api/trips/:id/itinerary/flights
func AddRoundTripFlight(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req addFlightRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	offer := itinerary.FlightOffer{
		Origin:      req.Origin,
		Destination: req.Destination,
		TotalCost:   req.TotalCost,
		TotalMarkup: req.TotalMarkup,
		MarkupType:  itinerary.MarkupFixed,
	}
	if req.MarkupType != "" {
		mt, err := itinerary.ParseMarkupType(req.MarkupType)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		offer.MarkupType = mt
	}

	var err error
	if offer.OutboundDeparture, err = parseWhen(req.OutboundDeparture); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid outbound departure", err)
		return
	}
	if offer.ReturnDeparture, err = parseWhen(req.ReturnDeparture); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid return departure", err)
		return
	}
	if req.OutboundArrival != "" {
		if offer.OutboundArrival, err = parseWhen(req.OutboundArrival); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid outbound arrival", err)
			return
		}
	}
	if req.ReturnArrival != "" {
		if offer.ReturnArrival, err = parseWhen(req.ReturnArrival); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid return arrival", err)
			return
		}
	}

	outbound, ret, err := itineraryService(c).AddRoundTripFlight(tripID, offer)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"outbound": outbound, "return": ret})
}

type addHotelRequest struct {
	Name        string          `json:"name"`
	CheckIn     string          `json:"checkIn"`
	CheckOut    string          `json:"checkOut"`
	NightlyCost decimal.Decimal `json:"nightlyCost"`
	Markup      decimal.Decimal `json:"markup"`
	MarkupType  string          `json:"markupType"`
}

// POST /api/trips/:id/itinerary/hotels
func AddHotelStay(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req addHotelRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	stay := itinerary.HotelStay{
		Name:        req.Name,
		NightlyCost: req.NightlyCost,
		Markup:      req.Markup,
		MarkupType:  itinerary.MarkupPercentage,
	}
	if req.MarkupType != "" {
		mt, err := itinerary.ParseMarkupType(req.MarkupType)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		stay.MarkupType = mt
	}

	var err error
	if stay.CheckIn, err = utils.ParseDate(req.CheckIn); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid check-in date", err)
		return
	}
	if stay.CheckOut, err = utils.ParseDate(req.CheckOut); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid check-out date", err)
		return
	}

	item, pl, err := itineraryService(c).AddHotelStay(tripID, stay)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	resp := gin.H{"item": item, "placement": pl}
	if pl.Clamped {
		resp["warning"] = "stay extends past the trip range; the span was clamped to the last day"
	}
	c.JSON(http.StatusCreated, resp)
}

// DELETE /api/trips/:id/itinerary/items/:itemId
func RemoveItineraryItem(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	itemID := c.Param("itemId")
	if itemID == "" {
		RespondError(c, http.StatusBadRequest, "invalid itemId", nil)
		return
	}

	removed, err := itineraryService(c).RemoveItem(tripID, itemID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

type moveItemRequest struct {
	FromDay int `json:"fromDay"`
	ToDay   int `json:"toDay"`
}

// PUT /api/trips/:id/itinerary/items/:itemId/move
func MoveItineraryItem(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	itemID := c.Param("itemId")
	var req moveItemRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := itineraryService(c).MoveItem(tripID, itemID, req.FromDay, req.ToDay); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item moved", "dayIndex": req.ToDay})
}

type markupRequest struct {
	Markup     decimal.Decimal `json:"markup"`
	MarkupType string          `json:"markupType"`
}

// PUT /api/trips/:id/itinerary/items/:itemId/markup
func UpdateItemMarkup(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	itemID := c.Param("itemId")
	var req markupRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	mt, err := itinerary.ParseMarkupType(req.MarkupType)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := itineraryService(c).UpdateMarkup(tripID, itemID, req.Markup, mt); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "markup updated"})
}

// GET /api/trips/:id/pricing
func GetTripPricing(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	bd, trip, err := itineraryService(c).Pricing(tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currency": trip.Currency,
		"strategy": bd.Strategy,
		"lines":    bd.Lines,
		"subtotal": bd.Subtotal,
		"total":    bd.Total,
	})
}

// GET /api/trips/:id/itinerary/pdf
func GetItineraryPDF(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	svc := services.DocsService{
		Itineraries: itineraryService(c),
		Customers:   repositories.CustomerRepository{},
		RequestID:   middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateItinerary(tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
