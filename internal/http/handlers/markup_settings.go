package handlers

import (
	"net/http"

	"tripdesk/internal/domain/models"
	"tripdesk/internal/itinerary"
	"tripdesk/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/markup-settings
func GetMarkupSettings(c *gin.Context) {
	repo := repositories.MarkupRepository{}
	cfg, err := repo.Load()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	settings := make([]models.MarkupSetting, 0, len(cfg))
	for _, t := range []itinerary.ItemType{itinerary.TypeFlight, itinerary.TypeHotel, itinerary.TypeTour, itinerary.TypeTransfer} {
		if s, ok := cfg.DefaultFor(t); ok {
			settings = append(settings, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// PUT /api/markup-settings
func UpdateMarkupSetting(c *gin.Context) {
	var in models.MarkupSetting
	if !BindJSONOrError(c, &in) {
		return
	}
	if _, err := itinerary.ParseItemType(in.ItemType); err != nil {
		RespondDomainError(c, err)
		return
	}
	if in.MarkupType != "" {
		if _, err := itinerary.ParseMarkupType(in.MarkupType); err != nil {
			RespondDomainError(c, err)
			return
		}
	}
	repo := repositories.MarkupRepository{}
	if err := repo.Upsert(in); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}
