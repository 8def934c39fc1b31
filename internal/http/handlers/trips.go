package handlers

import (
	"net/http"

	"tripdesk/internal/domain/models"
	"tripdesk/internal/http/middleware"
	"tripdesk/internal/repositories"
	"tripdesk/internal/services"

	"github.com/gin-gonic/gin"
)

func itineraryService(c *gin.Context) services.ItineraryService {
	return services.ItineraryService{
		Items:     repositories.ItemRepository{},
		Trips:     repositories.TripRepository{},
		Markups:   repositories.MarkupRepository{},
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/trips
func GetTrips(c *gin.Context) {
	repo := repositories.TripRepository{}
	trips, err := repo.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GET /api/trips/:id
func GetTripByID(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.TripRepository{}
	trip, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// POST /api/trips
func CreateTrip(c *gin.Context) {
	var in models.Trip
	if !BindJSONOrError(c, &in) {
		return
	}
	if in.Title == "" || in.StartDate == "" || in.EndDate == "" {
		RespondError(c, http.StatusBadRequest, "title, startDate and endDate are required", nil)
		return
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if in.MarkupStrategy == "" {
		in.MarkupStrategy = "global"
	}
	if in.Status == "" {
		in.Status = "planning"
	}
	repo := repositories.TripRepository{}
	id, err := repo.Insert(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	in.ID = id
	c.JSON(http.StatusCreated, in)
}

// PUT /api/trips/:id
//
// Date changes are destructive for items that fall outside the new range, so
// they require confirm=true once the preview reports planned items would be
// purged.
func UpdateTrip(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var in models.Trip
	if !BindJSONOrError(c, &in) {
		return
	}
	in.ID = id

	repo := repositories.TripRepository{}
	current, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	datesChanged := (in.StartDate != "" && in.StartDate != current.StartDate) ||
		(in.EndDate != "" && in.EndDate != current.EndDate)

	if datesChanged {
		if in.StartDate == "" {
			in.StartDate = current.StartDate
		}
		if in.EndDate == "" {
			in.EndDate = current.EndDate
		}

		svc := itineraryService(c)
		if c.Query("confirm") != "true" {
			doomed, err := svc.PreviewTripDates(id, in.StartDate, in.EndDate)
			if err != nil {
				RespondDomainError(c, err)
				return
			}
			if len(doomed) > 0 {
				respondError(c, http.StatusConflict, "date_change_purges_items",
					"the new dates drop planned items; repeat with confirm=true to proceed", doomed)
				return
			}
		}
		if _, err := svc.ChangeTripDates(id, in.StartDate, in.EndDate); err != nil {
			RespondDomainError(c, err)
			return
		}
	}

	if err := repo.Update(in); err != nil {
		RespondDomainError(c, err)
		return
	}

	updated, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/trips/:id
func DeleteTrip(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.TripRepository{}
	if err := repo.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	itineraryService(c).Teardown(id)
	c.JSON(http.StatusOK, gin.H{"message": "trip deleted"})
}
