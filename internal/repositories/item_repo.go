package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	intconfig "tripdesk/internal/config"
	"tripdesk/internal/domain"
	"tripdesk/internal/itinerary"
	"tripdesk/internal/utils"

	"github.com/shopspring/decimal"
)

// itemDetails is the free-form blob the persistent store keeps next to the
// typed columns. Placement metadata lives here, in the exact keys the
// dashboard UI reads.
type itemDetails struct {
	DayIndex        int    `json:"day_index"`
	SpanDays        int    `json:"span_days,omitempty"`
	Nights          int    `json:"nights,omitempty"`
	LinkedItemID    string `json:"linked_item_id,omitempty"`
	FlightDirection string `json:"flight_direction,omitempty"`
	CheckInDate     string `json:"check_in_date,omitempty"`
	CheckOutDate    string `json:"check_out_date,omitempty"`
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
}

// ItemRepository wraps DB access for itinerary_items.
type ItemRepository struct {
	DB *sql.DB
}

func (r ItemRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListByTrip loads every persisted item of a trip, placement metadata
// included, in creation order.
func (r ItemRepository) ListByTrip(tripID int64) ([]itinerary.Item, error) {
	rows, err := r.db().Query(`
		SELECT id, trip_id, item_type, item_name, cost, quantity, markup, markup_type, COALESCE(details,'{}')
		FROM itinerary_items
		WHERE trip_id=?
		ORDER BY created_at ASC, id ASC
	`, tripID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []itinerary.Item{}
	for rows.Next() {
		var (
			it      itinerary.Item
			mtype   string
			itype   string
			rawBlob []byte
		)
		if err := rows.Scan(&it.ID, &it.TripID, &itype, &it.Name, &it.Cost, &it.Quantity, &it.Markup, &mtype, &rawBlob); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		it.Type = itinerary.ItemType(itype)
		it.MarkupType = itinerary.MarkupType(mtype)
		applyDetails(&it, rawBlob)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

// Insert persists a new item. Callers add to the in-memory buckets only
// after this succeeds, so a write failure never leaves a phantom item.
func (r ItemRepository) Insert(it itinerary.Item) error {
	blob, err := json.Marshal(detailsOf(it))
	if err != nil {
		return domain.InternalError{Err: err}
	}
	_, err = r.db().Exec(`
		INSERT INTO itinerary_items (id, trip_id, item_type, item_name, cost, quantity, markup, markup_type, details, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)
	`, it.ID, it.TripID, string(it.Type), it.Name, it.Cost, it.Qty(), it.Markup, string(it.MarkupType), blob, time.Now())
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r ItemRepository) Delete(id string) error {
	res, err := r.db().Exec(`DELETE FROM itinerary_items WHERE id=?`, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.NotFoundError{Resource: "item", ID: id}
	}
	return nil
}

// UpdateDayIndex rewrites the placement inside the details blob.
func (r ItemRepository) UpdateDayIndex(id string, dayIndex int) error {
	return r.patchDetails(id, func(d *itemDetails) {
		d.DayIndex = dayIndex
	})
}

// ClearLink drops the cross-reference after a partner was purged.
func (r ItemRepository) ClearLink(id string) error {
	return r.patchDetails(id, func(d *itemDetails) {
		d.LinkedItemID = ""
		d.FlightDirection = ""
	})
}

func (r ItemRepository) UpdateMarkup(id string, markup decimal.Decimal, mt itinerary.MarkupType) error {
	res, err := r.db().Exec(`UPDATE itinerary_items SET markup=?, markup_type=? WHERE id=?`,
		markup, string(mt), id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.NotFoundError{Resource: "item", ID: id}
	}
	return nil
}

func (r ItemRepository) patchDetails(id string, patch func(*itemDetails)) error {
	db := r.db()
	var rawBlob []byte
	err := db.QueryRow(`SELECT COALESCE(details,'{}') FROM itinerary_items WHERE id=?`, id).Scan(&rawBlob)
	if err == sql.ErrNoRows {
		return domain.NotFoundError{Resource: "item", ID: id}
	}
	if err != nil {
		return domain.InternalError{Err: err}
	}

	var d itemDetails
	if err := json.Unmarshal(rawBlob, &d); err != nil {
		d = itemDetails{}
	}
	patch(&d)

	blob, err := json.Marshal(d)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if _, err := db.Exec(`UPDATE itinerary_items SET details=? WHERE id=?`, blob, id); err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func detailsOf(it itinerary.Item) itemDetails {
	d := itemDetails{
		DayIndex:        it.DayIndex,
		SpanDays:        it.SpanDays,
		Nights:          it.Nights,
		LinkedItemID:    it.LinkedItemID,
		FlightDirection: string(it.FlightDirection),
		CheckInDate:     it.CheckInDate,
		CheckOutDate:    it.CheckOutDate,
	}
	if it.StartTime != nil {
		d.StartTime = utils.FormatDateTime(*it.StartTime)
	}
	if it.EndTime != nil {
		d.EndTime = utils.FormatDateTime(*it.EndTime)
	}
	return d
}

func applyDetails(it *itinerary.Item, rawBlob []byte) {
	var d itemDetails
	if err := json.Unmarshal(rawBlob, &d); err != nil {
		return
	}
	it.DayIndex = d.DayIndex
	it.SpanDays = d.SpanDays
	it.Nights = d.Nights
	it.LinkedItemID = d.LinkedItemID
	it.FlightDirection = itinerary.FlightDirection(d.FlightDirection)
	it.CheckInDate = d.CheckInDate
	it.CheckOutDate = d.CheckOutDate
	if d.StartTime != "" {
		if t, err := utils.ParseDateTime(d.StartTime); err == nil {
			it.StartTime = &t
		}
	}
	if d.EndTime != "" {
		if t, err := utils.ParseDateTime(d.EndTime); err == nil {
			it.EndTime = &t
		}
	}
}
