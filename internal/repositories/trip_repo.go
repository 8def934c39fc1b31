package repositories

import (
	"database/sql"
	"time"

	intconfig "tripdesk/internal/config"
	"tripdesk/internal/domain"
	"tripdesk/internal/domain/models"
)

// TripRepository wraps DB access for trips. Date changes go through
// UpdateDates only, so callers cannot skip boundary reconciliation.
type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `id, customer_id, COALESCE(title,''), start_date, end_date, COALESCE(currency,'USD'),
	COALESCE(markup,0), COALESCE(discount,0), COALESCE(markup_strategy,'global'),
	COALESCE(status,'planning'), COALESCE(created_at,'')`

func scanTrip(row interface{ Scan(...any) error }) (models.Trip, error) {
	var t models.Trip
	err := row.Scan(
		&t.ID, &t.CustomerID, &t.Title, &t.StartDate, &t.EndDate, &t.Currency,
		&t.Markup, &t.Discount, &t.MarkupStrategy,
		&t.Status, &t.CreatedAt,
	)
	return t, err
}

func (r TripRepository) GetByID(id int64) (models.Trip, error) {
	if id <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "trip_id", Msg: "invalid id"}
	}
	t, err := scanTrip(r.db().QueryRow(`SELECT `+tripColumns+` FROM trips WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	if err != nil {
		return models.Trip{}, domain.InternalError{Err: err}
	}
	return t, nil
}

func (r TripRepository) List() ([]models.Trip, error) {
	rows, err := r.db().Query(`SELECT ` + tripColumns + ` FROM trips ORDER BY start_date DESC, id DESC`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

func (r TripRepository) Insert(t models.Trip) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO trips (customer_id, title, start_date, end_date, currency, markup, discount, markup_strategy, status, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)
	`, t.CustomerID, t.Title, t.StartDate, t.EndDate, t.Currency, t.Markup, t.Discount, t.MarkupStrategy, t.Status, time.Now())
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// Update rewrites the non-date fields; dates are reconciled separately.
func (r TripRepository) Update(t models.Trip) error {
	res, err := r.db().Exec(`
		UPDATE trips SET customer_id=?, title=?, currency=?, markup=?, discount=?, markup_strategy=?, status=?
		WHERE id=?
	`, t.CustomerID, t.Title, t.Currency, t.Markup, t.Discount, t.MarkupStrategy, t.Status, t.ID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.NotFoundError{Resource: "trip"}
	}
	return nil
}

// UpdateDates persists the new range after the itinerary was reconciled
// against it.
func (r TripRepository) UpdateDates(id int64, startDate, endDate string) error {
	res, err := r.db().Exec(`UPDATE trips SET start_date=?, end_date=? WHERE id=?`, startDate, endDate, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.NotFoundError{Resource: "trip"}
	}
	return nil
}

func (r TripRepository) Delete(id int64) error {
	if _, err := r.db().Exec(`DELETE FROM itinerary_items WHERE trip_id=?`, id); err != nil {
		return domain.InternalError{Err: err}
	}
	if _, err := r.db().Exec(`DELETE FROM trips WHERE id=?`, id); err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}
