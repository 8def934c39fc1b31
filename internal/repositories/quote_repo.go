package repositories

import (
	"database/sql"
	"time"

	intconfig "tripdesk/internal/config"
	"tripdesk/internal/domain"
	"tripdesk/internal/domain/models"
)

type QuoteRepository struct {
	DB *sql.DB
}

func (r QuoteRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const quoteColumns = `id, customer_id, trip_id, COALESCE(status,'draft'), COALESCE(total,0),
	COALESCE(currency,'USD'), COALESCE(notes,''), COALESCE(created_at,'')`

func scanQuote(row interface{ Scan(...any) error }) (models.Quote, error) {
	var q models.Quote
	err := row.Scan(&q.ID, &q.CustomerID, &q.TripID, &q.Status, &q.Total, &q.Currency, &q.Notes, &q.CreatedAt)
	return q, err
}

func (r QuoteRepository) GetByID(id int64) (models.Quote, error) {
	if id <= 0 {
		return models.Quote{}, domain.ValidationError{Field: "quote_id", Msg: "invalid id"}
	}
	q, err := scanQuote(r.db().QueryRow(`SELECT `+quoteColumns+` FROM quotes WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return models.Quote{}, domain.NotFoundError{Resource: "quote"}
	}
	if err != nil {
		return models.Quote{}, domain.InternalError{Err: err}
	}
	return q, nil
}

func (r QuoteRepository) List(customerID int64) ([]models.Quote, error) {
	q := `SELECT ` + quoteColumns + ` FROM quotes`
	args := []any{}
	if customerID > 0 {
		q += ` WHERE customer_id=?`
		args = append(args, customerID)
	}
	q += ` ORDER BY id DESC`

	rows, err := r.db().Query(q, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Quote{}
	for rows.Next() {
		qt, err := scanQuote(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, qt)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

func (r QuoteRepository) Insert(q models.Quote) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO quotes (customer_id, trip_id, status, total, currency, notes, created_at)
		VALUES (?,?,?,?,?,?,?)
	`, q.CustomerID, q.TripID, q.Status, q.Total, q.Currency, q.Notes, time.Now())
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r QuoteRepository) Update(q models.Quote) error {
	res, err := r.db().Exec(`
		UPDATE quotes SET status=?, total=?, currency=?, notes=? WHERE id=?
	`, q.Status, q.Total, q.Currency, q.Notes, q.ID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.NotFoundError{Resource: "quote"}
	}
	return nil
}

func (r QuoteRepository) Delete(id int64) error {
	if _, err := r.db().Exec(`DELETE FROM payments WHERE quote_id=?`, id); err != nil {
		return domain.InternalError{Err: err}
	}
	if _, err := r.db().Exec(`DELETE FROM quotes WHERE id=?`, id); err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}
