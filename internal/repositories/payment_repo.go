package repositories

import (
	"database/sql"
	"time"

	intconfig "tripdesk/internal/config"
	"tripdesk/internal/domain"
	"tripdesk/internal/domain/models"

	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r PaymentRepository) ListByQuote(quoteID int64) ([]models.Payment, error) {
	rows, err := r.db().Query(`
		SELECT id, quote_id, amount, COALESCE(method,''), COALESCE(reference,''), COALESCE(paid_at,'')
		FROM payments WHERE quote_id=? ORDER BY id ASC
	`, quoteID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.QuoteID, &p.Amount, &p.Method, &p.Reference, &p.PaidAt); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

// TotalPaid sums recorded payments for a quote.
func (r PaymentRepository) TotalPaid(quoteID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db().QueryRow(`SELECT COALESCE(SUM(amount),0) FROM payments WHERE quote_id=?`, quoteID).Scan(&total)
	if err != nil {
		return decimal.Zero, domain.InternalError{Err: err}
	}
	return total, nil
}

func (r PaymentRepository) Insert(p models.Payment) (int64, error) {
	paidAt := p.PaidAt
	if paidAt == "" {
		paidAt = time.Now().Format("2006-01-02 15:04:05")
	}
	res, err := r.db().Exec(`
		INSERT INTO payments (quote_id, amount, method, reference, paid_at) VALUES (?,?,?,?,?)
	`, p.QuoteID, p.Amount, p.Method, p.Reference, paidAt)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r PaymentRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM payments WHERE id=?`, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.NotFoundError{Resource: "payment"}
	}
	return nil
}
