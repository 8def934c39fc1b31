package repositories

import (
	"database/sql"
	"strings"
	"time"

	intconfig "tripdesk/internal/config"
	intdb "tripdesk/internal/db"
	"tripdesk/internal/domain"
	"tripdesk/internal/domain/models"
)

type CustomerRepository struct {
	DB *sql.DB
}

func (r CustomerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r CustomerRepository) GetByID(id int64) (models.Customer, error) {
	if id <= 0 {
		return models.Customer{}, domain.ValidationError{Field: "customer_id", Msg: "invalid id"}
	}
	var c models.Customer
	err := r.db().QueryRow(`
		SELECT id, name, COALESCE(email,''), COALESCE(phone,''), COALESCE(notes,''), COALESCE(created_at,'')
		FROM customers WHERE id=? LIMIT 1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Customer{}, domain.NotFoundError{Resource: "customer"}
	}
	if err != nil {
		return models.Customer{}, domain.InternalError{Err: err}
	}
	return c, nil
}

func (r CustomerRepository) List(search string) ([]models.Customer, error) {
	q := `
		SELECT id, name, COALESCE(email,''), COALESCE(phone,''), COALESCE(notes,''), COALESCE(created_at,'')
		FROM customers
	`
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		q += ` WHERE name LIKE ? OR email LIKE ?`
		like := "%" + s + "%"
		args = append(args, like, like)
	}
	q += ` ORDER BY name ASC`

	rows, err := r.db().Query(q, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

func (r CustomerRepository) Insert(c models.Customer) (int64, error) {
	if strings.TrimSpace(c.Name) == "" {
		return 0, domain.ValidationError{Field: "name", Msg: "required"}
	}
	res, err := r.db().Exec(`
		INSERT INTO customers (name, email, phone, notes, created_at) VALUES (?,?,?,?,?)
	`, c.Name, intdb.NullIfEmpty(c.Email), intdb.NullIfEmpty(c.Phone), intdb.NullIfEmpty(c.Notes), time.Now())
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r CustomerRepository) Update(c models.Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "required"}
	}
	res, err := r.db().Exec(`
		UPDATE customers SET name=?, email=?, phone=?, notes=? WHERE id=?
	`, c.Name, c.Email, c.Phone, c.Notes, c.ID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.NotFoundError{Resource: "customer"}
	}
	return nil
}

func (r CustomerRepository) Delete(id int64) error {
	if _, err := r.db().Exec(`DELETE FROM customers WHERE id=?`, id); err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}
