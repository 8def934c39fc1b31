package services

import (
	"testing"

	"tripdesk/internal/domain"
	"tripdesk/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func expectQuoteRow(mock sqlmock.Sqlmock, id int64, status string) {
	mock.ExpectQuery("FROM quotes WHERE id=").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "customer_id", "trip_id", "status", "total", "currency", "notes", "created_at",
		}).AddRow(id, 1, 7, status, "500", "USD", "", ""))
}

func TestQuoteServiceBook_QuotedBecomesBooked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expectQuoteRow(mock, 3, "quoted")
	mock.ExpectExec("UPDATE quotes SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := QuoteService{Quotes: repositories.QuoteRepository{DB: db}}
	q, err := svc.Book(3)
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if q.Status != "booked" {
		t.Fatalf("status not advanced, got %q", q.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestQuoteServiceBook_DraftRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expectQuoteRow(mock, 3, "draft")

	svc := QuoteService{Quotes: repositories.QuoteRepository{DB: db}}
	if _, err := svc.Book(3); !domain.IsConflict(err) {
		t.Fatalf("booking a draft should conflict, got %v", err)
	}
}

func TestQuoteServiceIssue_BookedRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expectQuoteRow(mock, 3, "booked")

	svc := QuoteService{Quotes: repositories.QuoteRepository{DB: db}}
	if _, err := svc.Issue(3); !domain.IsConflict(err) {
		t.Fatalf("re-issuing a booked quote should conflict, got %v", err)
	}
}
