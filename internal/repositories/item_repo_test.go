package repositories

import (
	"testing"

	"tripdesk/internal/domain"
	"tripdesk/internal/itinerary"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func TestItemRepositoryListByTrip_RestoresPlacement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "trip_id", "item_type", "item_name", "cost", "quantity", "markup", "markup_type", "details"}).
		AddRow("f1", 7, "Flight", "LHR → JFK", "425", 1, "25", "fixed",
			`{"day_index":0,"linked_item_id":"f2","flight_direction":"outbound","start_time":"2025-03-10 09:30:00"}`).
		AddRow("h1", 7, "Hotel", "Harbor Hotel", "120", 2, "10", "percentage",
			`{"day_index":0,"span_days":2,"nights":2,"check_in_date":"2025-03-10","check_out_date":"2025-03-12"}`)

	mock.ExpectQuery("FROM itinerary_items").WithArgs(int64(7)).WillReturnRows(rows)

	repo := ItemRepository{DB: db}
	items, err := repo.ListByTrip(7)
	if err != nil {
		t.Fatalf("ListByTrip returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	flight := items[0]
	if flight.LinkedItemID != "f2" || flight.FlightDirection != itinerary.DirectionOutbound {
		t.Fatalf("flight link metadata lost: %+v", flight)
	}
	if flight.StartTime == nil || flight.StartTime.Hour() != 9 {
		t.Fatalf("start time not restored: %v", flight.StartTime)
	}

	hotel := items[1]
	if hotel.DayIndex != 0 || hotel.SpanDays != 2 || hotel.Nights != 2 {
		t.Fatalf("hotel placement lost: %+v", hotel)
	}
	if hotel.CheckInDate != "2025-03-10" {
		t.Fatalf("check-in date lost: %q", hotel.CheckInDate)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestItemRepositoryInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO itinerary_items").
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := ItemRepository{DB: db}
	item := itinerary.Item{
		ID:       "t1",
		TripID:   7,
		Type:     itinerary.TypeTour,
		Name:     "City Tour",
		Cost:     decimal.NewFromInt(50),
		Quantity: 2,
		DayIndex: 1,
	}
	if err := repo.Insert(item); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestItemRepositoryDelete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM itinerary_items").WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := ItemRepository{DB: db}
	if err := repo.Delete("ghost"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestItemRepositoryUpdateDayIndex_PatchesDetailsBlob(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COALESCE\\(details,'\\{\\}'\\) FROM itinerary_items").WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"details"}).AddRow(`{"day_index":0}`))
	mock.ExpectExec("UPDATE itinerary_items SET details=").
		WithArgs([]byte(`{"day_index":2}`), "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := ItemRepository{DB: db}
	if err := repo.UpdateDayIndex("t1", 2); err != nil {
		t.Fatalf("UpdateDayIndex returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestItemRepositoryClearLink(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COALESCE\\(details,'\\{\\}'\\) FROM itinerary_items").WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"details"}).
			AddRow(`{"day_index":1,"linked_item_id":"f2","flight_direction":"outbound"}`))
	mock.ExpectExec("UPDATE itinerary_items SET details=").
		WithArgs([]byte(`{"day_index":1}`), "f1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := ItemRepository{DB: db}
	if err := repo.ClearLink("f1"); err != nil {
		t.Fatalf("ClearLink returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
