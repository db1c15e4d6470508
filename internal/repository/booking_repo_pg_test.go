package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}

func TestScanBooking(t *testing.T) {
	created := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	events := `[{"id":"e1","type":"BOOKING_CREATED","status":"BOOKED","location":"DEL","timestamp":"2026-10-16T09:00:00Z","description":"Booking created","meta":{"pieces":2}}]`

	b, err := scanBooking(fakeRow{values: []any{
		"RGABCD1234", "DEL", "BOM", time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), 2, 15.5,
		"BOOKED", []string{"f1"}, []byte(events), created, created,
	}})
	require.NoError(t, err)

	assert.Equal(t, "RGABCD1234", b.RefID)
	assert.Equal(t, "2026-10-17", b.DepartureDate)
	assert.Equal(t, domain.BookingStatusBooked, b.Status)
	assert.Equal(t, []string{"f1"}, b.FlightIDs)
	require.Len(t, b.Events, 1)
	assert.Equal(t, domain.EventTypeBookingCreated, b.Events[0].Type)
	assert.Equal(t, float64(2), b.Events[0].Meta["pieces"])
}

func TestScanBooking_PropagatesNoRows(t *testing.T) {
	_, err := scanBooking(fakeRow{err: pgx.ErrNoRows})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(pgx.ErrNoRows))
}

var bookingCols = []string{"ref_id", "origin", "destination", "departure_date", "pieces", "weight_kg",
	"status", "flight_ids", "events", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PGBookingRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return NewBookingRepository(db), db
}

func departEvent(at time.Time) domain.BookingEvent {
	return domain.BookingEvent{
		ID:          "e2",
		Type:        "STATUS_DEPARTED",
		Status:      domain.BookingStatusDeparted,
		Location:    "DEL",
		Timestamp:   at,
		Description: "Shipment departed from DEL",
	}
}

var guardedUpdate = regexp.QuoteMeta("WHERE ref_id=$1 AND status=$2")
var statusReload = regexp.QuoteMeta("SELECT status FROM bookings WHERE ref_id=$1")

func TestAppendEvent_GuardedUpdate(t *testing.T) {
	repo, db := newMockRepo(t)
	at := time.Date(2026, 10, 20, 10, 5, 0, 0, time.UTC)
	events := `[{"id":"e1","type":"BOOKING_CREATED","status":"BOOKED","location":"DEL","timestamp":"2026-10-16T09:00:00Z","description":"Booking created"},` +
		`{"id":"e2","type":"STATUS_DEPARTED","status":"DEPARTED","location":"DEL","timestamp":"2026-10-20T10:05:00Z","description":"Shipment departed from DEL"}]`

	db.ExpectQuery(guardedUpdate).
		WithArgs("RGABCD1234", "BOOKED", "DEPARTED", pgxmock.AnyArg(), at).
		WillReturnRows(pgxmock.NewRows(bookingCols).AddRow(
			"RGABCD1234", "DEL", "BOM", time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), 2, 15.5,
			"DEPARTED", []string{"f1"}, []byte(events), at.Add(-time.Hour), at,
		))

	b, err := repo.AppendEvent(context.Background(), "RGABCD1234", domain.BookingStatusBooked, departEvent(at))
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusDeparted, b.Status)
	require.Len(t, b.Events, 2)
	assert.Equal(t, b.Status, b.Events[1].Status)
	assert.NoError(t, db.ExpectationsWereMet())
}

func TestAppendEvent_StatusMovedIsConflict(t *testing.T) {
	repo, db := newMockRepo(t)
	at := time.Date(2026, 10, 20, 10, 5, 0, 0, time.UTC)

	db.ExpectQuery(guardedUpdate).
		WithArgs("RGABCD1234", "BOOKED", "DEPARTED", pgxmock.AnyArg(), at).
		WillReturnRows(pgxmock.NewRows(bookingCols))
	db.ExpectQuery(statusReload).
		WithArgs("RGABCD1234").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("CANCELLED"))

	_, err := repo.AppendEvent(context.Background(), "RGABCD1234", domain.BookingStatusBooked, departEvent(at))
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err), "got %v", err)
	assert.Contains(t, err.Error(), "BOOKED to CANCELLED")
	assert.NoError(t, db.ExpectationsWereMet())
}

func TestAppendEvent_MissingBookingIsNotFound(t *testing.T) {
	repo, db := newMockRepo(t)
	at := time.Date(2026, 10, 20, 10, 5, 0, 0, time.UTC)

	db.ExpectQuery(guardedUpdate).
		WithArgs("RGZZZZZZZZ", "BOOKED", "DEPARTED", pgxmock.AnyArg(), at).
		WillReturnRows(pgxmock.NewRows(bookingCols))
	db.ExpectQuery(statusReload).
		WithArgs("RGZZZZZZZZ").
		WillReturnRows(pgxmock.NewRows([]string{"status"}))

	_, err := repo.AppendEvent(context.Background(), "RGZZZZZZZZ", domain.BookingStatusBooked, departEvent(at))
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
	assert.NoError(t, db.ExpectationsWereMet())
}

func TestInsert_DuplicateRef(t *testing.T) {
	repo, db := newMockRepo(t)
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	db.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Insert(context.Background(), &domain.Booking{
		RefID: "RGABCD1234", Origin: "DEL", Destination: "BOM", DepartureDate: "2026-10-20",
		Pieces: 1, WeightKg: 3, Status: domain.BookingStatusBooked, FlightIDs: []string{"f1"},
		CreatedAt: at, UpdatedAt: at,
	})
	assert.ErrorIs(t, err, ErrDuplicateRef)
	assert.NoError(t, db.ExpectationsWereMet())
}

func TestMarkArchived_UnknownRef(t *testing.T) {
	repo, db := newMockRepo(t)
	at := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)

	db.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET archived_at=$2 WHERE ref_id=$1")).
		WithArgs("RGZZZZZZZZ", at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkArchived(context.Background(), "RGZZZZZZZZ", at)
	assert.True(t, domain.IsNotFound(err))
	assert.NoError(t, db.ExpectationsWereMet())
}
