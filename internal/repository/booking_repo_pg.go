package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// ErrDuplicateRef is returned by Insert when the ref id is already taken.
var ErrDuplicateRef = errors.New("booking ref already exists")

type BookingRepository interface {
	Insert(ctx context.Context, booking *domain.Booking) error
	FindByRef(ctx context.Context, refID string) (*domain.Booking, error)
	// AppendEvent atomically appends ev and moves the status to ev.Status, but
	// only while the stored status still equals expected.
	AppendEvent(ctx context.Context, refID string, expected domain.BookingStatus, ev domain.BookingEvent) (*domain.Booking, error)
	ListArchivable(ctx context.Context, limit int) ([]domain.Booking, error)
	MarkArchived(ctx context.Context, refID string, at time.Time) error
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) *PGBookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `ref_id, origin, destination, departure_date, pieces, weight_kg, status, flight_ids, events, created_at, updated_at`

func (r *PGBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	events, err := json.Marshal(booking.Events)
	if err != nil {
		return errors.Wrap(err, "encode events")
	}
	departure, err := time.Parse(domain.DateLayout, booking.DepartureDate)
	if err != nil {
		return errors.Wrap(err, "parse departure date")
	}

	_, err = r.db.Exec(ctx, `INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10, $11)`,
		booking.RefID, booking.Origin, booking.Destination, departure, booking.Pieces, booking.WeightKg,
		string(booking.Status), booking.FlightIDs, string(events), booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRef
		}
		return errors.Wrapf(err, "insert booking %s", booking.RefID)
	}
	return nil
}

func (r *PGBookingRepository) FindByRef(ctx context.Context, refID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE ref_id=$1`, refID)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "booking", ID: refID, Err: err}
		}
		return nil, errors.Wrapf(err, "find booking %s", refID)
	}
	return b, nil
}

func (r *PGBookingRepository) AppendEvent(ctx context.Context, refID string, expected domain.BookingStatus, ev domain.BookingEvent) (*domain.Booking, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, errors.Wrap(err, "encode event")
	}

	row := r.db.QueryRow(ctx, `UPDATE bookings
		SET status=$3, events = events || jsonb_build_array($4::jsonb), updated_at=$5
		WHERE ref_id=$1 AND status=$2
		RETURNING `+bookingColumns,
		refID, string(expected), string(ev.Status), string(payload), ev.Timestamp)
	b, err := scanBooking(row)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(err, "append event to booking %s", refID)
	}

	var current string
	if err := r.db.QueryRow(ctx, `SELECT status FROM bookings WHERE ref_id=$1`, refID).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "booking", ID: refID, Err: err}
		}
		return nil, errors.Wrapf(err, "reload booking %s", refID)
	}
	return nil, domain.ConflictError{
		Resource: "booking",
		Msg:      "status changed from " + string(expected) + " to " + current + " concurrently",
	}
}

func (r *PGBookingRepository) ListArchivable(ctx context.Context, limit int) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE archived_at IS NULL AND status = ANY($1)
		ORDER BY updated_at
		LIMIT $2`,
		[]string{string(domain.BookingStatusDelivered), string(domain.BookingStatusCancelled)}, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list archivable bookings")
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan booking")
		}
		bookings = append(bookings, *b)
	}
	return bookings, errors.Wrap(rows.Err(), "iterate bookings")
}

func (r *PGBookingRepository) MarkArchived(ctx context.Context, refID string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE bookings SET archived_at=$2 WHERE ref_id=$1`, refID, at)
	if err != nil {
		return errors.Wrapf(err, "mark booking %s archived", refID)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError{Resource: "booking", ID: refID}
	}
	return nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b         domain.Booking
		departure time.Time
		status    string
		events    []byte
	)
	if err := row.Scan(&b.RefID, &b.Origin, &b.Destination, &departure, &b.Pieces, &b.WeightKg,
		&status, &b.FlightIDs, &events, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.DepartureDate = departure.Format(domain.DateLayout)
	b.Status = domain.BookingStatus(status)
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	if len(events) > 0 {
		if err := json.Unmarshal(events, &b.Events); err != nil {
			return nil, errors.Wrap(err, "decode events")
		}
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ BookingRepository = (*PGBookingRepository)(nil)
