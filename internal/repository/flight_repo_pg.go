package repository

import (
	"context"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// FlightCatalog is the read-only view over scheduled flights.
type FlightCatalog interface {
	FindByID(ctx context.Context, id string) (*domain.Flight, error)
	// FindByIDs returns the known flights among ids, in the order requested.
	FindByIDs(ctx context.Context, ids []string) ([]domain.Flight, error)
	// FindByRoute returns flights origin→destination departing inside window, by departure.
	FindByRoute(ctx context.Context, origin, destination string, window domain.TimeWindow) ([]domain.Flight, error)
	// DistinctDestinations lists airports reachable from origin by a flight departing inside window.
	DistinctDestinations(ctx context.Context, origin string, window domain.TimeWindow) ([]string, error)
}

// FindByRouteAndDay is FindByRoute restricted to one calendar day.
func FindByRouteAndDay(ctx context.Context, catalog FlightCatalog, origin, destination string, day time.Time) ([]domain.Flight, error) {
	return catalog.FindByRoute(ctx, origin, destination, domain.DayWindow(day))
}

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) *PGFlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `flight_id, flight_number, airline, origin, destination, departure, arrival`

func (r *PGFlightRepository) FindByID(ctx context.Context, id string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_id=$1`, id)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundError{Resource: "flight", ID: id, Err: err}
		}
		return nil, errors.Wrapf(err, "find flight %s", id)
	}
	return &f, nil
}

func (r *PGFlightRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Flight, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_id = ANY($1)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "find flights by ids")
	}
	found, err := collectFlights(rows)
	if err != nil {
		return nil, err
	}
	return orderByIDs(found, ids), nil
}

func (r *PGFlightRepository) FindByRoute(ctx context.Context, origin, destination string, window domain.TimeWindow) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE origin=$1 AND destination=$2 AND departure BETWEEN $3 AND $4
		ORDER BY departure`, origin, destination, window.From, window.To)
	if err != nil {
		return nil, errors.Wrapf(err, "find flights %s-%s", origin, destination)
	}
	return collectFlights(rows)
}

func (r *PGFlightRepository) DistinctDestinations(ctx context.Context, origin string, window domain.TimeWindow) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT destination FROM flights
		WHERE origin=$1 AND departure BETWEEN $2 AND $3
		ORDER BY destination`, origin, window.From, window.To)
	if err != nil {
		return nil, errors.Wrapf(err, "distinct destinations from %s", origin)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Wrap(err, "scan destinations")
	}
	return codes, nil
}

// Upsert inserts flights in one batch; existing flight ids are left untouched.
func (r *PGFlightRepository) Upsert(ctx context.Context, flights []domain.Flight) (int, error) {
	batch := &pgx.Batch{}
	for _, f := range flights {
		batch.Queue(`INSERT INTO flights (`+flightColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (flight_id) DO NOTHING`,
			f.FlightID, f.FlightNumber, f.Airline, f.Origin, f.Destination, f.Departure, f.Arrival)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range flights {
		tag, err := br.Exec()
		if err != nil {
			return inserted, errors.Wrap(err, "insert flight")
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlight(row rowScanner) (domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.FlightID, &f.FlightNumber, &f.Airline, &f.Origin, &f.Destination, &f.Departure, &f.Arrival); err != nil {
		return domain.Flight{}, err
	}
	f.Departure = f.Departure.UTC()
	f.Arrival = f.Arrival.UTC()
	return f, nil
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan flight")
		}
		flights = append(flights, f)
	}
	return flights, errors.Wrap(rows.Err(), "iterate flights")
}

func orderByIDs(flights []domain.Flight, ids []string) []domain.Flight {
	byID := make(map[string]domain.Flight, len(flights))
	for _, f := range flights {
		byID[f.FlightID] = f
	}
	ordered := make([]domain.Flight, 0, len(ids))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			ordered = append(ordered, f)
		}
	}
	return ordered
}

var _ FlightCatalog = (*PGFlightRepository)(nil)
