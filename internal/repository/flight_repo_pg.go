package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpetrov/flightdesk/internal/domain"
)

var ErrFlightNotFound = errors.New("flight not found")

// FlightRepository reads from the flights table. This service never
// writes flights.
type FlightRepository interface {
	// Direct returns up to limit direct flights for the route and day,
	// ordered by (duration, fid) ascending. Canceled flights are
	// excluded.
	Direct(ctx context.Context, origin, dest string, day, limit int) ([]domain.Flight, error)
	// Connecting returns up to limit two-leg itineraries for the route
	// and day, ordered by (total duration, first fid, second fid)
	// ascending.
	Connecting(ctx context.Context, origin, dest string, day, limit int) ([][2]domain.Flight, error)
	GetByID(ctx context.Context, fid int64) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) Direct(ctx context.Context, origin, dest string, day, limit int) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `
		SELECT fid, day_of_month, carrier_id, flight_num, origin_city, dest_city, actual_time, capacity, price
		FROM flights
		WHERE origin_city = $1 AND dest_city = $2 AND day_of_month = $3 AND canceled = 0
		ORDER BY actual_time, fid
		LIMIT $4`, origin, dest, day, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.FID, &f.DayOfMonth, &f.CarrierID, &f.FlightNum, &f.OriginCity, &f.DestCity, &f.Duration, &f.Capacity, &f.Price); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) Connecting(ctx context.Context, origin, dest string, day, limit int) ([][2]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `
		SELECT f1.fid, f1.day_of_month, f1.carrier_id, f1.flight_num, f1.origin_city, f1.dest_city, f1.actual_time, f1.capacity, f1.price,
		       f2.fid, f2.day_of_month, f2.carrier_id, f2.flight_num, f2.origin_city, f2.dest_city, f2.actual_time, f2.capacity, f2.price
		FROM flights f1
		JOIN flights f2 ON f1.dest_city = f2.origin_city AND f2.day_of_month = f1.day_of_month
		WHERE f1.origin_city = $1 AND f2.dest_city = $2 AND f1.day_of_month = $3
		  AND f1.canceled = 0 AND f2.canceled = 0
		ORDER BY f1.actual_time + f2.actual_time, f1.fid, f2.fid
		LIMIT $4`, origin, dest, day, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := make([][2]domain.Flight, 0)
	for rows.Next() {
		var a, b domain.Flight
		if err := rows.Scan(
			&a.FID, &a.DayOfMonth, &a.CarrierID, &a.FlightNum, &a.OriginCity, &a.DestCity, &a.Duration, &a.Capacity, &a.Price,
			&b.FID, &b.DayOfMonth, &b.CarrierID, &b.FlightNum, &b.OriginCity, &b.DestCity, &b.Duration, &b.Capacity, &b.Price,
		); err != nil {
			return nil, err
		}
		pairs = append(pairs, [2]domain.Flight{a, b})
	}
	return pairs, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, fid int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `
		SELECT fid, day_of_month, carrier_id, flight_num, origin_city, dest_city, actual_time, capacity, price
		FROM flights WHERE fid = $1`, fid)
	var f domain.Flight
	if err := row.Scan(&f.FID, &f.DayOfMonth, &f.CarrierID, &f.FlightNum, &f.OriginCity, &f.DestCity, &f.Duration, &f.Capacity, &f.Price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
