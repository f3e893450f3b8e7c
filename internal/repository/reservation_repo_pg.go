package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpetrov/flightdesk/internal/domain"
	"github.com/mpetrov/flightdesk/internal/txguard"
)

// ReservationRepository owns the transactional operations against the
// reservations table. Each method is one atomic unit of work: it either
// commits fully or leaves no visible trace.
type ReservationRepository interface {
	// Create assigns the next reservation ID and inserts the row. The
	// ID read, the same-day conflict check and the insert all happen in
	// one serializable transaction, so concurrent bookings are
	// linearized by the store.
	Create(ctx context.Context, res *domain.Reservation) error
	// Pay debits the owner's balance and flips the reservation to paid
	// in one transaction, returning the updated row and the remaining
	// balance.
	Pay(ctx context.Context, username string, reservationID int64) (*domain.Reservation, int64, error)
	// Cancel soft-cancels an active reservation owned by username and
	// returns the updated row. The row and its ID are retained forever.
	Cancel(ctx context.Context, username string, reservationID int64) (*domain.Reservation, error)
	ListActive(ctx context.Context, username string) ([]domain.Reservation, error)
}

type PGReservationRepository struct {
	db    *pgxpool.Pool
	guard *txguard.Guard
}

func NewReservationRepository(db *pgxpool.Pool, guard *txguard.Guard) ReservationRepository {
	return &PGReservationRepository{db: db, guard: guard}
}

func (r *PGReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	return r.guard.Serializable(ctx, func(tx pgx.Tx) error {
		var sameDay int
		err := tx.QueryRow(ctx,
			`SELECT count(*) FROM reservations WHERE username = $1 AND day_of_month = $2 AND cancellation_status = $3`,
			res.Username, res.DayOfMonth, domain.CancellationStatusActive).Scan(&sameDay)
		if err != nil {
			return err
		}
		if sameDay > 0 {
			return domain.ErrSameDayConflict
		}

		// Canceled rows are kept, so count(*) over all rows ever gives
		// a strictly increasing, never-reused ID.
		var total int64
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM reservations`).Scan(&total); err != nil {
			return err
		}
		res.ID = total + 1
		res.PayStatus = domain.PayStatusUnpaid
		res.CancellationStatus = domain.CancellationStatusActive

		_, err = tx.Exec(ctx,
			`INSERT INTO reservations (reservation_id, username, flight_ids, day_of_month, cost, pay_status, cancellation_status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			res.ID, res.Username, res.FlightIDs, res.DayOfMonth, res.Cost, res.PayStatus, res.CancellationStatus)
		return err
	})
}

func (r *PGReservationRepository) Pay(ctx context.Context, username string, reservationID int64) (*domain.Reservation, int64, error) {
	var res domain.Reservation
	var remaining int64
	err := r.guard.Serializable(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`SELECT reservation_id, username, flight_ids, day_of_month, cost FROM reservations
			 WHERE reservation_id = $1 AND username = $2 AND pay_status = $3 AND cancellation_status = $4`,
			reservationID, username, domain.PayStatusUnpaid, domain.CancellationStatusActive).
			Scan(&res.ID, &res.Username, &res.FlightIDs, &res.DayOfMonth, &res.Cost)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrReservationNotFound
			}
			return err
		}

		var balance int64
		if err := tx.QueryRow(ctx, `SELECT balance FROM users WHERE username = $1`, username).Scan(&balance); err != nil {
			return err
		}
		if balance < res.Cost {
			return &domain.InsufficientFundsError{Have: balance, Need: res.Cost}
		}

		remaining = balance - res.Cost
		if _, err := tx.Exec(ctx, `UPDATE users SET balance = $1 WHERE username = $2`, remaining, username); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE reservations SET pay_status = $1 WHERE reservation_id = $2`,
			domain.PayStatusPaid, reservationID); err != nil {
			return err
		}
		res.PayStatus = domain.PayStatusPaid
		res.CancellationStatus = domain.CancellationStatusActive
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &res, remaining, nil
}

func (r *PGReservationRepository) Cancel(ctx context.Context, username string, reservationID int64) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.guard.Serializable(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE reservations SET cancellation_status = $1
			 WHERE reservation_id = $2 AND username = $3 AND cancellation_status = $4
			 RETURNING reservation_id, username, flight_ids, day_of_month, cost, pay_status, cancellation_status`,
			domain.CancellationStatusCanceled, reservationID, username, domain.CancellationStatusActive).
			Scan(&res.ID, &res.Username, &res.FlightIDs, &res.DayOfMonth, &res.Cost, &res.PayStatus, &res.CancellationStatus)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrCancellationFailed
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *PGReservationRepository) ListActive(ctx context.Context, username string) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT reservation_id, username, flight_ids, day_of_month, cost, pay_status, cancellation_status
		 FROM reservations
		 WHERE username = $1 AND cancellation_status = $2
		 ORDER BY reservation_id`,
		username, domain.CancellationStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.Username, &res.FlightIDs, &res.DayOfMonth, &res.Cost, &res.PayStatus, &res.CancellationStatus); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
