package txguard

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpetrov/flightdesk/internal/domain"
)

// Postgres SQLSTATE codes treated as transient conflicts.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// txStatusIdle is the pgconn transaction status of a connection with no
// open transaction.
const txStatusIdle = 'I'

// guardConn is the slice of a pooled connection the guard touches:
// begin a transaction, report the post-transaction status, go back to
// the pool.
type guardConn interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	TxStatus() byte
	Release()
}

type poolConn struct {
	conn *pgxpool.Conn
}

func (c poolConn) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	return c.conn.BeginTx(ctx, opts)
}

func (c poolConn) TxStatus() byte { return c.conn.Conn().PgConn().TxStatus() }

func (c poolConn) Release() { c.conn.Release() }

// Guard runs callbacks inside serializable transactions and asserts that
// no transaction is left open on the connection afterwards. A dangling
// transaction is a coordinator bug, not a user error, so the guard
// panics instead of returning it.
type Guard struct {
	acquire func(ctx context.Context) (guardConn, error)
}

func New(pool *pgxpool.Pool) *Guard {
	return &Guard{
		acquire: func(ctx context.Context) (guardConn, error) {
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return nil, err
			}
			return poolConn{conn: conn}, nil
		},
	}
}

// Serializable acquires a connection, runs fn inside a serializable
// transaction and commits on success or rolls back on any error. Every
// exit path releases the connection back to the pool in autocommit
// state.
func (g *Guard) Serializable(ctx context.Context, fn func(pgx.Tx) error) error {
	conn, err := g.acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()
	defer assertIdle(conn)

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return mapStoreErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return mapStoreErr(err)
	}
	return nil
}

// assertIdle is the dangling-transaction self-check: after an operation
// has committed or rolled back, the connection must be back in idle
// state before it is reused.
func assertIdle(conn guardConn) {
	if status := conn.TxStatus(); status != txStatusIdle {
		panic(fmt.Sprintf("txguard: dangling transaction on connection, status %q", status))
	}
}

// mapStoreErr surfaces serialization failures and deadlocks as a single
// retryable sentinel. The guard never retries: re-running a non-idempotent
// balance mutation automatically would be worse than failing the
// operation, and the caller can safely repeat the whole thing.
func mapStoreErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %s", domain.ErrStoreConflict, pgErr.Code)
		}
	}
	return err
}
