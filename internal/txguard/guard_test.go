package txguard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/mpetrov/flightdesk/internal/domain"
)

// fakeTx records commit/rollback calls; the embedded interface covers
// the pgx.Tx methods the guard never touches.
type fakeTx struct {
	pgx.Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeConn struct {
	tx       *fakeTx
	beginErr error
	status   byte
	released bool
}

func (c *fakeConn) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	if c.beginErr != nil {
		return nil, c.beginErr
	}
	return c.tx, nil
}

func (c *fakeConn) TxStatus() byte { return c.status }

func (c *fakeConn) Release() { c.released = true }

func guardWith(conn *fakeConn) *Guard {
	return &Guard{acquire: func(ctx context.Context) (guardConn, error) {
		return conn, nil
	}}
}

func TestNewGuard(t *testing.T) {
	guard := New(&pgxpool.Pool{})
	assert.NotNil(t, guard)
}

func TestGuard_Serializable_CommitsOnSuccess(t *testing.T) {
	conn := &fakeConn{tx: &fakeTx{}, status: txStatusIdle}
	guard := guardWith(conn)

	err := guard.Serializable(context.Background(), func(tx pgx.Tx) error {
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, conn.tx.committed)
	assert.False(t, conn.tx.rolledBack)
	assert.True(t, conn.released)
}

func TestGuard_Serializable_RollsBackOnCallbackError(t *testing.T) {
	conn := &fakeConn{tx: &fakeTx{}, status: txStatusIdle}
	guard := guardWith(conn)

	err := guard.Serializable(context.Background(), func(tx pgx.Tx) error {
		return domain.ErrSameDayConflict
	})

	assert.ErrorIs(t, err, domain.ErrSameDayConflict)
	assert.False(t, conn.tx.committed)
	assert.True(t, conn.tx.rolledBack)
	assert.True(t, conn.released)
}

func TestGuard_Serializable_MapsSerializationFailureFromCallback(t *testing.T) {
	conn := &fakeConn{tx: &fakeTx{}, status: txStatusIdle}
	guard := guardWith(conn)

	err := guard.Serializable(context.Background(), func(tx pgx.Tx) error {
		return &pgconn.PgError{Code: codeSerializationFailure}
	})

	assert.ErrorIs(t, err, domain.ErrStoreConflict)
	assert.True(t, conn.tx.rolledBack)
}

func TestGuard_Serializable_RollsBackOnCommitError(t *testing.T) {
	conn := &fakeConn{
		tx:     &fakeTx{commitErr: &pgconn.PgError{Code: codeSerializationFailure}},
		status: txStatusIdle,
	}
	guard := guardWith(conn)

	err := guard.Serializable(context.Background(), func(tx pgx.Tx) error {
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrStoreConflict)
	assert.True(t, conn.tx.committed)
	assert.True(t, conn.tx.rolledBack)
	assert.True(t, conn.released)
}

func TestGuard_Serializable_BeginError(t *testing.T) {
	conn := &fakeConn{beginErr: errors.New("server gone"), status: txStatusIdle}
	guard := guardWith(conn)

	err := guard.Serializable(context.Background(), func(tx pgx.Tx) error {
		t.Fatal("callback must not run when begin fails")
		return nil
	})

	assert.ErrorContains(t, err, "begin transaction")
	assert.True(t, conn.released)
}

func TestGuard_Serializable_AcquireError(t *testing.T) {
	guard := &Guard{acquire: func(ctx context.Context) (guardConn, error) {
		return nil, errors.New("pool exhausted")
	}}

	err := guard.Serializable(context.Background(), func(tx pgx.Tx) error {
		return nil
	})

	assert.ErrorContains(t, err, "acquire connection")
}

func TestGuard_Serializable_PanicsOnDanglingTransaction(t *testing.T) {
	// 'T' is pgconn's in-transaction status; seeing it after commit
	// means the connection would go back to the pool mid-transaction.
	conn := &fakeConn{tx: &fakeTx{}, status: 'T'}
	guard := guardWith(conn)

	assert.PanicsWithValue(t, `txguard: dangling transaction on connection, status 'T'`, func() {
		_ = guard.Serializable(context.Background(), func(tx pgx.Tx) error {
			return nil
		})
	})
	assert.True(t, conn.released)
}

func TestMapStoreErr_SerializationFailure(t *testing.T) {
	err := mapStoreErr(&pgconn.PgError{Code: codeSerializationFailure})
	assert.ErrorIs(t, err, domain.ErrStoreConflict)
}

func TestMapStoreErr_Deadlock(t *testing.T) {
	err := mapStoreErr(&pgconn.PgError{Code: codeDeadlockDetected})
	assert.ErrorIs(t, err, domain.ErrStoreConflict)
}

func TestMapStoreErr_WrappedPgError(t *testing.T) {
	wrapped := fmt.Errorf("insert reservation: %w", &pgconn.PgError{Code: codeSerializationFailure})
	assert.ErrorIs(t, mapStoreErr(wrapped), domain.ErrStoreConflict)
}

func TestMapStoreErr_PassesThroughOtherErrors(t *testing.T) {
	businessErr := domain.ErrSameDayConflict
	assert.ErrorIs(t, mapStoreErr(businessErr), domain.ErrSameDayConflict)

	otherPg := &pgconn.PgError{Code: "23505"}
	got := mapStoreErr(otherPg)
	assert.NotErrorIs(t, got, domain.ErrStoreConflict)

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(got, &pgErr))
}
