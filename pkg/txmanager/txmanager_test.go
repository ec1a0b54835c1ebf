package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

type stubTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (s *stubTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, nil
}

func (s *stubTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, nil
}

func (s *stubTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func (s *stubTx) Commit() error {
	s.committed = true
	return s.commitErr
}

func (s *stubTx) Rollback() error {
	s.rolledBack = true
	return nil
}

type stubBeginner struct {
	tx       *stubTx
	opts     *sql.TxOptions
	beginErr error
	begins   int
}

func (s *stubBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	s.begins++
	s.opts = opts
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return s.tx, nil
}

func TestTransactionManager_Commit(t *testing.T) {
	beginner := &stubBeginner{tx: &stubTx{}}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, beginner.tx.committed)
	assert.False(t, beginner.tx.rolledBack)
	assert.Equal(t, sql.LevelSerializable, beginner.opts.Isolation)
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	beginner := &stubBeginner{tx: &stubTx{}}
	m := NewTransactionManager(beginner)
	errBoom := errors.New("boom")

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return errBoom
	})

	assert.ErrorIs(t, err, errBoom)
	assert.True(t, beginner.tx.rolledBack)
	assert.False(t, beginner.tx.committed)
}

func TestTransactionManager_NestedReusesOuterTx(t *testing.T) {
	beginner := &stubBeginner{tx: &stubTx{}}
	m := NewTransactionManager(beginner)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, beginner.begins)
}

func TestTransactionManager_BeginAndCommitErrors(t *testing.T) {
	m := NewTransactionManager(&stubBeginner{beginErr: errors.New("no conn")})
	err := m.Do(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrTransaction)

	m = NewTransactionManager(&stubBeginner{tx: &stubTx{commitErr: errors.New("serialization failure")}})
	err = m.Do(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrTransaction)
}

func TestTransactionManager_ReadOnlySnapshot(t *testing.T) {
	beginner := &stubBeginner{tx: &stubTx{}}
	m := NewTransactionManager(beginner)

	require.NoError(t, m.DoReadOnly(context.Background(), func(ctx context.Context) error { return nil }))
	assert.Equal(t, sql.LevelRepeatableRead, beginner.opts.Isolation)
	assert.True(t, beginner.opts.ReadOnly)
}

func TestTransactionManager_RetriesSerializationFailureOnCommit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001", Message: "could not serialize access due to read/write dependencies"})
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	m := NewTransactionManager(dbmetrics.Wrap(db, nil))
	attempts := 0
	err = m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		_, err := dbmetrics.GetExecutor(ctx, nil).ExecContext(ctx, "INSERT INTO bookings (employee_id) VALUES ($1)", 1)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RetriesWrappedDeadlockFromFn(t *testing.T) {
	beginner := &stubBeginner{tx: &stubTx{}}
	m := NewTransactionManager(beginner)
	errRepo := errors.New("repository error")

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("%w: insert: %w", errRepo, &pq.Error{Code: "40P01"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 2, beginner.begins)
}

func TestTransactionManager_RetriesAreBounded(t *testing.T) {
	beginner := &stubBeginner{tx: &stubTx{commitErr: &pq.Error{Code: "40001"}}}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrTransaction)
	assert.True(t, IsSerializationFailure(err))
	assert.Equal(t, DefaultMaxRetries+1, beginner.begins)
}

func TestTransactionManager_OtherErrorsAreNotRetried(t *testing.T) {
	beginner := &stubBeginner{tx: &stubTx{}}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return &pq.Error{Code: "23505"}
	})

	assert.Error(t, err)
	assert.False(t, IsSerializationFailure(err))
	assert.Equal(t, 1, beginner.begins)
}

func TestNoop(t *testing.T) {
	called := 0
	fn := func(ctx context.Context) error {
		called++
		return nil
	}

	var m Noop
	require.NoError(t, m.Do(context.Background(), fn))
	require.NoError(t, m.DoSerializable(context.Background(), fn))
	require.NoError(t, m.DoReadOnly(context.Background(), fn))
	assert.Equal(t, 3, called)
}
