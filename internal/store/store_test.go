package store

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ExecTx(t *testing.T) {
	t.Run("успешная функция коммитит транзакцию", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		s := NewStore(db, nil)
		err = s.ExecTx(context.Background(), func(q *Queries) error {
			return nil
		})

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка функции откатывает транзакцию", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		s := NewStore(db, nil)
		boom := errors.New("boom")
		err = s.ExecTx(context.Background(), func(q *Queries) error {
			return boom
		})

		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_ExecTx_PanicRollsBackAndRepropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	s := NewStore(db, nil)

	assert.Panics(t, func() {
		_ = s.ExecTx(context.Background(), func(q *Queries) error {
			panic("unexpected")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}
