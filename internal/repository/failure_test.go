package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestProductDelete_CountFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bugs" WHERE product_id = \$1`).
		WithArgs("p1").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), "p1")
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusReorder_FailureRollsBackEarlierUpdates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStatusRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "statuses" SET "order"=\$1 WHERE id = \$2`).
		WithArgs(1, "a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "statuses" SET "order"=\$1 WHERE id = \$2`).
		WithArgs(0, "b").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := repo.Reorder(context.Background(), []StatusOrder{{ID: "a", Order: 1}, {ID: "b", Order: 0}})
	assert.EqualError(t, err, "deadlock detected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBugList_CountFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBugRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "bugs"`).
		WillReturnError(errors.New("relation does not exist"))

	_, _, err := repo.List(context.Background(), BugFilter{})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
