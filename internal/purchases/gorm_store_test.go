package purchases

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dbMock(t *testing.T) (*sql.DB, *GormStore, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqldb,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return sqldb, NewGormStore(gormdb), mock
}

func TestGormStore_GetPurchaseNotFound(t *testing.T) {
	sqldb, store, mock := dbMock(t)
	defer sqldb.Close()

	mock.ExpectQuery(`SELECT \* FROM "purchases"`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := store.GetPurchase(context.Background(), 42)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SetPayedOffParticipantOnly(t *testing.T) {
	sqldb, store, mock := dbMock(t)
	defer sqldb.Close()

	purchaseRows := sqlmock.NewRows([]string{"id", "name", "type", "creator_id", "total_sum", "is_payed_off", "created_at"}).
		AddRow(1, "snacks", "store", 1, nil, false, time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "purchases" .+ FOR UPDATE`).
		WillReturnRows(purchaseRows)
	mock.ExpectExec(`UPDATE "user_purchases" SET "is_payed_off"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "user_purchases"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	err := store.SetPayedOff(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SetPayedOffSettlesPurchase(t *testing.T) {
	sqldb, store, mock := dbMock(t)
	defer sqldb.Close()

	purchaseRows := sqlmock.NewRows([]string{"id", "name", "type", "creator_id", "total_sum", "is_payed_off", "created_at"}).
		AddRow(1, "snacks", "store", 1, nil, false, time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "purchases" .+ FOR UPDATE`).
		WillReturnRows(purchaseRows)
	mock.ExpectExec(`UPDATE "user_purchases" SET "is_payed_off"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "user_purchases"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "purchases" SET "is_payed_off"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.SetPayedOff(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FinalizeOrderAlreadySubmitted(t *testing.T) {
	sqldb, store, mock := dbMock(t)
	defer sqldb.Close()

	purchaseRows := sqlmock.NewRows([]string{"id", "name", "type", "creator_id", "total_sum", "is_payed_off", "created_at"}).
		AddRow(1, "snacks", "store", 1, nil, false, time.Now())
	orderRows := sqlmock.NewRows([]string{"id", "purchase_id", "store_id", "is_submitted"}).
		AddRow(1, 1, "s1", true)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "purchases" .+ FOR UPDATE`).
		WillReturnRows(purchaseRows)
	mock.ExpectQuery(`SELECT \* FROM "store_orders"`).
		WillReturnRows(orderRows)
	mock.ExpectRollback()

	err := store.FinalizeOrder(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ReplaceItemsClosedPurchase(t *testing.T) {
	sqldb, store, mock := dbMock(t)
	defer sqldb.Close()

	purchaseRows := sqlmock.NewRows([]string{"id", "name", "type", "creator_id", "total_sum", "is_payed_off", "created_at"}).
		AddRow(1, "snacks", "store", 1, nil, false, time.Now())
	orderRows := sqlmock.NewRows([]string{"id", "purchase_id", "store_id", "is_submitted"}).
		AddRow(1, 1, "s1", true)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "purchases" .+ FOR UPDATE`).
		WillReturnRows(purchaseRows)
	mock.ExpectQuery(`SELECT \* FROM "store_orders"`).
		WillReturnRows(orderRows)
	mock.ExpectRollback()

	err := store.ReplaceItems(context.Background(), ReplaceItemsParams{PurchaseID: 1, UserPurchaseID: 2})
	assert.ErrorIs(t, err, ErrPurchaseClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
