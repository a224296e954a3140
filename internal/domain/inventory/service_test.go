package inventory

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func productRow(id uint, name string, stock int, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "sku", "name", "price", "stock", "is_active"}).
		AddRow(id, "SKU-1", name, 1999, stock, active)
}

func TestReserve_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Reserve(1, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_InsufficientStock(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(productRow(1, "Wireless Headphones", 2, true))

	err := svc.Reserve(1, 5)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Wireless Headphones has 2 left, requested 5")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_ProductNotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.Reserve(99, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_InactiveProduct(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(productRow(2, "Retired Gadget", 10, false))

	err := svc.Reserve(2, 1)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Release(1, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailable_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(productRow(1, "Wireless Headphones", 10, true))

	prod, err := svc.Available(1, 4)
	assert.NoError(t, err)
	assert.Equal(t, "Wireless Headphones", prod.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailable_InsufficientStock(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(productRow(1, "Wireless Headphones", 2, true))

	prod, err := svc.Available(1, 4)
	assert.Nil(t, prod)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}
