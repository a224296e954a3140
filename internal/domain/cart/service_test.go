package cart

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
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

func newTestService(db *gorm.DB) *Service {
	// nil redis client disables the count cache
	return NewService(db, nil, &config.Config{})
}

func TestGetItemCount_NoCart(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := newTestService(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "carts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	count, err := svc.GetItemCount(42)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetItemCount_ExistingCart(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := newTestService(gormDB)

	rows := sqlmock.NewRows([]string{"id", "user_id", "total_items", "total_amount"}).
		AddRow(1, 42, 3, 8498)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "carts"`)).
		WillReturnRows(rows)

	count, err := svc.GetItemCount(42)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func cartRow(id, userID uint) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "total_items", "total_amount"}).
		AddRow(id, userID, 0, 0)
}

func cartItemRow(id, cartID, productID uint, quantity int, price int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "cart_id", "product_id", "quantity", "price"}).
		AddRow(id, cartID, productID, quantity, price)
}

func productRow(id uint, name string, price int64, stock int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "price", "discount_pct", "stock", "low_stock_threshold", "is_active"}).
		AddRow(id, name, price, 0, stock, 5, true)
}

// expectCartWithItem queues the get-or-create read for a cart holding a
// single line, including the nested product preload.
func expectCartWithItem(mock sqlmock.Sqlmock, productID uint, quantity int, linePrice, productPrice int64, stock int) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "carts"`)).
		WillReturnRows(cartRow(1, 42))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "cart_items"`)).
		WillReturnRows(cartItemRow(10, 1, productID, quantity, linePrice))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(productRow(productID, "Wireless Headphones", productPrice, stock))
}

func TestUpdateItem_RefreshesSnapshotPrice(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := newTestService(gormDB)

	// Line was added at 1000 cents; the product now sells for 500
	expectCartWithItem(mock, 7, 2, 1000, 500, 10)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(productRow(7, "Wireless Headphones", 500, 10))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "cart_items"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "carts"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cart, err := svc.UpdateItem(42, 10, &UpdateCartItemRequest{Quantity: 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(500), cart.Items[0].Price)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.TotalItems)
	assert.Equal(t, int64(1500), cart.TotalAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItem_MergeExceedsStock(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := newTestService(gormDB)

	// 2 already in the cart, 10 more requested, only 5 in stock
	expectCartWithItem(mock, 7, 2, 500, 500, 5)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(productRow(7, "Wireless Headphones", 500, 5))

	cart, err := svc.AddItem(42, &AddToCartRequest{ProductID: 7, Quantity: 10})
	assert.Nil(t, cart)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	// No writes happened, so the stored cart is untouched
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItem_NewLineTotals(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := newTestService(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "carts"`)).
		WillReturnRows(cartRow(1, 42))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "cart_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(productRow(7, "Wireless Headphones", 1999, 10))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "cart_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "carts"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cart, err := svc.AddItem(42, &AddToCartRequest{ProductID: 7, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(1999), cart.Items[0].Price)
	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, int64(3998), cart.TotalAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCart_CreatesOnFirstAccess(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := newTestService(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "carts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "carts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	cart, err := svc.GetCart(42)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), cart.ID)
	assert.Equal(t, uint(42), cart.UserID)
	assert.True(t, cart.IsEmpty())
	assert.NoError(t, mock.ExpectationsWereMet())
}
