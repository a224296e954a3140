package order

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

// expectLoadOrder queues the order read with its preloads. Preloads run
// in name order, so order_items comes before order_status_history.
func expectLoadOrder(mock sqlmock.Sqlmock, orderID, userID uint, status OrderStatus) {
	orderRows := sqlmock.NewRows([]string{"id", "order_number", "user_id", "status", "total_price"}).
		AddRow(orderID, "ORD-1756300000000-ABCDE", userID, status, 12999)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(orderRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_status_history"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func inventoryProductRow(id uint, name string, stock int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "stock", "is_active"}).
		AddRow(id, name, stock, true)
}

func TestCreateOrder_ChecksOutInOneTransaction(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB, &config.Config{})

	req := &CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: 7, Name: "Wireless Headphones", Quantity: 2, Price: 1999},
		},
		PaymentMethod: PaymentMethodCreditCard,
		ItemsPrice:    3998,
		TotalPrice:    3998,
	}

	// Validation pass reads stock before anything is written
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(inventoryProductRow(7, "Wireless Headphones", 10))

	// Order insert, stock reservation and cart clearing share one transaction
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "carts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(3, 42))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "cart_items"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "carts"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Reload with items for the response
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_number", "user_id", "status"}).
			AddRow(1, "ORD-1756300000000-ABCDE", 42, OrderStatusPending))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "quantity", "price", "total_price"}).
			AddRow(1, 1, 7, "Wireless Headphones", 2, 1999, 3998))

	ord, err := svc.CreateOrder(42, req)
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusPending, ord.Status)
	assert.Len(t, ord.Items, 1)
	assert.Equal(t, int64(3998), ord.Items[0].TotalPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_UnknownPaymentMethod(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	svc := NewService(gormDB, &config.Config{})

	req := &CreateOrderRequest{
		Items:         []OrderItemRequest{{ProductID: 7, Name: "Wireless Headphones", Quantity: 1, Price: 1999}},
		PaymentMethod: "bitcoin",
		TotalPrice:    1999,
	}

	ord, err := svc.CreateOrder(42, req)
	assert.Nil(t, ord)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPayOrder_PendingMovesToProcessing(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB, &config.Config{})

	expectLoadOrder(mock, 5, 42, OrderStatusPending)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_status_history"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	// Reload reflects the persisted transition
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_number", "user_id", "status", "is_paid"}).
			AddRow(5, "ORD-1756300000000-ABCDE", 42, OrderStatusProcessing, true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_status_history"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "status", "note"}).
			AddRow(1, 5, OrderStatusProcessing, "Payment received"))

	ord, err := svc.PayOrder(5, 42, false, &PayOrderRequest{TransactionID: "txn_1", Status: "completed"})
	assert.NoError(t, err)
	assert.True(t, ord.IsPaid)
	assert.Equal(t, OrderStatusProcessing, ord.Status)
	assert.Len(t, ord.StatusHistory, 1)
	assert.Equal(t, "Payment received", ord.StatusHistory[0].Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_EmptyOrder(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	svc := NewService(gormDB, &config.Config{})

	order, err := svc.CreateOrder(42, &CreateOrderRequest{Items: []OrderItemRequest{}})
	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrEmptyOrder)
}

func TestGetOrder_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB, &config.Config{})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	order, err := svc.GetOrder(99, 42, false)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrder_WrongUser(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB, &config.Config{})

	expectLoadOrder(mock, 5, 42, OrderStatusPending)

	order, err := svc.GetOrder(5, 43, false)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrder_AdminBypassesOwnership(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB, &config.Config{})

	expectLoadOrder(mock, 5, 42, OrderStatusPending)

	order, err := svc.GetOrder(5, 1, true)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), order.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelOrder_ShippedRejected(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	svc := NewService(gormDB, &config.Config{})

	expectLoadOrder(mock, 5, 42, OrderStatusShipped)

	order, err := svc.CancelOrder(5, 42, false, "changed my mind")
	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus_UnknownStatus(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	svc := NewService(gormDB, &config.Config{})

	order, err := svc.UpdateOrderStatus(5, &UpdateStatusRequest{Status: "archived"}, 1)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBuildOrderClause(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	svc := NewService(gormDB, &config.Config{})

	assert.Equal(t, "total_price asc", svc.buildOrderClause("total_price", "asc"))
	assert.Equal(t, "created_at desc", svc.buildOrderClause("password", "desc"))
	assert.Equal(t, "created_at desc", svc.buildOrderClause("created_at", "DROP TABLE"))
}
