package usecase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validOrderInput(items ...usecase.OrderItemInput) usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		Items:           items,
		TotalPrice:      20,
		ShippingAddress: "12 Road",
		CustomerName:    "A B",
		CustomerEmail:   "a@b.com",
		CustomerPhone:   "000",
		PaymentMethod:   "cash_on_delivery",
	}
}

func itemFromJSON(t *testing.T, body string) usecase.OrderItemInput {
	t.Helper()
	var in usecase.OrderItemInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func requireHTTPError(t *testing.T, err error, status int) *usecase.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected *usecase.HTTPError, got %v", err)
	require.Equal(t, status, he.Status)
	return he
}

func TestOrderUsecase_Create_Success(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.products.On("FindByID", mock.Anything, int64(3)).
		Return(model.Product{ID: 3, Name: "Cable", Price: 10, Image: "cable.png"}, nil)
	tx.repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 1 &&
			len(o.Items) == 1 &&
			o.Items[0].ProductID == 3 &&
			o.Items[0].Quantity == 2 &&
			o.Status == model.OrderStatusPending &&
			o.PaymentStatus == model.PaymentStatusPending
	})).Return(model.Order{ID: 100, UserID: 1, Status: model.OrderStatusPending}, nil)

	in := validOrderInput(itemFromJSON(t, `{"product": "3", "quantity": 2, "price": 10, "name": "Cable"}`))
	out, err := u.Create(ctx, 1, in)

	require.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
	tx.repos.orders.AssertExpectations(t)
	tx.repos.products.AssertExpectations(t)
}

// 明細数が入力と一致すること。
func TestOrderUsecase_Create_ItemCountMatchesInput(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.products.On("FindByID", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, Name: "Phone", Price: 100}, nil)
	tx.repos.products.On("FindByID", mock.Anything, int64(2)).
		Return(model.Product{ID: 2, Name: "Fan", Price: 30}, nil)
	tx.repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return len(o.Items) == 2
	})).Return(model.Order{ID: 101, Items: []model.OrderItem{{}, {}}}, nil)

	in := validOrderInput(
		itemFromJSON(t, `{"productId": 1, "quantity": 1}`),
		itemFromJSON(t, `{"product": {"id": 2}, "quantity": 3}`),
	)
	out, err := u.Create(ctx, 1, in)

	require.NoError(t, err)
	assert.Len(t, out.Items, len(in.Items))
}

func TestOrderUsecase_Create_EmptyItems(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	_, err := u.Create(context.Background(), 1, validOrderInput())
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Order must contain at least one item", he.Message)

	//何も保存されない
	tx.repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// IDが無くても名前の完全一致で解決できる。
func TestOrderUsecase_Create_ResolvesByName(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.products.On("FindByName", mock.Anything, "Cable").
		Return(model.Product{ID: 8, Name: "Cable", Price: 10}, nil)
	tx.repos.products.On("FindByID", mock.Anything, int64(8)).
		Return(model.Product{ID: 8, Name: "Cable", Price: 10}, nil)
	tx.repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return len(o.Items) == 1 && o.Items[0].ProductID == 8
	})).Return(model.Order{ID: 102}, nil)

	in := validOrderInput(itemFromJSON(t, `{"name": "Cable", "quantity": 1}`))
	_, err := u.Create(ctx, 1, in)

	require.NoError(t, err)
	tx.repos.orders.AssertExpectations(t)
}

func TestOrderUsecase_Create_MissingReference(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.products.On("FindByName", mock.Anything, "Ghost").
		Return(model.Product{}, repo.ErrNotFound)

	in := validOrderInput(itemFromJSON(t, `{"name": "Ghost", "quantity": 1}`))
	_, err := u.Create(context.Background(), 1, in)

	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Message, "Ghost")
	tx.repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Create_InvalidReferenceFormat(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	in := validOrderInput(itemFromJSON(t, `{"product": "not-a-number", "quantity": 1}`))
	_, err := u.Create(context.Background(), 1, in)

	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid product ID format", he.Message)
	assert.Contains(t, he.Err, `"not-a-number"`)
	tx.repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 1明細でも解決できなければ注文全体を保存しない。
func TestOrderUsecase_Create_ProductNotFound_NothingPersisted(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.products.On("FindByID", mock.Anything, int64(1)).
		Return(model.Product{ID: 1, Name: "Phone", Price: 100}, nil)
	tx.repos.products.On("FindByID", mock.Anything, int64(999)).
		Return(model.Product{}, repo.ErrNotFound)

	in := validOrderInput(
		itemFromJSON(t, `{"productId": 1, "quantity": 1}`),
		itemFromJSON(t, `{"productId": 999, "quantity": 1}`),
	)
	_, err := u.Create(context.Background(), 1, in)

	he := requireHTTPError(t, err, http.StatusBadRequest)
	//errorフィールドにIDと not found が含まれる
	assert.Contains(t, he.Err, "999")
	assert.Contains(t, he.Err, "not found")
	tx.repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Create_SchemaValidation(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.products.On("FindByID", mock.Anything, int64(3)).
		Return(model.Product{ID: 3, Name: "Cable", Price: 10}, nil)

	in := validOrderInput(itemFromJSON(t, `{"productId": 3, "quantity": 0}`))
	in.ShippingAddress = ""
	in.PaymentMethod = "barter"

	_, err := u.Create(context.Background(), 1, in)

	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid order data", he.Message)
	assert.Contains(t, he.Err, "shipping_address is required")
	assert.Contains(t, he.Err, "barter")
	assert.Contains(t, he.Err, "quantity must be >= 1")
	tx.repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 明細のname/price/imageが未指定ならカタログの値を引き継ぐ。
func TestOrderUsecase_Create_SnapshotFallback(t *testing.T) {
	ctx := context.Background()
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.products.On("FindByID", mock.Anything, int64(3)).
		Return(model.Product{ID: 3, Name: "Cable", Price: 12.5, Image: "cable.png"}, nil)
	tx.repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		it := o.Items[0]
		return it.Name == "Cable" && it.Price == 12.5 && it.Image == "cable.png"
	})).Return(model.Order{ID: 103}, nil)

	in := validOrderInput(itemFromJSON(t, `{"productId": 3, "quantity": 1}`))
	_, err := u.Create(ctx, 1, in)

	require.NoError(t, err)
	tx.repos.orders.AssertExpectations(t)
}

func TestOrderUsecase_Get_ForbiddenForOtherUser(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.orders.On("FindByID", mock.Anything, int64(9)).
		Return(model.Order{ID: 9, UserID: 2}, nil)

	out, err := u.Get(context.Background(), 1, "user", 9)

	he := requireHTTPError(t, err, http.StatusForbidden)
	assert.Equal(t, "Not authorized to view this order", he.Message)
	//注文データは漏れない
	assert.Equal(t, model.Order{}, out)
}

func TestOrderUsecase_Get_AdminCanSeeAny(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.orders.On("FindByID", mock.Anything, int64(9)).
		Return(model.Order{ID: 9, UserID: 2}, nil)

	out, err := u.Get(context.Background(), 1, "admin", 9)

	require.NoError(t, err)
	assert.Equal(t, int64(9), out.ID)
}

func TestOrderUsecase_Get_NotFound(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.orders.On("FindByID", mock.Anything, int64(9)).
		Return(model.Order{}, repo.ErrNotFound)

	_, err := u.Get(context.Background(), 1, "user", 9)
	requireHTTPError(t, err, http.StatusNotFound)
}

func TestOrderUsecase_List_AdminGetsAll(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.orders.On("ListAll", mock.Anything).
		Return([]model.Order{{ID: 1}, {ID: 2}}, nil)

	out, err := u.List(context.Background(), 1, "admin")
	require.NoError(t, err)
	assert.Len(t, out, 2)
	tx.repos.orders.AssertNotCalled(t, "ListByUserID", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Cancel_FromPending(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.orders.On("FindByID", mock.Anything, int64(9)).
		Return(model.Order{ID: 9, UserID: 1, Status: model.OrderStatusPending}, nil)
	tx.repos.orders.On("UpdateStatus", mock.Anything, int64(9), model.OrderStatusCancelled).
		Return(nil)
	tx.repos.audits.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionCancelOrder && l.ResourceID == 9
	})).Return(nil)

	out, err := u.Cancel(context.Background(), 1, "user", 9)

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, out.Status)
	tx.repos.audits.AssertExpectations(t)
}

// shipped / delivered からはキャンセルできない。
func TestOrderUsecase_Cancel_InvalidTransition(t *testing.T) {
	for _, status := range []model.OrderStatus{model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			tx := newFakeTx()
			u := usecase.NewOrderUsecase(tx, testLog)

			tx.repos.orders.On("FindByID", mock.Anything, int64(9)).
				Return(model.Order{ID: 9, UserID: 1, Status: status}, nil)

			_, err := u.Cancel(context.Background(), 1, "user", 9)

			he := requireHTTPError(t, err, http.StatusBadRequest)
			assert.Contains(t, he.Err, string(status))
			tx.repos.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOrderUsecase_Cancel_ForbiddenForOtherUser(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewOrderUsecase(tx, testLog)

	tx.repos.orders.On("FindByID", mock.Anything, int64(9)).
		Return(model.Order{ID: 9, UserID: 2, Status: model.OrderStatusPending}, nil)

	_, err := u.Cancel(context.Background(), 1, "user", 9)

	requireHTTPError(t, err, http.StatusForbidden)
	tx.repos.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
