package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/rs/zerolog"
)

type OrderUsecase struct {
	tx  repo.TransactionManager
	log zerolog.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, log zerolog.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, log: log}
}

// OrderItemInput は注文明細の生入力。
// 商品参照はクライアントごとに形が揺れるので ProductRef で受ける。
// name/price/image は省略時にカタログ側の値を使う。
type OrderItemInput struct {
	Product   ProductRef `json:"product"`
	ProductID ProductRef `json:"productId"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Quantity  int64      `json:"quantity"`
	Image     string     `json:"image"`
}

// CreateOrderInput は POST /orders のリクエストボディ。
type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items"`
	TotalPrice      float64          `json:"totalPrice"`
	ShippingAddress string           `json:"shippingAddress"`
	CustomerName    string           `json:"customerName"`
	CustomerEmail   string           `json:"customerEmail"`
	CustomerPhone   string           `json:"customerPhone"`
	PaymentMethod   string           `json:"paymentMethod"`
	Notes           string           `json:"notes"`
}

// Create は注文を検証・正規化して保存する。
// 明細が1件でも解決に失敗したら何も保存しない（解決と保存は同一トランザクション）。
func (u *OrderUsecase) Create(ctx context.Context, userID int64, in CreateOrderInput) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if len(in.Items) == 0 {
		return model.Order{}, NewHTTPErrorDetail(
			http.StatusBadRequest,
			"Order must contain at least one item",
			"order validation failed: items: order must contain at least one item",
		)
	}

	var created model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//明細の解決。1件でも失敗したらロールバック
		items := make([]model.OrderItem, 0, len(in.Items))
		for _, raw := range in.Items {
			item, err := u.resolveItem(ctx, r.Products(), raw)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		now := time.Now()
		order := model.Order{
			UserID:          userID,
			Items:           items,
			TotalPrice:      in.TotalPrice,
			ShippingAddress: strings.TrimSpace(in.ShippingAddress),
			CustomerName:    strings.TrimSpace(in.CustomerName),
			CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
			CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
			PaymentMethod:   model.PaymentMethod(in.PaymentMethod),
			PaymentStatus:   model.PaymentStatusPending,
			Status:          model.OrderStatusPending,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		//スキーマ相当の必須チェック（保存直前）
		if err := validateOrderSchema(order); err != nil {
			return err
		}

		saved, err := r.Orders().Create(ctx, order)
		if err != nil {
			u.log.Error().Err(err).Int64("user_id", userID).Msg("order create failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while creating order")
		}

		created = saved
		return nil
	})

	if err != nil {
		return model.Order{}, err
	}
	return created, nil
}

// resolveItem は1明細の商品参照を正規化して解決する。
// 優先順: product直値 → product.id → product._id → productId → name完全一致。
func (u *OrderUsecase) resolveItem(ctx context.Context, products repo.ProductRepository, in OrderItemInput) (model.OrderItem, error) {
	raw, ok := in.Product.Value()
	if !ok {
		raw, ok = in.ProductID.Value()
	}

	//IDが無ければ名前で引く。見つからなくてもここでは失敗にしない
	if !ok && strings.TrimSpace(in.Name) != "" {
		p, err := products.FindByName(ctx, strings.TrimSpace(in.Name))
		switch {
		case err == nil:
			raw = strconv.FormatInt(p.ID, 10)
			ok = true
		case errors.Is(err, repo.ErrNotFound):
			//次のチェックでValidationFailureになる
		default:
			u.log.Error().Err(err).Str("name", in.Name).Msg("product lookup by name failed")
		}
	}

	if !ok {
		label := strings.TrimSpace(in.Name)
		if label == "" {
			label = "Unknown item"
		}
		return model.OrderItem{}, NewHTTPErrorDetail(
			http.StatusBadRequest,
			fmt.Sprintf("Product ID not found for item: %s", label),
			"order validation failed: items.product: product reference is required",
		)
	}

	//ID形式チェック
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return model.OrderItem{}, NewHTTPErrorDetail(
			http.StatusBadRequest,
			"Invalid product ID format",
			fmt.Sprintf("order validation failed: items.product: %q is not a valid product id", raw),
		)
	}

	//存在チェック
	p, err := products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.OrderItem{}, NewHTTPErrorDetail(
			http.StatusBadRequest,
			fmt.Sprintf("Product with ID %d not found", id),
			fmt.Sprintf("order validation failed: product %d not found", id),
		)
	}
	if err != nil {
		u.log.Error().Err(err).Int64("product_id", id).Msg("product lookup failed")
		return model.OrderItem{}, NewHTTPError(http.StatusInternalServerError, "Server error while creating order")
	}

	//未指定ならカタログのスナップショットを使う
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = p.Name
	}
	price := in.Price
	if price == 0 {
		price = p.Price
	}
	image := in.Image
	if image == "" {
		image = p.Image
	}

	return model.OrderItem{
		ProductID: id,
		Name:      name,
		Price:     price,
		Quantity:  in.Quantity,
		Image:     image,
	}, nil
}

// validateOrderSchema は保存レイヤのスキーマ制約を保存前に検査する。
// 引っかかったら400で、errorフィールドに制約違反の内訳を載せる。
func validateOrderSchema(o model.Order) error {
	var problems []string

	if o.TotalPrice <= 0 {
		problems = append(problems, "total_price is required")
	}
	if o.ShippingAddress == "" {
		problems = append(problems, "shipping_address is required")
	}
	if o.CustomerName == "" {
		problems = append(problems, "customer_name is required")
	}
	if o.CustomerEmail == "" {
		problems = append(problems, "customer_email is required")
	}
	if o.CustomerPhone == "" {
		problems = append(problems, "customer_phone is required")
	}
	if !model.ValidPaymentMethod(string(o.PaymentMethod)) {
		problems = append(problems, fmt.Sprintf("payment_method %q is not a valid payment method", string(o.PaymentMethod)))
	}
	for i, item := range o.Items {
		if item.Quantity < 1 {
			problems = append(problems, fmt.Sprintf("items.%d.quantity must be >= 1", i))
		}
	}

	if len(problems) > 0 {
		return NewHTTPErrorDetail(
			http.StatusBadRequest,
			"Invalid order data",
			"order validation failed: "+strings.Join(problems, "; "),
		)
	}
	return nil
}

// List は自分の注文一覧。adminは全件。
func (u *OrderUsecase) List(ctx context.Context, userID int64, role string) ([]model.Order, error) {
	if userID <= 0 {
		return []model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		if role == string(model.RoleAdmin) {
			outs, err = r.Orders().ListAll(ctx)
		} else {
			outs, err = r.Orders().ListByUserID(ctx, userID)
		}
		if err != nil {
			u.log.Error().Err(err).Msg("order list failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while fetching orders")
		}
		return nil
	})
	if err != nil {
		return []model.Order{}, err
	}
	return outs, nil
}

// Get は注文1件。所有者か管理者だけが見られる。
func (u *OrderUsecase) Get(ctx context.Context, userID int64, role string, orderID int64) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			u.log.Error().Err(err).Int64("order_id", orderID).Msg("order fetch failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while fetching order")
		}

		//他人の注文は閲覧禁止（レスポンスに注文データは載せない）
		if role != string(model.RoleAdmin) && o.UserID != userID {
			return NewHTTPError(http.StatusForbidden, "Not authorized to view this order")
		}

		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}

// Cancel は注文キャンセル。所有者か管理者だけ。
// pending / processing 以外からは遷移できない。
func (u *OrderUsecase) Cancel(ctx context.Context, userID int64, role string, orderID int64) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			u.log.Error().Err(err).Int64("order_id", orderID).Msg("order fetch failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while cancelling order")
		}

		if role != string(model.RoleAdmin) && o.UserID != userID {
			return NewHTTPError(http.StatusForbidden, "Not authorized to cancel this order")
		}

		if !o.Status.CanCancel() {
			return NewHTTPErrorDetail(
				http.StatusBadRequest,
				"Cannot cancel order. Order is already shipped or delivered.",
				fmt.Sprintf("order status transition rejected: cancel from %s", o.Status),
			)
		}

		before := o.Status
		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
			u.log.Error().Err(err).Int64("order_id", orderID).Msg("order cancel failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while cancelling order")
		}

		//監査ログ
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  userID,
			Action:       model.AuditActionCancelOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   fmt.Sprintf(`{"status":%q}`, before),
			AfterJSON:    fmt.Sprintf(`{"status":%q}`, model.OrderStatusCancelled),
			CreatedAt:    time.Now(),
		}); err != nil {
			u.log.Error().Err(err).Int64("order_id", orderID).Msg("audit log write failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while cancelling order")
		}

		o.Status = model.OrderStatusCancelled
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}
