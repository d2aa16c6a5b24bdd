package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// チェックアウトフォームの入力。
type CheckoutForm struct {
	ShippingAddress string `json:"shippingAddress"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	PaymentMethod   string `json:"paymentMethod"`
	Notes           string `json:"notes"`
}

type orderItemPayload struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	Image     string  `json:"image"`
}

type createOrderPayload struct {
	Items           []orderItemPayload `json:"items"`
	TotalPrice      float64            `json:"totalPrice"`
	ShippingAddress string             `json:"shippingAddress"`
	CustomerName    string             `json:"customerName"`
	CustomerEmail   string             `json:"customerEmail"`
	CustomerPhone   string             `json:"customerPhone"`
	PaymentMethod   string             `json:"paymentMethod"`
	Notes           string             `json:"notes"`
}

// サーバー採番の注文（必要なフィールドだけ受ける）。
type PlacedOrder struct {
	ID         int64   `json:"id"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
}

type orderResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Order   PlacedOrder `json:"order"`
}

// LocalOrder はサーバーに届かなかったときのモック注文。
// IDは "local-" プレフィックス付きでサーバー採番と区別できる。
type LocalOrder struct {
	ID              string     `json:"id"`
	Items           []CartItem `json:"items"`
	TotalPrice      float64    `json:"total_price"`
	ShippingAddress string     `json:"shipping_address"`
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email"`
	CustomerPhone   string     `json:"customer_phone"`
	PaymentMethod   string     `json:"payment_method"`
	Notes           string     `json:"notes"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

func IsLocalOrderID(id string) bool {
	return strings.HasPrefix(id, "local-")
}

// PlaceResult は注文送信の結果。
// Fallbackがtrueならサーバーには届いておらず、Causeに退避理由が入る。
type PlaceResult struct {
	OrderID  string
	Order    *PlacedOrder
	Local    *LocalOrder
	Fallback bool
	Cause    error
}

// OrderSubmitter はカートとフォームから注文を組み立てて送信する。
// サーバー障害時（ネットワーク断・タイムアウト・400/500）はモック注文を
// ローカルストアに保存してフローを完了させる。
type OrderSubmitter struct {
	api   *Client
	store *LocalOrderStore
	log   zerolog.Logger
}

func NewOrderSubmitter(api *Client, store *LocalOrderStore, log zerolog.Logger) *OrderSubmitter {
	return &OrderSubmitter{api: api, store: store, log: log}
}

// Place は注文を送信する。
//   - トークンが無ければErrAuthRequired（再ログインを促す）。
//   - 401もErrAuthRequired。
//   - 201なら成功。カートを空にしてサーバー採番の注文を返す。
//   - ネットワーク断・タイムアウト・400/500はモック注文に退避し、
//     UI上は成功扱い（Fallback=true、Causeに理由）。
func (s *OrderSubmitter) Place(ctx context.Context, cart *Cart, form CheckoutForm) (PlaceResult, error) {
	if !s.api.HasToken() {
		return PlaceResult{}, ErrAuthRequired
	}

	items := cart.Items()
	payload := createOrderPayload{
		Items:           make([]orderItemPayload, 0, len(items)),
		TotalPrice:      cart.TotalPrice(),
		ShippingAddress: form.ShippingAddress,
		CustomerName:    form.CustomerName,
		CustomerEmail:   form.CustomerEmail,
		CustomerPhone:   form.CustomerPhone,
		PaymentMethod:   form.PaymentMethod,
		Notes:           form.Notes,
	}
	for _, it := range items {
		payload.Items = append(payload.Items, orderItemPayload{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}

	var res orderResponse
	status, err := s.api.doJSON(ctx, http.MethodPost, "/orders", payload, &res)

	if err == nil && status == http.StatusCreated {
		cart.Clear()
		return PlaceResult{
			OrderID: fmt.Sprintf("%d", res.Order.ID),
			Order:   &res.Order,
		}, nil
	}

	if status == http.StatusUnauthorized {
		return PlaceResult{}, ErrAuthRequired
	}

	//ここから退避パス（ネットワーク断・タイムアウト・400/500）
	s.log.Warn().Err(err).Int("status", status).Msg("order submit failed, falling back to local order")

	local := LocalOrder{
		ID:              "local-" + uuid.NewString(),
		Items:           items,
		TotalPrice:      payload.TotalPrice,
		ShippingAddress: form.ShippingAddress,
		CustomerName:    form.CustomerName,
		CustomerEmail:   form.CustomerEmail,
		CustomerPhone:   form.CustomerPhone,
		PaymentMethod:   form.PaymentMethod,
		Notes:           form.Notes,
		Status:          "pending",
		CreatedAt:       time.Now(),
	}
	if saveErr := s.store.Save(local); saveErr != nil {
		//ローカル保存まで失敗したら退避できない
		s.log.Error().Err(saveErr).Msg("local order save failed")
		return PlaceResult{}, saveErr
	}

	cart.Clear()
	return PlaceResult{
		OrderID:  local.ID,
		Local:    &local,
		Fallback: true,
		Cause:    err,
	}, nil
}
