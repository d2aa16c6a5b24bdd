package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
)

// 日次売上（ダッシュボードのレポート用）。
type DailySales struct {
	Day     time.Time `json:"day"`
	Orders  int64     `json:"orders"`
	Revenue float64   `json:"revenue"`
}

// 注文の永続化（保存・取得）だけを約束。
// 明細は注文と一緒に保存・取得する（Createは items 込みで1トランザクション）。
type OrderRepository interface {
	//注文を明細ごと保存し、採番後の注文を返す。
	Create(ctx context.Context, order model.Order) (model.Order, error)

	//IDから注文を1件取得する（明細込み）。
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//ユーザーの注文一覧（新しい順、明細込み）。
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)

	//全注文一覧（管理者用、新しい順、明細込み）。
	ListAll(ctx context.Context) ([]model.Order, error)

	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error

	//ダッシュボード用の集計。
	Count(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	ListRecent(ctx context.Context, limit int) ([]model.Order, error)
	SalesBetween(ctx context.Context, from time.Time, to time.Time) ([]DailySales, error)
}
