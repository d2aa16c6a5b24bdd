package repository

import (
	"context"

	"shop/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	Category string
	Search   string
	Sort     string // "" / "new" / "price_asc" / "price_desc" / "rating"
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	ListFeatured(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	//名前の完全一致で1件取得する（注文明細の名前フォールバック解決用）。
	FindByName(ctx context.Context, name string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	//レビュー集計の書き戻し。
	SetRating(ctx context.Context, id int64, rating float64, numReviews int64) error

	//ダッシュボード用の集計。
	Count(ctx context.Context) (int64, error)
	ListLowStock(ctx context.Context, threshold int64, limit int) ([]model.Product, error)
}
