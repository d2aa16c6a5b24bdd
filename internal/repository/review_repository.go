package repository

import (
	"context"

	"shop/internal/domain/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, review model.Review) (model.Review, error)
	FindByID(ctx context.Context, reviewID int64) (model.Review, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Review, error)
	Update(ctx context.Context, review model.Review) error
	Delete(ctx context.Context, reviewID int64) error

	//商品の平均評価と件数を集計する（商品側への書き戻しに使う）。
	AggregateForProduct(ctx context.Context, productID int64) (avg float64, count int64, err error)
}
