package repository

import (
	"context"

	"shop/internal/domain/model"
)

type WishlistRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error)

	//追加。既に同じ商品があれば何もしない。
	Add(ctx context.Context, userID int64, productID int64) error
	Remove(ctx context.Context, userID int64, productID int64) error
	Clear(ctx context.Context, userID int64) error
}
