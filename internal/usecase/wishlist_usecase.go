package usecase

import (
	"context"
	"errors"
	"net/http"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/rs/zerolog"
)

type WishlistUsecase struct {
	wishlistRepo repo.WishlistRepository
	productRepo  repo.ProductRepository
	log          zerolog.Logger
}

func NewWishlistUsecase(
	wishlistRepo repo.WishlistRepository,
	productRepo repo.ProductRepository,
	log zerolog.Logger,
) *WishlistUsecase {
	return &WishlistUsecase{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		log:          log,
	}
}

// WishlistEntry は商品情報を埋めたウィッシュリストの1行。
type WishlistEntry struct {
	ProductID int64         `json:"product_id"`
	Product   model.Product `json:"product"`
}

func (u *WishlistUsecase) Get(ctx context.Context, userID int64) ([]WishlistEntry, error) {
	if userID <= 0 {
		return []WishlistEntry{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.wishlistRepo.ListByUserID(ctx, userID)
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("wishlist fetch failed")
		return []WishlistEntry{}, NewHTTPError(http.StatusInternalServerError, "Server error while fetching wishlist")
	}

	out := make([]WishlistEntry, 0, len(items))
	for _, item := range items {
		p, err := u.productRepo.FindByID(ctx, item.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			//商品が消えていたら黙ってスキップ
			continue
		}
		if err != nil {
			u.log.Error().Err(err).Int64("product_id", item.ProductID).Msg("product fetch failed")
			return []WishlistEntry{}, NewHTTPError(http.StatusInternalServerError, "Server error while fetching wishlist")
		}
		out = append(out, WishlistEntry{ProductID: item.ProductID, Product: p})
	}
	return out, nil
}

func (u *WishlistUsecase) Add(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Product not found")
		}
		u.log.Error().Err(err).Int64("product_id", productID).Msg("product fetch failed")
		return NewHTTPError(http.StatusInternalServerError, "Server error while updating wishlist")
	}

	if err := u.wishlistRepo.Add(ctx, userID, productID); err != nil {
		u.log.Error().Err(err).Int64("product_id", productID).Msg("wishlist add failed")
		return NewHTTPError(http.StatusInternalServerError, "Server error while updating wishlist")
	}
	return nil
}

func (u *WishlistUsecase) Remove(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := u.wishlistRepo.Remove(ctx, userID, productID); err != nil {
		u.log.Error().Err(err).Int64("product_id", productID).Msg("wishlist remove failed")
		return NewHTTPError(http.StatusInternalServerError, "Server error while updating wishlist")
	}
	return nil
}

func (u *WishlistUsecase) Clear(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.wishlistRepo.Clear(ctx, userID); err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("wishlist clear failed")
		return NewHTTPError(http.StatusInternalServerError, "Server error while updating wishlist")
	}
	return nil
}
