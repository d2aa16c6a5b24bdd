package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/rs/zerolog"
)

// ReviewUsecase はレビューのCRUDと商品側の評価集計の書き戻し。
type ReviewUsecase struct {
	tx  repo.TransactionManager
	log zerolog.Logger
}

func NewReviewUsecase(tx repo.TransactionManager, log zerolog.Logger) *ReviewUsecase {
	return &ReviewUsecase{tx: tx, log: log}
}

type CreateReviewInput struct {
	ProductID int64  `json:"productId"`
	Rating    int64  `json:"rating"`
	Comment   string `json:"comment"`
}

type UpdateReviewInput struct {
	Rating  *int64  `json:"rating"`
	Comment *string `json:"comment"`
}

func (u *ReviewUsecase) Create(ctx context.Context, userID int64, in CreateReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	var created model.Review
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//商品の存在チェック
		if _, err := r.Products().FindByID(ctx, in.ProductID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "Product not found")
			}
			u.log.Error().Err(err).Int64("product_id", in.ProductID).Msg("product fetch failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while creating review")
		}

		now := time.Now()
		rv, err := r.Reviews().Create(ctx, model.Review{
			UserID:    userID,
			ProductID: in.ProductID,
			Rating:    in.Rating,
			Comment:   strings.TrimSpace(in.Comment),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			//unique制約（1ユーザー1商品1件）に当たった場合もここに来る
			return NewHTTPError(http.StatusBadRequest, "You have already reviewed this product")
		}

		if err := u.refreshProductRating(ctx, r, in.ProductID); err != nil {
			return err
		}

		created = rv
		return nil
	})
	if err != nil {
		return model.Review{}, err
	}
	return created, nil
}

func (u *ReviewUsecase) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	if productID <= 0 {
		return []model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var outs []model.Review
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		outs, err = r.Reviews().ListByProductID(ctx, productID)
		if err != nil {
			u.log.Error().Err(err).Int64("product_id", productID).Msg("review list failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while fetching reviews")
		}
		return nil
	})
	if err != nil {
		return []model.Review{}, err
	}
	return outs, nil
}

func (u *ReviewUsecase) ListByUser(ctx context.Context, userID int64) ([]model.Review, error) {
	if userID <= 0 {
		return []model.Review{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []model.Review
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		outs, err = r.Reviews().ListByUserID(ctx, userID)
		if err != nil {
			u.log.Error().Err(err).Int64("user_id", userID).Msg("review list failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while fetching reviews")
		}
		return nil
	})
	if err != nil {
		return []model.Review{}, err
	}
	return outs, nil
}

// Update は自分のレビューのみ更新できる。
func (u *ReviewUsecase) Update(ctx context.Context, userID int64, reviewID int64, in UpdateReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if reviewID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	var out model.Review
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rv, err := r.Reviews().FindByID(ctx, reviewID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Review not found")
		}
		if err != nil {
			u.log.Error().Err(err).Int64("review_id", reviewID).Msg("review fetch failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while updating review")
		}
		if rv.UserID != userID {
			return NewHTTPError(http.StatusForbidden, "Not authorized to update this review")
		}

		if in.Rating != nil {
			rv.Rating = *in.Rating
		}
		if in.Comment != nil {
			rv.Comment = strings.TrimSpace(*in.Comment)
		}
		rv.UpdatedAt = time.Now()

		if err := r.Reviews().Update(ctx, rv); err != nil {
			u.log.Error().Err(err).Int64("review_id", reviewID).Msg("review update failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while updating review")
		}

		if err := u.refreshProductRating(ctx, r, rv.ProductID); err != nil {
			return err
		}

		out = rv
		return nil
	})
	if err != nil {
		return model.Review{}, err
	}
	return out, nil
}

// Delete は自分のレビューか、管理者なら誰のでも削除できる。
func (u *ReviewUsecase) Delete(ctx context.Context, userID int64, role string, reviewID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if reviewID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rv, err := r.Reviews().FindByID(ctx, reviewID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Review not found")
		}
		if err != nil {
			u.log.Error().Err(err).Int64("review_id", reviewID).Msg("review fetch failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while deleting review")
		}
		if role != string(model.RoleAdmin) && rv.UserID != userID {
			return NewHTTPError(http.StatusForbidden, "Not authorized to delete this review")
		}

		if err := r.Reviews().Delete(ctx, reviewID); err != nil {
			u.log.Error().Err(err).Int64("review_id", reviewID).Msg("review delete failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while deleting review")
		}

		return u.refreshProductRating(ctx, r, rv.ProductID)
	})
}

// refreshProductRating は商品の平均評価とレビュー数を再集計して書き戻す。
func (u *ReviewUsecase) refreshProductRating(ctx context.Context, r repo.TxRepos, productID int64) error {
	avg, count, err := r.Reviews().AggregateForProduct(ctx, productID)
	if err != nil {
		u.log.Error().Err(err).Int64("product_id", productID).Msg("review aggregate failed")
		return NewHTTPError(http.StatusInternalServerError, "Server error while updating product rating")
	}
	if err := r.Products().SetRating(ctx, productID, avg, count); err != nil {
		u.log.Error().Err(err).Int64("product_id", productID).Msg("product rating update failed")
		return NewHTTPError(http.StatusInternalServerError, "Server error while updating product rating")
	}
	return nil
}
