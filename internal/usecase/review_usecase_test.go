package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReviewUsecase_Create_RefreshesProductRating(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewReviewUsecase(tx, testLog)

	tx.repos.products.On("FindByID", mock.Anything, int64(3)).
		Return(model.Product{ID: 3}, nil)
	tx.repos.reviews.On("Create", mock.Anything, mock.MatchedBy(func(r model.Review) bool {
		return r.UserID == 1 && r.ProductID == 3 && r.Rating == 4
	})).Return(model.Review{ID: 10, UserID: 1, ProductID: 3, Rating: 4}, nil)
	tx.repos.reviews.On("AggregateForProduct", mock.Anything, int64(3)).
		Return(4.5, int64(2), nil)
	tx.repos.products.On("SetRating", mock.Anything, int64(3), 4.5, int64(2)).
		Return(nil)

	out, err := u.Create(context.Background(), 1, usecase.CreateReviewInput{
		ProductID: 3,
		Rating:    4,
		Comment:   "good",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), out.ID)
	tx.repos.products.AssertExpectations(t)
}

func TestReviewUsecase_Create_DuplicateReview(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewReviewUsecase(tx, testLog)

	tx.repos.products.On("FindByID", mock.Anything, int64(3)).
		Return(model.Product{ID: 3}, nil)
	tx.repos.reviews.On("Create", mock.Anything, mock.Anything).
		Return(model.Review{}, errors.New("duplicate key value violates unique constraint"))

	_, err := u.Create(context.Background(), 1, usecase.CreateReviewInput{ProductID: 3, Rating: 5})

	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "You have already reviewed this product", he.Message)
}

func TestReviewUsecase_Create_RatingOutOfRange(t *testing.T) {
	u := usecase.NewReviewUsecase(newFakeTx(), testLog)

	for _, rating := range []int64{0, 6, -1} {
		_, err := u.Create(context.Background(), 1, usecase.CreateReviewInput{ProductID: 3, Rating: rating})
		requireHTTPError(t, err, http.StatusBadRequest)
	}
}

func TestReviewUsecase_Create_ProductMissing(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewReviewUsecase(tx, testLog)

	tx.repos.products.On("FindByID", mock.Anything, int64(3)).
		Return(model.Product{}, repo.ErrNotFound)

	_, err := u.Create(context.Background(), 1, usecase.CreateReviewInput{ProductID: 3, Rating: 5})
	requireHTTPError(t, err, http.StatusNotFound)
	tx.repos.reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewUsecase_Update_OwnerOnly(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewReviewUsecase(tx, testLog)

	tx.repos.reviews.On("FindByID", mock.Anything, int64(10)).
		Return(model.Review{ID: 10, UserID: 2, ProductID: 3, Rating: 4}, nil)

	rating := int64(5)
	_, err := u.Update(context.Background(), 1, 10, usecase.UpdateReviewInput{Rating: &rating})

	requireHTTPError(t, err, http.StatusForbidden)
	tx.repos.reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// 管理者は他人のレビューも削除できる。削除後に評価を再集計する。
func TestReviewUsecase_Delete_AdminCanDeleteAny(t *testing.T) {
	tx := newFakeTx()
	u := usecase.NewReviewUsecase(tx, testLog)

	tx.repos.reviews.On("FindByID", mock.Anything, int64(10)).
		Return(model.Review{ID: 10, UserID: 2, ProductID: 3}, nil)
	tx.repos.reviews.On("Delete", mock.Anything, int64(10)).Return(nil)
	tx.repos.reviews.On("AggregateForProduct", mock.Anything, int64(3)).
		Return(0.0, int64(0), nil)
	tx.repos.products.On("SetRating", mock.Anything, int64(3), 0.0, int64(0)).
		Return(nil)

	err := u.Delete(context.Background(), 99, "admin", 10)

	require.NoError(t, err)
	tx.repos.products.AssertExpectations(t)
}
