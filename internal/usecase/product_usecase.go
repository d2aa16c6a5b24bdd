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

type ProductUsecase struct {
	productRepo repo.ProductRepository
	log         zerolog.Logger
}

func NewProductUsecase(productRepo repo.ProductRepository, log zerolog.Logger) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo, log: log}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Category string
	Search   string
	Sort     string
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	if in.Category != "" && !model.ValidProductCategory(in.Category) {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if len(in.Search) > 100 {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "search too long")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc", "rating":
	default:
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Category: in.Category,
		Search:   strings.TrimSpace(in.Search),
		Sort:     in.Sort,
	})
	if err != nil {
		u.log.Error().Err(err).Msg("product list failed")
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "Server error while fetching products")
	}
	return items, nil
}

func (u *ProductUsecase) ListFeatured(ctx context.Context) ([]model.Product, error) {
	items, err := u.productRepo.ListFeatured(ctx)
	if err != nil {
		u.log.Error().Err(err).Msg("featured product list failed")
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "Server error while fetching products")
	}
	return items, nil
}

func (u *ProductUsecase) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	if !model.ValidProductCategory(category) {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	return u.List(ctx, ListProductsInput{Category: category})
}

func (u *ProductUsecase) Detail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		u.log.Error().Err(err).Int64("product_id", productID).Msg("product fetch failed")
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Server error while fetching product")
	}
	return p, nil
}

type AdminProductInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Stock       int64   `json:"stock"`
	Featured    bool    `json:"featured"`
}

func validateProductInput(in AdminProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if !model.ValidProductCategory(in.Category) {
		return NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if strings.TrimSpace(in.Description) == "" {
		return NewHTTPError(http.StatusBadRequest, "description required")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}

func (u *ProductUsecase) AdminCreate(ctx context.Context, adminUserID int64, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	now := time.Now()
	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Category:    model.ProductCategory(in.Category),
		Description: in.Description,
		Image:       in.Image,
		Stock:       in.Stock,
		Featured:    in.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		u.log.Error().Err(err).Msg("product create failed")
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Server error while creating product")
	}
	return p, nil
}

func (u *ProductUsecase) AdminUpdate(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Category:    model.ProductCategory(in.Category),
		Description: in.Description,
		Image:       in.Image,
		Stock:       in.Stock,
		Featured:    in.Featured,
		UpdatedAt:   time.Now(),
	})
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		u.log.Error().Err(err).Int64("product_id", productID).Msg("product update failed")
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Server error while updating product")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		u.log.Error().Err(err).Int64("product_id", productID).Msg("product fetch failed")
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Server error while updating product")
	}
	return p, nil
}

func (u *ProductUsecase) AdminDelete(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		u.log.Error().Err(err).Int64("product_id", productID).Msg("product delete failed")
		return NewHTTPError(http.StatusInternalServerError, "Server error while deleting product")
	}
	return nil
}
