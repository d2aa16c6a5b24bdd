package usecase

import (
	"context"
	"net/http"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/rs/zerolog"
)

// 管理ダッシュボードの集計。
type DashboardUsecase struct {
	orders   repo.OrderRepository
	products repo.ProductRepository
	users    repo.UserRepository
	log      zerolog.Logger
}

func NewDashboardUsecase(orders repo.OrderRepository, products repo.ProductRepository, users repo.UserRepository, log zerolog.Logger) *DashboardUsecase {
	return &DashboardUsecase{orders: orders, products: products, users: users, log: log}
}

const (
	recentOrdersLimit = 5
	lowStockThreshold = 5
	lowStockLimit     = 10
)

type DashboardStats struct {
	TotalRevenue  float64         `json:"total_revenue"`
	TotalOrders   int64           `json:"total_orders"`
	TotalProducts int64           `json:"total_products"`
	TotalUsers    int64           `json:"total_users"`
	NewUsers7d    int64           `json:"new_users_7d"`
	RecentOrders  []model.Order   `json:"recent_orders"`
	LowStock      []model.Product `json:"low_stock"`
}

func (u *DashboardUsecase) Stats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.TotalRevenue, err = u.orders.TotalRevenue(ctx); err != nil {
		return DashboardStats{}, u.fail(err, "revenue aggregate failed")
	}
	if stats.TotalOrders, err = u.orders.Count(ctx); err != nil {
		return DashboardStats{}, u.fail(err, "order count failed")
	}
	if stats.TotalProducts, err = u.products.Count(ctx); err != nil {
		return DashboardStats{}, u.fail(err, "product count failed")
	}
	if stats.TotalUsers, err = u.users.Count(ctx); err != nil {
		return DashboardStats{}, u.fail(err, "user count failed")
	}
	if stats.NewUsers7d, err = u.users.CountCreatedSince(ctx, time.Now().AddDate(0, 0, -7)); err != nil {
		return DashboardStats{}, u.fail(err, "new user count failed")
	}
	if stats.RecentOrders, err = u.orders.ListRecent(ctx, recentOrdersLimit); err != nil {
		return DashboardStats{}, u.fail(err, "recent order list failed")
	}
	if stats.LowStock, err = u.products.ListLowStock(ctx, lowStockThreshold, lowStockLimit); err != nil {
		return DashboardStats{}, u.fail(err, "low stock list failed")
	}

	return stats, nil
}

type SalesReport struct {
	From  time.Time         `json:"from"`
	To    time.Time         `json:"to"`
	Daily []repo.DailySales `json:"daily"`
}

// Sales は期間指定の日次売上レポート。期間省略時は直近30日。
func (u *DashboardUsecase) Sales(ctx context.Context, fromStr string, toStr string) (SalesReport, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return SalesReport{}, NewHTTPError(http.StatusBadRequest, "Invalid from date")
		}
		from = t
	}
	if toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return SalesReport{}, NewHTTPError(http.StatusBadRequest, "Invalid to date")
		}
		//終了日は丸一日含める
		to = t.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return SalesReport{}, NewHTTPError(http.StatusBadRequest, "Invalid date range")
	}

	daily, err := u.orders.SalesBetween(ctx, from, to)
	if err != nil {
		return SalesReport{}, u.failReport(err, "sales aggregate failed")
	}
	return SalesReport{From: from, To: to, Daily: daily}, nil
}

func (u *DashboardUsecase) fail(err error, msg string) error {
	u.log.Error().Err(err).Msg(msg)
	return NewHTTPError(http.StatusInternalServerError, "Server error while building dashboard")
}

func (u *DashboardUsecase) failReport(err error, msg string) error {
	u.log.Error().Err(err).Msg(msg)
	return NewHTTPError(http.StatusInternalServerError, "Server error while building report")
}
