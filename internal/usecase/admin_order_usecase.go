package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/rs/zerolog"
)

// AdminOrderUsecase は管理者による注文ステータス操作。
type AdminOrderUsecase struct {
	tx  repo.TransactionManager
	log zerolog.Logger
}

func NewAdminOrderUsecase(tx repo.TransactionManager, log zerolog.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, log: log}
}

// UpdateStatus は配送ステータスを直接設定する。
// 前方向の順序は強制しないが、cancelledへの遷移だけは
// pending / processing からに限る（キャンセルの前提条件）。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminID int64, orderID int64, status string) (model.Order, error) {
	if actorAdminID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := strings.TrimSpace(status)
	if newStatus == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "Status is required")
	}
	if !model.ValidOrderStatus(newStatus) {
		return model.Order{}, NewHTTPErrorDetail(
			http.StatusBadRequest,
			"Invalid order status",
			fmt.Sprintf("order validation failed: status: %q is not a valid status", newStatus),
		)
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			u.log.Error().Err(err).Int64("order_id", orderID).Msg("order fetch failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while updating order status")
		}

		//キャンセルだけは前提条件を確認する
		if model.OrderStatus(newStatus) == model.OrderStatusCancelled && !o.Status.CanCancel() {
			return NewHTTPErrorDetail(
				http.StatusBadRequest,
				"Cannot cancel order. Order is already shipped or delivered.",
				fmt.Sprintf("order status transition rejected: cancel from %s", o.Status),
			)
		}

		before := o.Status
		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatus(newStatus)); err != nil {
			u.log.Error().Err(err).Int64("order_id", orderID).Msg("order status update failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while updating order status")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   fmt.Sprintf(`{"status":%q}`, before),
			AfterJSON:    fmt.Sprintf(`{"status":%q}`, newStatus),
			CreatedAt:    time.Now(),
		}); err != nil {
			u.log.Error().Err(err).Int64("order_id", orderID).Msg("audit log write failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while updating order status")
		}

		o.Status = model.OrderStatus(newStatus)
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}

// UpdatePaymentStatus は支払いステータスを設定する。順序制約なし。
func (u *AdminOrderUsecase) UpdatePaymentStatus(ctx context.Context, actorAdminID int64, orderID int64, status string) (model.Order, error) {
	if actorAdminID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := strings.TrimSpace(status)
	if newStatus == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "Payment status is required")
	}
	if !model.ValidPaymentStatus(newStatus) {
		return model.Order{}, NewHTTPErrorDetail(
			http.StatusBadRequest,
			"Invalid payment status",
			fmt.Sprintf("order validation failed: payment_status: %q is not a valid payment status", newStatus),
		)
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			u.log.Error().Err(err).Int64("order_id", orderID).Msg("order fetch failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while updating payment status")
		}

		before := o.PaymentStatus
		if err := r.Orders().UpdatePaymentStatus(ctx, orderID, model.PaymentStatus(newStatus)); err != nil {
			u.log.Error().Err(err).Int64("order_id", orderID).Msg("payment status update failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while updating payment status")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminID,
			Action:       model.AuditActionUpdatePaymentStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   fmt.Sprintf(`{"payment_status":%q}`, before),
			AfterJSON:    fmt.Sprintf(`{"payment_status":%q}`, newStatus),
			CreatedAt:    time.Now(),
		}); err != nil {
			u.log.Error().Err(err).Int64("order_id", orderID).Msg("audit log write failed")
			return NewHTTPError(http.StatusInternalServerError, "Server error while updating payment status")
		}

		o.PaymentStatus = model.PaymentStatus(newStatus)
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}
