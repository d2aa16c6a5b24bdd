package handler

import (
	"net/http"
	"strconv"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 注文の配送・支払いステータス更新（管理者のみ）。
// ルートは /orders 配下だが管理者ガード付き。
type AdminOrderHandler struct {
	adminUC *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(adminUC *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{adminUC: adminUC}
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.PUT("/:id/status", h.updateStatus)
	g.PUT("/:id/payment", h.updatePaymentStatus)
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errJSON("unauthorized"))
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errJSON("invalid id"))
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errJSON("invalid body"))
	}

	order, err := h.adminUC.UpdateStatus(c.Request().Context(), adminID, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OrderResponse{
		Success: true,
		Message: "Order status updated",
		Order:   order,
	})
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

func (h *AdminOrderHandler) updatePaymentStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errJSON("unauthorized"))
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errJSON("invalid id"))
	}

	var req updatePaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errJSON("invalid body"))
	}

	order, err := h.adminUC.UpdatePaymentStatus(c.Request().Context(), adminID, id, req.PaymentStatus)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, OrderResponse{
		Success: true,
		Message: "Payment status updated",
		Order:   order,
	})
}
