package model

import "time"

// 配送ステータス
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 支払いステータス
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// 支払い方法
type PaymentMethod string

const (
	PaymentMethodCard           PaymentMethod = "card"
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
	PaymentMethodPaypal         PaymentMethod = "paypal"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
)

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

func ValidPaymentMethod(s string) bool {
	switch PaymentMethod(s) {
	case PaymentMethodCard, PaymentMethodCreditCard, PaymentMethodPaypal,
		PaymentMethodCashOnDelivery, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// キャンセルできるのは pending / processing のみ。
// shipped / delivered / cancelled からの遷移は拒否する。
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// 注文。明細はOrderItemに分離する。
// 顧客情報はフォーム入力をそのまま保持する（アカウント情報とは独立）。
type Order struct {
	ID              int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64         `gorm:"not null;index" json:"user_id"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID" json:"items"`
	TotalPrice      float64       `gorm:"not null" json:"total_price"`
	ShippingAddress string        `gorm:"type:text;not null" json:"shipping_address"`
	CustomerName    string        `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail   string        `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerPhone   string        `gorm:"type:varchar(50);not null" json:"customer_phone"`
	PaymentMethod   PaymentMethod `gorm:"type:varchar(30);not null" json:"payment_method"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	Status          OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	Notes           string        `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
