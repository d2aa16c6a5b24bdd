package model

import "time"

// 注文明細
// 名前・価格・画像は購入時点のスナップショット（商品が後で変わっても追従しない）。
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     float64   `gorm:"not null" json:"price"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Image     string    `gorm:"type:text" json:"image"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
