package model

import "time"

// ストア設定。1行だけ持つ（ID=1）。
type StoreSettings struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	StoreName       string    `gorm:"type:varchar(255);not null" json:"store_name"`
	SupportEmail    string    `gorm:"type:varchar(255);not null" json:"support_email"`
	Currency        string    `gorm:"type:varchar(10);not null" json:"currency"`
	TaxRate         float64   `gorm:"not null" json:"tax_rate"` // 0.05 = 5%
	ShippingFee     float64   `gorm:"not null" json:"shipping_fee"`
	MaintenanceMode bool      `gorm:"not null;default:false" json:"maintenance_mode"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// DBに設定が無いときの初期値。
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		ID:           1,
		StoreName:    "Shop",
		SupportEmail: "support@example.com",
		Currency:     "USD",
		TaxRate:      0.05,
		ShippingFee:  0,
	}
}
