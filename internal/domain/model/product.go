package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryPhones      ProductCategory = "phones"
	CategoryLaptops     ProductCategory = "laptops"
	CategoryFans        ProductCategory = "fans"
	CategoryHeadphones  ProductCategory = "headphones"
	CategoryChargers    ProductCategory = "chargers"
	CategoryPowerbanks  ProductCategory = "powerbanks"
	CategoryAccessories ProductCategory = "accessories"
)

func ValidProductCategory(s string) bool {
	switch ProductCategory(s) {
	case CategoryPhones, CategoryLaptops, CategoryFans, CategoryHeadphones,
		CategoryChargers, CategoryPowerbanks, CategoryAccessories:
		return true
	}
	return false
}

// 商品。Rating / NumReviews はレビュー書き込み時に再集計する非正規化値。
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Price       float64         `gorm:"not null" json:"price"`
	Category    ProductCategory `gorm:"type:varchar(50);not null;index" json:"category"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Image       string          `gorm:"type:text;not null" json:"image"`
	Stock       int64           `gorm:"not null;default:0" json:"stock"`
	Featured    bool            `gorm:"not null;default:false" json:"featured"`
	Rating      float64         `gorm:"not null;default:0" json:"rating"`
	NumReviews  int64           `gorm:"not null;default:0" json:"num_reviews"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
