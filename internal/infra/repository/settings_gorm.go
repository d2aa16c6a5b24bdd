package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"

	"gorm.io/gorm"
)

type SettingsGormRepository struct {
	db *gorm.DB
}

func NewSettingsGormRepository(db *gorm.DB) *SettingsGormRepository {
	return &SettingsGormRepository{db: db}
}

func (r *SettingsGormRepository) Get(ctx context.Context) (model.StoreSettings, error) {
	var s model.StoreSettings
	err := r.db.WithContext(ctx).Where("id = ?", 1).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		//初期値を作ってから返す
		s = model.DefaultStoreSettings()
		if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
			return model.StoreSettings{}, err
		}
		return s, nil
	}
	if err != nil {
		return model.StoreSettings{}, err
	}
	return s, nil
}

func (r *SettingsGormRepository) Update(ctx context.Context, s model.StoreSettings) (model.StoreSettings, error) {
	s.ID = 1
	err := r.db.WithContext(ctx).Model(&model.StoreSettings{}).
		Where("id = ?", 1).
		Updates(map[string]interface{}{
			"store_name":       s.StoreName,
			"support_email":    s.SupportEmail,
			"currency":         s.Currency,
			"tax_rate":         s.TaxRate,
			"shipping_fee":     s.ShippingFee,
			"maintenance_mode": s.MaintenanceMode,
		}).Error
	if err != nil {
		return model.StoreSettings{}, err
	}
	return r.Get(ctx)
}
