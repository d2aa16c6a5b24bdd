package usecase

import (
	"context"
	"net/http"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/rs/zerolog"
)

type SettingsUsecase struct {
	settings repo.SettingsRepository
	log      zerolog.Logger
}

func NewSettingsUsecase(settings repo.SettingsRepository, log zerolog.Logger) *SettingsUsecase {
	return &SettingsUsecase{settings: settings, log: log}
}

func (u *SettingsUsecase) Get(ctx context.Context) (model.StoreSettings, error) {
	s, err := u.settings.Get(ctx)
	if err != nil {
		u.log.Error().Err(err).Msg("settings fetch failed")
		return model.StoreSettings{}, NewHTTPError(http.StatusInternalServerError, "Server error while fetching settings")
	}
	return s, nil
}

type SettingsInput struct {
	StoreName       string  `json:"storeName"`
	SupportEmail    string  `json:"supportEmail"`
	Currency        string  `json:"currency"`
	TaxRate         float64 `json:"taxRate"`
	ShippingFee     float64 `json:"shippingFee"`
	MaintenanceMode bool    `json:"maintenanceMode"`
}

// Update はストア設定を丸ごと置き換える（管理者のみ）。
func (u *SettingsUsecase) Update(ctx context.Context, in SettingsInput) (model.StoreSettings, error) {
	name := strings.TrimSpace(in.StoreName)
	email := strings.TrimSpace(in.SupportEmail)
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))

	if name == "" {
		return model.StoreSettings{}, NewHTTPError(http.StatusBadRequest, "Store name is required")
	}
	if email != "" && !isEmailLike(email) {
		return model.StoreSettings{}, NewHTTPError(http.StatusBadRequest, "Invalid support email")
	}
	if currency == "" {
		return model.StoreSettings{}, NewHTTPError(http.StatusBadRequest, "Currency is required")
	}
	if in.TaxRate < 0 || in.TaxRate > 1 {
		return model.StoreSettings{}, NewHTTPError(http.StatusBadRequest, "Tax rate must be between 0 and 1")
	}
	if in.ShippingFee < 0 {
		return model.StoreSettings{}, NewHTTPError(http.StatusBadRequest, "Shipping fee must not be negative")
	}

	saved, err := u.settings.Update(ctx, model.StoreSettings{
		ID:              1,
		StoreName:       name,
		SupportEmail:    email,
		Currency:        currency,
		TaxRate:         in.TaxRate,
		ShippingFee:     in.ShippingFee,
		MaintenanceMode: in.MaintenanceMode,
	})
	if err != nil {
		u.log.Error().Err(err).Msg("settings update failed")
		return model.StoreSettings{}, NewHTTPError(http.StatusInternalServerError, "Server error while updating settings")
	}
	return saved, nil
}
