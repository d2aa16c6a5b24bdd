package repository

import (
	"context"

	"shop/internal/domain/model"
)

type SettingsRepository interface {
	//設定を取得する。行が無ければ初期値を作って返す。
	Get(ctx context.Context) (model.StoreSettings, error)
	Update(ctx context.Context, s model.StoreSettings) (model.StoreSettings, error)
}
