package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user model.User) (model.User, error)
	//IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (model.User, error)
	//メールからユーザーを1件取得する。
	FindByEmail(ctx context.Context, email string) (model.User, error)
	//ユーザー名からユーザーを1件取得する。
	FindByUsername(ctx context.Context, username string) (model.User, error)

	//プロフィール・パスワード・ロールの更新。
	Update(ctx context.Context, user model.User) error
	UpdateRole(ctx context.Context, userID int64, role model.Role) error
	Delete(ctx context.Context, userID int64) error

	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
