package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/rs/zerolog"
)

// 管理者向けユーザー管理。
type UserAdminUsecase struct {
	users  repo.UserRepository
	orders repo.OrderRepository
	audits repo.AuditLogRepository
	log    zerolog.Logger
}

func NewUserAdminUsecase(users repo.UserRepository, orders repo.OrderRepository, audits repo.AuditLogRepository, log zerolog.Logger) *UserAdminUsecase {
	return &UserAdminUsecase{users: users, orders: orders, audits: audits, log: log}
}

func (u *UserAdminUsecase) List(ctx context.Context) ([]model.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		u.log.Error().Err(err).Msg("user list failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "Server error while fetching users")
	}
	return users, nil
}

func (u *UserAdminUsecase) Get(ctx context.Context, id int64) (model.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", id).Msg("user fetch failed")
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "Server error while fetching user")
	}
	return user, nil
}

// UpdateRole はユーザーの権限を変更する。自分自身の降格は拒否。
func (u *UserAdminUsecase) UpdateRole(ctx context.Context, actorID int64, targetID int64, role string) (model.User, error) {
	if role == "" {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "Role is required")
	}
	newRole := model.Role(role)
	if !model.ValidRole(string(newRole)) {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "Invalid role")
	}
	if actorID == targetID && newRole != model.RoleAdmin {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "Cannot demote yourself")
	}

	user, err := u.users.FindByID(ctx, targetID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", targetID).Msg("user fetch failed")
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "Server error while updating role")
	}

	oldRole := user.Role
	if err := u.users.UpdateRole(ctx, targetID, newRole); err != nil {
		u.log.Error().Err(err).Int64("user_id", targetID).Msg("role update failed")
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "Server error while updating role")
	}
	user.Role = newRole
	user.UpdatedAt = time.Now()

	//監査ログは失敗しても本処理を巻き戻さない
	if err := u.audits.Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       model.AuditActionUpdateUserRole,
		ResourceType: model.AuditResourceUser,
		ResourceID:   targetID,
		BeforeJSON:   fmt.Sprintf(`{"role":%q}`, oldRole),
		AfterJSON:    fmt.Sprintf(`{"role":%q}`, newRole),
		CreatedAt:    time.Now(),
	}); err != nil {
		u.log.Error().Err(err).Int64("user_id", targetID).Msg("audit log write failed")
	}

	return user, nil
}

// Delete はユーザーを削除する。自分自身は削除不可。
func (u *UserAdminUsecase) Delete(ctx context.Context, actorID int64, targetID int64) error {
	if actorID == targetID {
		return NewHTTPError(http.StatusBadRequest, "Cannot delete yourself")
	}

	if _, err := u.users.FindByID(ctx, targetID); errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "User not found")
	} else if err != nil {
		u.log.Error().Err(err).Int64("user_id", targetID).Msg("user fetch failed")
		return NewHTTPError(http.StatusInternalServerError, "Server error while deleting user")
	}

	if err := u.users.Delete(ctx, targetID); err != nil {
		u.log.Error().Err(err).Int64("user_id", targetID).Msg("user delete failed")
		return NewHTTPError(http.StatusInternalServerError, "Server error while deleting user")
	}
	return nil
}

type UserStats struct {
	TotalUsers  int64 `json:"total_users"`
	AdminUsers  int64 `json:"admin_users"`
	NewUsers30d int64 `json:"new_users_30d"`
}

// Stats はユーザー管理画面のサマリ。
func (u *UserAdminUsecase) Stats(ctx context.Context) (UserStats, error) {
	var stats UserStats
	var err error

	if stats.TotalUsers, err = u.users.Count(ctx); err != nil {
		u.log.Error().Err(err).Msg("user count failed")
		return UserStats{}, NewHTTPError(http.StatusInternalServerError, "Server error while fetching user stats")
	}
	if stats.AdminUsers, err = u.users.CountByRole(ctx, model.RoleAdmin); err != nil {
		u.log.Error().Err(err).Msg("admin count failed")
		return UserStats{}, NewHTTPError(http.StatusInternalServerError, "Server error while fetching user stats")
	}
	if stats.NewUsers30d, err = u.users.CountCreatedSince(ctx, time.Now().AddDate(0, 0, -30)); err != nil {
		u.log.Error().Err(err).Msg("new user count failed")
		return UserStats{}, NewHTTPError(http.StatusInternalServerError, "Server error while fetching user stats")
	}
	return stats, nil
}

// OrdersOfUser は指定ユーザーの注文一覧（管理者画面用）。
func (u *UserAdminUsecase) OrdersOfUser(ctx context.Context, targetID int64) ([]model.Order, error) {
	if _, err := u.users.FindByID(ctx, targetID); errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "User not found")
	} else if err != nil {
		u.log.Error().Err(err).Int64("user_id", targetID).Msg("user fetch failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "Server error while fetching orders")
	}

	orders, err := u.orders.ListByUserID(ctx, targetID)
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", targetID).Msg("order list failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "Server error while fetching orders")
	}
	return orders, nil
}
