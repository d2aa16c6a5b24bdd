package usecase

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/rs/zerolog"
)

// PasswordHasher はパスワードのハッシュ化と照合の約束。
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) error
}

// TokenIssuer はアクセストークン発行の約束。実装はmain側（JWT）。
type TokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

type AuthUsecase struct {
	users  repo.UserRepository
	hasher PasswordHasher
	issuer TokenIssuer
	log    zerolog.Logger
}

func NewAuthUsecase(users repo.UserRepository, hasher PasswordHasher, issuer TokenIssuer, log zerolog.Logger) *AuthUsecase {
	return &AuthUsecase{users: users, hasher: hasher, issuer: issuer, log: log}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenOutput struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthOutput struct {
	User  model.User  `json:"user"`
	Token TokenOutput `json:"token"`
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func isEmailLike(s string) bool {
	return emailRe.MatchString(s)
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (AuthOutput, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	//必須チェック
	if username == "" || email == "" || in.Password == "" {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "username, email and password are required")
	}
	if !isEmailLike(email) {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	//パスワード最低文字数（MVP: 8）
	if len(in.Password) < 8 {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	//重複チェック
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "email already used")
	} else if !errors.Is(err, repo.ErrNotFound) {
		u.log.Error().Err(err).Msg("user lookup failed")
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "Server error while registering")
	}
	if _, err := u.users.FindByUsername(ctx, username); err == nil {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "username already used")
	} else if !errors.Is(err, repo.ErrNotFound) {
		u.log.Error().Err(err).Msg("user lookup failed")
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "Server error while registering")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		u.log.Error().Err(err).Msg("password hash failed")
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "Server error while registering")
	}

	now := time.Now()
	user, err := u.users.Create(ctx, model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		u.log.Error().Err(err).Msg("user create failed")
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "Server error while registering")
	}

	return u.issueFor(user)
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		//存在しない場合も同じメッセージ（ユーザー列挙を防ぐ）
		return AuthOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		u.log.Error().Err(err).Msg("user lookup failed")
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "Server error while logging in")
	}

	if err := u.hasher.Verify(user.PasswordHash, in.Password); err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	return u.issueFor(user)
}

func (u *AuthUsecase) issueFor(user model.User) (AuthOutput, error) {
	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, time.Now())
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", user.ID).Msg("token issue failed")
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "Server error while issuing token")
	}
	return AuthOutput{
		User:  user,
		Token: TokenOutput{AccessToken: token, ExpiresAt: expiresAt},
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("user fetch failed")
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "Server error while fetching user")
	}
	return user, nil
}

type ProfileInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
}

func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("user fetch failed")
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "Server error while updating profile")
	}

	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Phone = strings.TrimSpace(in.Phone)
	user.Address = strings.TrimSpace(in.Address)
	user.City = strings.TrimSpace(in.City)
	user.State = strings.TrimSpace(in.State)
	user.ZipCode = strings.TrimSpace(in.ZipCode)
	user.UpdatedAt = time.Now()

	if err := u.users.Update(ctx, user); err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("profile update failed")
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "Server error while updating profile")
	}
	return user, nil
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (u *AuthUsecase) ChangePassword(ctx context.Context, userID int64, in ChangePasswordInput) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return NewHTTPError(http.StatusBadRequest, "current and new password are required")
	}
	if len(in.NewPassword) < 8 {
		return NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("user fetch failed")
		return NewHTTPError(http.StatusInternalServerError, "Server error while changing password")
	}

	if err := u.hasher.Verify(user.PasswordHash, in.CurrentPassword); err != nil {
		return NewHTTPError(http.StatusBadRequest, "current password is incorrect")
	}

	hash, err := u.hasher.Hash(in.NewPassword)
	if err != nil {
		u.log.Error().Err(err).Msg("password hash failed")
		return NewHTTPError(http.StatusInternalServerError, "Server error while changing password")
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := u.users.Update(ctx, user); err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Msg("password update failed")
		return NewHTTPError(http.StatusInternalServerError, "Server error while changing password")
	}
	return nil
}
