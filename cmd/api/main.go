package main

import (
	"os"
	"time"

	"shop/internal/config"
	"shop/internal/domain/model"
	"shop/internal/handler"
	"shop/internal/infra/db"
	infraRepo "shop/internal/infra/repository"
	"shop/internal/server"
	"shop/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは任意（本番は環境変数で渡す）
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if cfg.GoEnv == "prod" {
		//本番はJSONのまま出す
		log = zerolog.New(os.Stderr).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
		&model.WishlistItem{},
		&model.StoreSettings{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	_ = infraRepo.NewReviewGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	settingsRepo := infraRepo.NewSettingsGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	hasher := usecase.NewBcryptPasswordHasher(12)
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 24 * time.Hour,
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, hasher, issuer, log)
	productUC := usecase.NewProductUsecase(productRepo, log)
	orderUC := usecase.NewOrderUsecase(txManager, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, log)
	reviewUC := usecase.NewReviewUsecase(txManager, log)
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, productRepo, log)
	settingsUC := usecase.NewSettingsUsecase(settingsRepo, log)
	userAdminUC := usecase.NewUserAdminUsecase(userRepo, orderRepo, auditRepo, log)
	dashboardUC := usecase.NewDashboardUsecase(orderRepo, productRepo, userRepo, log)

	//Handler生成とルート登録
	e := server.New(cfg, log)
	server.RegisterRoutes(e, cfg, server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		Order:        handler.NewOrderHandler(orderUC),
		Review:       handler.NewReviewHandler(reviewUC),
		Wishlist:     handler.NewWishlistHandler(wishlistUC),
		Settings:     handler.NewSettingsHandler(settingsUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminUser:    handler.NewAdminUserHandler(userAdminUC),
		Dashboard:    handler.NewDashboardHandler(dashboardUC),
	})

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := server.Start(e, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
