// @title AlumniHub Identity API
// @version 1.0
// @description Colleges, users, approval chain and sessions of the alumni platform.
// @host localhost:3000
// @BasePath /
// @schemes http
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <JWT>

package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirapurapushyam/AluminiHub-sub000/config"
	"github.com/sirapurapushyam/AluminiHub-sub000/infra/cache"
	"github.com/sirapurapushyam/AluminiHub-sub000/infra/database"
	"github.com/sirapurapushyam/AluminiHub-sub000/infra/queue"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/api/rest/handlers"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/api/rest/middleware"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/domain"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/dto"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/helper/utils"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/presence"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/repository"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/services"
	"github.com/sirapurapushyam/AluminiHub-sub000/pkg/cloudinary"
	"github.com/sirapurapushyam/AluminiHub-sub000/pkg/ids"
	"go.uber.org/zap"
)

func StartServer(cfg config.Config, log *zap.Logger) error {
	ctx := context.Background()

	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler,
		BodyLimit:    12 << 20,
	})
	RegisterSwagger(app)

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger(log), middleware.SecurityHeaders())

	// ---------- DB ----------
	db, err := database.Connect(ctx, cfg.DatabaseDSN, cfg.DBDebug)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	log.Info("database connected")

	if err := database.Migrate(db,
		&domain.College{},
		&domain.User{},
		&domain.PasswordReset{},
		&domain.AuditLog{},
	); err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	log.Info("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword)
	if kafkaProducer == nil {
		log.Warn("kafka not configured, notifications are disabled")
	} else {
		defer kafkaProducer.Close()
	}

	cld, err := cloudinary.New(cfg.CloudinaryUrl)
	if err != nil {
		return fmt.Errorf("cloudinary init: %w", err)
	}
	up := cloudinary.NewCloudinaryUploader(cld)

	node, err := ids.NewNode(cfg.SnowflakeNode)
	if err != nil {
		return fmt.Errorf("snowflake node: %w", err)
	}

	authHelper := helper.SetupAuth(cfg.JWTSecret, cfg.JWTExpire)

	// ---------- Repositories ----------
	collegeRepo := repository.NewCollegeRepository(db)
	userRepo := repository.NewUserRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// ---------- Services ----------
	notifier := services.NewNotifier(kafkaProducer, cfg.FrontendURL)
	auditor := services.NewAuditor(auditRepo, node)

	authSvc := services.NewAuthService(collegeRepo, userRepo, resetRepo, authHelper, notifier, cfg.ResetTokenTTL)
	collegeSvc := services.NewCollegeService(collegeRepo, userRepo, notifier, auditor, nil)
	userSvc := services.NewUserService(userRepo, authHelper, up, auditor)
	adminSvc := services.NewAdminService(userRepo, auditRepo, authHelper, auditor)

	if cfg.SuperAdminEmail != "" {
		err := adminSvc.EnsureSuperAdmin(ctx, dto.CreateSuperAdminRequest{
			FirstName: cfg.SuperAdminFirstName,
			LastName:  cfg.SuperAdminLastName,
			Email:     cfg.SuperAdminEmail,
			Password:  cfg.SuperAdminPassword,
		})
		if err != nil {
			return fmt.Errorf("seed super admin: %w", err)
		}
	}

	// ---------- Middleware ----------
	authMW := middleware.Authenticate(authSvc)
	rateLimit := authRateLimit(ctx, cfg, log)

	// ---------- Handlers ----------
	handlers.NewAuthHandler(authSvc, authMW, rateLimit).SetupRoutes(app)
	handlers.NewCollegeHandler(collegeSvc, authMW).SetupRoutes(app)
	handlers.NewAdminHandler(collegeSvc, adminSvc, authMW).SetupRoutes(app)
	handlers.NewUserHandler(userSvc, authMW).SetupRoutes(app)
	handlers.NewUploadHandler(userSvc, authMW).SetupRoutes(app)
	handlers.NewPresenceHandler(authSvc, presence.NewRegistry()).SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	log.Info("listening", zap.String("addr", cfg.ServerPort))
	return app.Listen(cfg.ServerPort)
}

// authRateLimit returns nil when redis is not configured or unreachable.
func authRateLimit(ctx context.Context, cfg config.Config, log *zap.Logger) fiber.Handler {
	if cfg.RedisAddr == "" || cfg.AuthRateLimit <= 0 {
		return nil
	}

	rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn("redis unavailable, auth rate limiting disabled", zap.Error(err))
		return nil
	}
	return middleware.RateLimit(cache.NewRateLimiter(rdb, "ratelimit:auth"), cfg.AuthRateLimit, time.Minute)
}
