package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/novatube/user-service/config"
	"github.com/novatube/user-service/infra/queue"
	"github.com/novatube/user-service/internal/api/rest/handlers"
	"github.com/novatube/user-service/internal/api/rest/middleware"
	"github.com/novatube/user-service/internal/domain"
	"github.com/novatube/user-service/internal/helper"
	"github.com/novatube/user-service/internal/repository"
	"github.com/novatube/user-service/internal/services"
	cldpkg "github.com/novatube/user-service/pkg/cloudinary"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CorsOrigin,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260830

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.WatchHistoryEntry{},
		&domain.Subscription{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic)

	cld, err := cldpkg.New()
	if err != nil {
		log.Fatalf("cloudinary init error: %v", err)
	}
	media := cldpkg.NewMediaStore(cld, "novatube/users")

	authHelper := helper.SetupAuth(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	subsRepo := repository.NewSubscriptionRepository(db)

	// ---------- Service ----------
	userSvc := services.NewUserService(
		userRepo,
		subsRepo,
		media,
		kafkaProducer,
		authHelper,
	)

	// ---------- Handler ----------
	userHandler := handlers.NewUserHandler(userSvc, cfg)
	userHandler.SetupRoutes(app, middleware.AuthMiddleware(authHelper, userRepo))

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}
