package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/referral_rewards/configs"
	"github.com/anjiri1684/referral_rewards/database"
	"github.com/anjiri1684/referral_rewards/handlers"
	"github.com/anjiri1684/referral_rewards/jobs"
	"github.com/anjiri1684/referral_rewards/logging"
	"github.com/anjiri1684/referral_rewards/metrics"
	"github.com/anjiri1684/referral_rewards/middleware"
	"github.com/anjiri1684/referral_rewards/notifications"
	"github.com/anjiri1684/referral_rewards/repositories"
	"github.com/anjiri1684/referral_rewards/routes"
	"github.com/anjiri1684/referral_rewards/services"
	"github.com/anjiri1684/referral_rewards/websocket"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logging.InitLogger(cfg.IsProduction()); err != nil {
		log.Fatalf("failed to initialise logger: %v", err)
	}
	defer logging.Sync()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
		}); err != nil {
			logging.Logger.Warn("Sentry initialisation failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		logging.Logger.Fatal("🔥 Database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logging.Logger.Fatal("🔥 Database migration failed", zap.Error(err))
	}
	if err := database.SeedAdmin(db, database.AdminSeed{
		FullName: cfg.AdminFullName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		logging.Logger.Fatal("🔥 Admin seed failed", zap.Error(err))
	}
	if cfg.SeedCatalog {
		if err := database.SeedCatalog(db, time.Now()); err != nil {
			logging.Logger.Fatal("🔥 Catalog seed failed", zap.Error(err))
		}
	}

	courseRepo := repositories.NewCourseRepository(db)
	referralRepo := repositories.NewReferralRepository(db)
	tierRepo := repositories.NewRewardTierRepository(db)
	userRepo := repositories.NewUserRepository(db)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	mailer := notifications.NewMailer(cfg.BrevoAPIKey, cfg.EmailSender, cfg.EmailSenderName)
	tierCatalog := services.NewTierCatalog(tierRepo)

	h := handlers.New(handlers.Deps{
		Courses:       services.NewCourseService(courseRepo, referralRepo),
		Referrals:     services.NewReferralService(referralRepo, courseRepo, mailer, hub),
		Rewards:       services.NewRewardCalculator(referralRepo, tierRepo),
		Tiers:         tierCatalog,
		Statements:    services.NewStatementService(services.ChromePDFRenderer{Timeout: 30 * time.Second}),
		Users:         userRepo,
		Hub:           hub,
		JWTSecret:     cfg.JWTSecret,
		CloudinaryURL: cfg.CloudinaryURL,
		PhoneRegion:   cfg.PhoneRegion,
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	go limiter.Cleanup(ctx)

	c := cron.New()
	if _, err := jobs.Schedule(c, cfg.TierExpiryCron, jobs.NewTierExpiryJob(tierCatalog)); err != nil {
		logging.Logger.Fatal("🔥 Invalid tier expiry schedule", zap.String("schedule", cfg.TierExpiryCron), zap.Error(err))
	}
	c.Start()
	defer c.Stop()
	logging.Logger.Info("✅ Cron job for tier expiry scheduled successfully.", zap.String("schedule", cfg.TierExpiryCron))

	app := fiber.New(fiber.Config{
		AppName:      "Referral Rewards",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(metrics.Middleware())

	routes.Setup(app, h, routes.Options{
		JWTSecret:       cfg.JWTSecret,
		ReferralLimiter: limiter,
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	go func() {
		<-ctx.Done()
		logging.Logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logging.Logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logging.Logger.Info("✅ Server is running", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logging.Logger.Fatal("🔥 Server failed to start", zap.Error(err))
	}
}
