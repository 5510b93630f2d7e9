package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	config "github.com/maheshrc27/flowsocial/configs"
	"github.com/maheshrc27/flowsocial/internal/api/handlers"
	"github.com/maheshrc27/flowsocial/internal/api/middleware"
	"github.com/maheshrc27/flowsocial/internal/database"
	job "github.com/maheshrc27/flowsocial/internal/jobs"
	applog "github.com/maheshrc27/flowsocial/internal/logger"
	"github.com/maheshrc27/flowsocial/internal/metrics"
	"github.com/maheshrc27/flowsocial/internal/queue"
	"github.com/maheshrc27/flowsocial/internal/repository"
	"github.com/maheshrc27/flowsocial/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: no .env file loaded:", err)
	}

	cfg := config.LoadConfig()
	applog.SetupDefault(os.Stdout, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	ctx := context.Background()

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.PostgresURI); err != nil {
			fatal("failed to run migrations", err)
		}
	}

	db, err := database.Open(ctx, cfg.PostgresURI)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer closeDB(db)

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "path", c.Path(), "error", err)
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	postRepo := repository.NewPostRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	r2Service, err := service.NewR2Service(ctx, *cfg)
	if err != nil {
		fatal("failed to configure object storage", err)
	}

	aiClient := service.NewAIClient(*cfg)
	renderQueue := queue.NewClient(client)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)
	usageService := service.NewUsageService(usageRepo, userRepo, brandRepo, collector)
	brandService := service.NewBrandService(brandRepo, usageService)
	generationService := service.NewGenerationService(aiClient, usageService, brandRepo, postRepo, collector)
	postService := service.NewPostService(generationService, aiClient, postRepo, brandRepo, mediaAssetRepo, r2Service, renderQueue, collector)
	billingService := service.NewBillingService(*cfg, service.NewStripeGateway(cfg.Stripe.SecretKey), userRepo, subscriptionRepo, collector)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "database unreachable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(reg)))

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)
	app.Post("/logout", auth.Logout)

	billing := handlers.NewBillingHandler(*cfg, billingService)
	app.Post("/webhooks/stripe", billing.StripeWebhook)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/remove", user.RemoveUser)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	brands := handlers.NewBrandHandler(brandService)
	api.Get("/brands", brands.ListBrands)
	api.Post("/brands", brands.CreateBrand)
	api.Get("/brands/:id", brands.GetBrand)
	api.Put("/brands/:id", brands.UpdateBrand)
	api.Delete("/brands/:id", brands.RemoveBrand)

	generate := handlers.NewGenerateHandler(generationService)
	api.Post("/generate/caption", generate.Caption)
	api.Post("/generate/captions", generate.CaptionVariants)
	api.Post("/generate/image", generate.Image)

	post := handlers.NewPostHandler(postService)
	api.Post("/posts/generate", post.GeneratePost)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/remove", post.RemovePost)

	usage := handlers.NewUsageHandler(usageService)
	api.Get("/usage", usage.GetUsage)

	api.Post("/billing/checkout", billing.Checkout)

	// cron jobs
	sweepJob := job.NewRenderSweepJob(postService, job.DefaultStaleAfter)

	c := cron.New()
	if err := c.AddFunc(job.SweepSchedule, sweepJob.SweepStaleRenders); err != nil {
		fatal("failed to schedule render sweep", err)
	}
	c.Start()
	defer c.Stop()

	// queue
	worker := queue.NewWorker(postService)
	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})

	slog.Info("starting the asynq server")
	if err := server.Start(worker.Mux()); err != nil {
		fatal("could not start asynq server", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			fatal("failed to start server", err)
		}
	}()
	slog.Info("server is running", "port", cfg.Port)

	gracefulShutdown(app, server)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func closeDB(db *sql.DB) {
	slog.Info("closing database connection")
	if err := db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}

func gracefulShutdown(app *fiber.App, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	slog.Info("shutting down server")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
	server.Shutdown()

	slog.Info("server shutdown complete")
}
