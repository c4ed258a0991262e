package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/adrianvasquez/fundhub-backend/api/routes"
	"github.com/adrianvasquez/fundhub-backend/internal/applications"
	"github.com/adrianvasquez/fundhub-backend/internal/auth"
	"github.com/adrianvasquez/fundhub-backend/internal/campaigns"
	"github.com/adrianvasquez/fundhub-backend/internal/comments"
	"github.com/adrianvasquez/fundhub-backend/internal/pledges"
	"github.com/adrianvasquez/fundhub-backend/internal/stats"
	"github.com/adrianvasquez/fundhub-backend/internal/users"
	"github.com/adrianvasquez/fundhub-backend/pkg/auth/session"
	"github.com/adrianvasquez/fundhub-backend/pkg/config"
	"github.com/adrianvasquez/fundhub-backend/pkg/db"
	"github.com/adrianvasquez/fundhub-backend/pkg/logger"
	"github.com/adrianvasquez/fundhub-backend/pkg/migrate"
	"github.com/adrianvasquez/fundhub-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	campaignRepo := campaigns.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	applicationService, err := applications.NewService(applications.ServiceParams{
		Repo:     applications.NewRepository(gormDB),
		Users:    userRepo,
		TxRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create application service", err)
		os.Exit(1)
	}

	campaignService, err := campaigns.NewService(campaignRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create campaign service", err)
		os.Exit(1)
	}

	pledgeService, err := pledges.NewService(pledges.ServiceParams{
		Repo:      pledges.NewRepository(gormDB),
		Users:     userRepo,
		Campaigns: campaignRepo,
		TxRunner:  dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pledge service", err)
		os.Exit(1)
	}

	commentService, err := comments.NewService(comments.NewRepository(gormDB), userRepo, campaignRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create comment service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(stats.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisClient,
			sessionManager,
			authService,
			registerService,
			userService,
			applicationService,
			campaignService,
			pledgeService,
			commentService,
			statsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
