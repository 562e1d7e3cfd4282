package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"

	"github.com/infrabondx/backend/internal/auth"
	"github.com/infrabondx/backend/internal/certificate"
	"github.com/infrabondx/backend/internal/config"
	"github.com/infrabondx/backend/internal/execution"
	"github.com/infrabondx/backend/internal/handlers"
	"github.com/infrabondx/backend/internal/repository"
	"github.com/infrabondx/backend/internal/router"
	"github.com/infrabondx/backend/internal/seed"
	"github.com/infrabondx/backend/internal/services"
	"github.com/infrabondx/backend/internal/storage"
	"github.com/infrabondx/backend/migrations"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("Cannot reach PostgreSQL (connection refused or invalid). Ensure Postgres is running, e.g. docker-compose up -d", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to PostgreSQL database successfully!")

	if err := migrations.Apply(ctx, pool); err != nil {
		slog.Error("Schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	// River migrations (job queue tables).
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		slog.Error("Failed to create River migrator", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		slog.Error("River migrate up failed", "error", err)
		os.Exit(1)
	}
	slog.Info("River migrations applied")

	// Repositories.
	userRepo := repository.NewUserRepo(pool)
	projectRepo := repository.NewProjectRepo(pool)
	milestoneRepo := repository.NewMilestoneRepo(pool)
	escrowRepo := repository.NewEscrowRepo(pool)
	holdingRepo := repository.NewHoldingRepo(pool)
	transactionRepo := repository.NewTransactionRepo(pool)
	listingRepo := repository.NewListingRepo(pool)

	if err := seed.Run(ctx, userRepo, projectRepo, milestoneRepo, escrowRepo, logger); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}

	// Services.
	authSvc := auth.NewService(userRepo, cfg.JWTSecret)
	escrowSvc := services.NewEscrowService(escrowRepo)
	investSvc := services.NewInvestService(pool, projectRepo, escrowSvc, holdingRepo, transactionRepo, logger)
	milestoneSvc := services.NewMilestoneService(pool, milestoneRepo, projectRepo, escrowSvc, logger)
	marketSvc := services.NewMarketplaceService(pool, listingRepo, projectRepo, holdingRepo, transactionRepo, logger)
	catalogSvc := services.NewCatalogService(projectRepo, milestoneRepo, escrowRepo, logger)
	fraudSvc := services.NewFraudService(projectRepo)
	certSvc := services.NewCertificateService(userRepo, projectRepo, transactionRepo)

	validator, err := services.NewValidator(cfg.SchemaDir)
	if err != nil {
		slog.Error("Schema validator init failed", "error", err)
		os.Exit(1)
	}

	// Certificate pre-render worker.
	renderer := certificate.NewPDFRenderer()
	workers := river.NewWorkers()
	river.AddWorker(workers, execution.NewRenderCertificateWorker(certSvc, renderer, cfg.CertDir, logger))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 5},
		},
		Workers: workers,
	})
	if err != nil {
		slog.Error("Failed to create River client", "error", err)
		os.Exit(1)
	}
	investSvc.InsertCertificate = func(ctx context.Context, tx pgx.Tx, args execution.RenderCertificateJobArgs) error {
		_, err := riverClient.InsertTx(ctx, tx, args, nil)
		return err
	}

	store, err := storage.NewDiskStore(cfg.UploadDir, "/uploads")
	if err != nil {
		slog.Error("Upload store init failed", "error", err)
		os.Exit(1)
	}

	// Handlers and routes.
	h := router.Handlers{
		Auth:        auth.NewHandler(authSvc, logger),
		Projects:    handlers.NewProjectHandler(catalogSvc, escrowSvc, logger),
		Investor:    handlers.NewInvestorHandler(investSvc, holdingRepo, transactionRepo, certSvc, renderer, cfg.CertDir, logger),
		Issuer:      handlers.NewIssuerHandler(catalogSvc, milestoneSvc, validator, logger),
		Marketplace: handlers.NewMarketplaceHandler(marketSvc, logger),
		Admin:       handlers.NewAdminHandler(catalogSvc, fraudSvc, escrowSvc, logger),
		Upload:      handlers.NewUploadHandler(store, logger),
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(router.New(h, authSvc))

	riverCtx, stopRiver := context.WithCancel(ctx)
	defer stopRiver()
	go func() {
		if err := riverClient.Start(riverCtx); err != nil && riverCtx.Err() == nil {
			slog.Error("River client stopped", "error", err)
		}
	}()

	addr := "0.0.0.0:" + cfg.Port
	slog.Info("Starting HTTP server", "addr", addr)
	if err := http.ListenAndServe(addr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
