package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/pembrokehq/reflect-backend/internal/data/db"
	"github.com/pembrokehq/reflect-backend/internal/data/repos"
	httpserver "github.com/pembrokehq/reflect-backend/internal/http"
	httpH "github.com/pembrokehq/reflect-backend/internal/http/handlers"
	"github.com/pembrokehq/reflect-backend/internal/observability"
	"github.com/pembrokehq/reflect-backend/internal/platform/docai"
	"github.com/pembrokehq/reflect-backend/internal/platform/envutil"
	"github.com/pembrokehq/reflect-backend/internal/platform/logger"
	"github.com/pembrokehq/reflect-backend/internal/platform/openai"
	"github.com/pembrokehq/reflect-backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{})
	if shutdownOTel != nil {
		defer func() { _ = shutdownOTel(context.Background()) }()
	}

	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	gdb := dbService.DB()
	if err := db.AutoMigrateAll(gdb); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	if err := db.EnsureIndexes(gdb); err != nil {
		log.Warn("Index creation failed", "error", err)
	}

	agendaRepo := repos.NewAgendaRepo(gdb, log)
	sessionRepo := repos.NewSessionRepo(gdb, log)
	reportRepo := repos.NewReportRepo(gdb, log)

	aiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}

	var extractHandler *httpH.ExtractHandler
	extractorClient, err := docai.NewExtractor(log)
	if err != nil {
		log.Warn("Document AI unavailable, PDF extraction disabled", "error", err)
	} else {
		defer extractorClient.Close()
		extractionService := services.NewExtractionService(log, extractorClient)
		extractHandler = httpH.NewExtractHandler(log, extractionService)
	}

	intakeService := services.NewIntakeService(log, aiClient, agendaRepo)
	sessionService := services.NewSessionService(log, agendaRepo, sessionRepo)
	analysisService := services.NewAnalysisService(log, aiClient, sessionRepo, reportRepo)

	server := httpserver.NewServer(httpserver.RouterConfig{
		Log:             log,
		HealthHandler:   httpH.NewHealthHandler(),
		ExtractHandler:  extractHandler,
		AgendaHandler:   httpH.NewAgendaHandler(log, intakeService),
		SessionHandler:  httpH.NewSessionHandler(log, sessionService),
		AnalysisHandler: httpH.NewAnalysisHandler(log, analysisService),
	})

	port := envutil.Str("PORT", "8080")
	log.Info("Starting server", "port", port)
	if err := server.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
