package main

import (
	"context"
	"fmt"
	"os"

	"github.com/offerpath/offerpath-backend/internal/ai"
	"github.com/offerpath/offerpath-backend/internal/ai/gemini"
	"github.com/offerpath/offerpath-backend/internal/ai/openai"
	"github.com/offerpath/offerpath-backend/internal/data/repos"
	"github.com/offerpath/offerpath-backend/internal/db"
	"github.com/offerpath/offerpath-backend/internal/handlers"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
	"github.com/offerpath/offerpath-backend/internal/server"
	"github.com/offerpath/offerpath-backend/internal/services"
	"github.com/offerpath/offerpath-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Database
	dbService, err := db.NewService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	gdb := dbService.DB()

	// Repos
	log.Info("Setting up repos...")
	locks := repos.NewJobLocks()
	jobRepo := repos.NewJobRepo(gdb, log)
	resumeRepo := repos.NewResumeSourceRepo(gdb, log)
	analysisRepo := repos.NewAnalysisRepo(gdb, log, locks)
	assetsRepo := repos.NewAssetsRepo(gdb, log, locks)
	practiceRepo := repos.NewPracticeSessionRepo(gdb, log)
	codingRepo := repos.NewCodingSessionRepo(gdb, log)
	profileRepo := repos.NewProfileRepo(gdb, log)
	settingsRepo := repos.NewSettingsRepo(gdb, log)

	// AI provider
	var provider ai.Provider
	switch utils.GetEnv("AI_PROVIDER", "openai", log) {
	case "gemini":
		provider, err = gemini.NewProvider(context.Background(), log)
	default:
		provider, err = openai.NewProvider(log)
	}
	if err != nil {
		log.Error("Could not init AI provider", "error", err)
		os.Exit(1)
	}
	provider = ai.NewLimited(provider, int64(utils.GetEnvAsInt("AI_MAX_CONCURRENCY", 4, log)))

	// Services
	log.Info("Setting up services...")
	jobService := services.NewJobService(gdb, log, jobRepo)
	resumeService := services.NewResumeService(gdb, log, resumeRepo, provider)
	pipelineService := services.NewPipelineService(gdb, log, jobRepo, analysisRepo, assetsRepo, resumeService, provider)
	optimizeService := services.NewOptimizeService(gdb, log, assetsRepo, pipelineService, provider)
	coverLetterService := services.NewCoverLetterService(gdb, log, assetsRepo, profileRepo, pipelineService, provider)
	practiceService := services.NewPracticeService(gdb, log, analysisRepo, practiceRepo, codingRepo, provider)
	profileService := services.NewProfileService(gdb, log, profileRepo, settingsRepo)
	exportService := services.NewExportService(gdb, log, jobRepo, analysisRepo, assetsRepo)
	demoService := services.NewDemoService(gdb, log, jobRepo, resumeRepo)

	// Router
	log.Info("Setting up router...")
	router := server.NewRouter(server.RouterConfig{
		JobsHandler:     handlers.NewJobsHandler(jobService),
		ResumeHandler:   handlers.NewResumeHandler(resumeService),
		AnalysisHandler: handlers.NewAnalysisHandler(pipelineService),
		OptimizeHandler: handlers.NewOptimizeHandler(optimizeService),
		AssetsHandler:   handlers.NewAssetsHandler(coverLetterService, pipelineService),
		PracticeHandler: handlers.NewPracticeHandler(practiceService),
		ProfileHandler:  handlers.NewProfileHandler(profileService),
		ExportHandler:   handlers.NewExportHandler(exportService),
		DemoHandler:     handlers.NewDemoHandler(demoService),
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
