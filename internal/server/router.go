package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/offerpath/offerpath-backend/internal/handlers"
)

type RouterConfig struct {
	JobsHandler     *handlers.JobsHandler
	ResumeHandler   *handlers.ResumeHandler
	AnalysisHandler *handlers.AnalysisHandler
	OptimizeHandler *handlers.OptimizeHandler
	AssetsHandler   *handlers.AssetsHandler
	PracticeHandler *handlers.PracticeHandler
	ProfileHandler  *handlers.ProfileHandler
	ExportHandler   *handlers.ExportHandler
	DemoHandler     *handlers.DemoHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Jobs
		api.POST("/jobs", cfg.JobsHandler.CreateJob)
		api.GET("/jobs", cfg.JobsHandler.ListJobs)
		api.GET("/jobs/:id", cfg.JobsHandler.GetJobByID)
		api.PATCH("/jobs/:id", cfg.JobsHandler.UpdateJob)
		api.DELETE("/jobs/:id", cfg.JobsHandler.DeleteJob)

		// Resume
		api.POST("/resume/upload", cfg.ResumeHandler.Upload)
		api.POST("/resume/paste", cfg.ResumeHandler.Paste)
		api.GET("/resume/latest", cfg.ResumeHandler.Latest)

		// Analysis pipeline
		api.POST("/jobs/:id/analyze", cfg.AnalysisHandler.AnalyzeJD)
		api.GET("/jobs/:id/evidence", cfg.AnalysisHandler.EvidenceMap)
		api.GET("/jobs/:id/score", cfg.AnalysisHandler.Score)
		api.GET("/jobs/:id/rewrite-plan", cfg.AnalysisHandler.RewritePlan)

		// Resume optimization
		api.POST("/jobs/:id/optimize", cfg.OptimizeHandler.GenerateVariant)
		api.POST("/jobs/:id/optimize/rule-based", cfg.OptimizeHandler.RuleBasedVariant)
		api.GET("/jobs/:id/resume-versions", cfg.OptimizeHandler.ListVariants)
		api.POST("/jobs/:id/resume-versions", cfg.OptimizeHandler.SaveManualVariant)
		api.POST("/jobs/:id/rewrite-bullet", cfg.OptimizeHandler.RewriteBullet)
		api.GET("/jobs/:id/project-suggestions", cfg.OptimizeHandler.SuggestProjects)

		// Cover letters, roadmap, interview pack
		api.POST("/jobs/:id/cover-letter", cfg.AssetsHandler.GenerateCoverLetter)
		api.GET("/jobs/:id/cover-letters", cfg.AssetsHandler.ListCoverLetters)
		api.GET("/jobs/:id/roadmap", cfg.AssetsHandler.GetRoadmap)
		api.POST("/jobs/:id/roadmap", cfg.AssetsHandler.RegenerateRoadmap)
		api.GET("/jobs/:id/interview-pack", cfg.AssetsHandler.GetInterviewPack)
		api.POST("/jobs/:id/interview-pack", cfg.AssetsHandler.RegenerateInterviewPack)

		// Practice
		api.POST("/jobs/:id/practice/question", cfg.PracticeHandler.GenerateQuestion)
		api.POST("/jobs/:id/practice/star-score", cfg.PracticeHandler.ScoreStar)
		api.POST("/jobs/:id/practice/coding-problem", cfg.PracticeHandler.GenerateCodingProblem)
		api.POST("/jobs/:id/practice/code-review", cfg.PracticeHandler.ReviewCode)
		api.GET("/jobs/:id/practice/sessions", cfg.PracticeHandler.ListSessions)

		// Profile & settings
		api.GET("/profile", cfg.ProfileHandler.GetProfile)
		api.PUT("/profile", cfg.ProfileHandler.UpdateProfile)
		api.GET("/settings", cfg.ProfileHandler.ListSettings)
		api.PUT("/settings/:key", cfg.ProfileHandler.SetSetting)

		// Export
		api.GET("/export/jobs.xlsx", cfg.ExportHandler.JobTracker)
		api.GET("/export/jobs/:id", cfg.ExportHandler.JobArtifacts)

		// Demo data
		api.POST("/demo/load", cfg.DemoHandler.Load)
		api.POST("/demo/reset", cfg.DemoHandler.Reset)
	}

	return router
}
