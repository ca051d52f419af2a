package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"smartquiz/internal/ai"
	"smartquiz/internal/conf"
	"smartquiz/internal/data"
	"smartquiz/internal/handler"
	"smartquiz/internal/middleware"
	"smartquiz/internal/service"
)

func main() {
	// 1. Load configuration
	cfg := conf.LoadConfig()

	// 2. Init data layer (Postgres, Redis, MinIO)
	d, cleanup, err := data.NewData(cfg)
	if err != nil {
		log.Fatalf("❌ data layer init failed: %v", err)
	}
	defer cleanup()

	// 3. AI collaborator. A nil *GeminiClient must not be wrapped in the
	// interface, otherwise the nil check inside the classifier never fires.
	var gen ai.Generator
	if g := ai.NewGeminiClient(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel); g != nil {
		gen = g
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set, classification uses keyword fallback only")
	}

	// 4. Services
	authService := service.NewAuthService(d.DB, cfg.App.JWTSecret)
	classService := service.NewClassService(d.DB)
	examService := service.NewExamService(d.DB, d.Redis)
	dashboardService := service.NewDashboardService(d.DB, examService)
	uploadService := service.NewSmartUploadService(d.DB, d.Store, gen)
	kbService := service.NewKBService(d.DB, d.Store)

	// 5. Handlers
	authHandler := handler.NewAuthHandler(authService)
	classHandler := handler.NewClassHandler(classService)
	examHandler := handler.NewExamHandler(examService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	fileHandler := handler.NewFileHandler(uploadService, kbService)

	// 6. Gin web server
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 7. Routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWTAuth(cfg.App.JWTSecret), authHandler.Me)
		}

		// Public exam link, no login required. Access is counted for the
		// dashboard traffic series.
		api.GET("/exams/public/:publicID", examHandler.GetPublic)

		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(cfg.App.JWTSecret))
		{
			protected.GET("/dashboard", dashboardHandler.Get)

			protected.GET("/classes", classHandler.List)
			protected.POST("/classes", classHandler.Create)
			protected.GET("/classes/:id", classHandler.Get)
			protected.PUT("/classes/:id", classHandler.Update)
			protected.DELETE("/classes/:id", classHandler.Delete)
			protected.POST("/classes/:id/students", classHandler.AddStudent)
			protected.DELETE("/classes/:id/students/:studentID", classHandler.RemoveStudent)

			protected.GET("/exams", examHandler.List)
			protected.POST("/exams", examHandler.Create)
			protected.POST("/exams/parse", examHandler.Parse)
			protected.GET("/exams/:id", examHandler.Get)
			protected.PUT("/exams/:id", examHandler.Update)
			protected.DELETE("/exams/:id", examHandler.Delete)
			protected.GET("/exams/:id/results", examHandler.Results)
			protected.POST("/exams/:id/assign-class/:classID", examHandler.AssignToClass)

			protected.POST("/files/upload", fileHandler.SimpleUpload)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(cfg.App.JWTSecret), middleware.RequireAdmin())
		{
			admin.GET("/topics", fileHandler.ListTopics)
			admin.POST("/topics", fileHandler.CreateTopic)
			admin.GET("/topics/:slug", fileHandler.TopicDetail)
			admin.DELETE("/topics/:id", fileHandler.DeleteTopic)

			admin.POST("/smart-upload", fileHandler.SmartUpload)
			admin.POST("/upload", fileHandler.Upload)

			admin.GET("/resources", fileHandler.ListResources)
			admin.DELETE("/resources/:id", fileHandler.DeleteResource)
			admin.GET("/resources/:id/presign", fileHandler.PresignResource)

			admin.GET("/stats", fileHandler.Stats)
			admin.GET("/s3/folders", fileHandler.ListFolders)
		}
	}

	log.Printf("🚀 smartquiz backend listening on :%s", cfg.App.Port)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("❌ server failed: %v", err)
	}
}
