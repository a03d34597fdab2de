package server

import (
	"context"
	"log"
	"strings"
	"time"

	"anara.com/bimbelpintar/internal/ai"
	"anara.com/bimbelpintar/internal/config"
	"anara.com/bimbelpintar/internal/handler"
	"anara.com/bimbelpintar/internal/middleware"
	"anara.com/bimbelpintar/internal/repository"
	"anara.com/bimbelpintar/internal/scheduler"
	"anara.com/bimbelpintar/internal/service"
	"anara.com/bimbelpintar/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	scheduler   *scheduler.Scheduler
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	rewardsRepo := repository.NewRewardsRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	liveClassRepo := repository.NewLiveClassRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	practiceRepo := repository.NewPracticeTestRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("Cloudinary storage unavailable, image uploads disabled: %v", err)
		imageStorage = nil
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewSearchService(meiliClient)

	// Gemini backs the tutor, practice tests and the ranking oracle. The
	// server still runs without it: ranking falls back to the deterministic
	// scorer and the tutor endpoints report the AI as unavailable.
	var llm ai.LLMProvider
	var oracle service.RankingOracle
	gemini, err := ai.NewGeminiProvider(context.Background(), cfg.GeminiModel)
	if err != nil {
		log.Printf("Gemini provider unavailable: %v", err)
	} else {
		llm = gemini
		oracle = service.NewGeminiOracle(gemini, cfg.OracleTimeout)
	}

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	authSvc := service.NewAuthService(userRepo, searchSvc)
	authHandler := handler.NewAuthHandler(authSvc)

	profileSvc := service.NewProfileService(userRepo)
	profileHandler := handler.NewProfileHandler(profileSvc)

	rewardsSvc := service.NewRewardsService(rewardsRepo, userRepo, redisClient, notificationSvc)
	rewardsHandler := handler.NewRewardsHandler(rewardsSvc, redisClient, cfg.RateLimitRedeem)

	rankingSvc := service.NewRankingService(userRepo, oracle)
	leaderboardHandler := handler.NewLeaderboardHandler(rankingSvc)

	courseSvc := service.NewCourseService(courseRepo, searchSvc, imageStorage)
	courseHandler := handler.NewCourseHandler(courseSvc)

	tutorSvc := service.NewTutorService(llm, practiceRepo)
	tutorHandler := handler.NewTutorHandler(tutorSvc)

	liveClassSvc := service.NewLiveClassService(liveClassRepo, courseRepo, userRepo, notificationSvc)
	liveClassHandler := handler.NewLiveClassHandler(liveClassSvc)

	adminSvc := service.NewAdminService(userRepo, rewardsRepo)
	adminHandler := handler.NewAdminHandler(adminSvc)

	sched := scheduler.New(liveClassSvc, 30*time.Minute)
	if err := sched.Start(cfg.LiveClassReminderCron); err != nil {
		log.Printf("Failed to start scheduler: %v", err)
	}

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	api.GET("/courses", courseHandler.ListCourses)
	api.GET("/courses/slug/:slug", courseHandler.GetCourseBySlug)
	api.GET("/ebooks", courseHandler.ListEbooks)
	api.GET("/live-classes", liveClassHandler.GetUpcoming)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/users", adminHandler.CreateUser)
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.PUT("/users/:id", adminHandler.UpdateUser)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
			adminGroup.GET("/redemptions", adminHandler.GetRedemptions)

			adminGroup.POST("/courses", courseHandler.CreateCourse)
			adminGroup.PUT("/courses/:id", courseHandler.UpdateCourse)
			adminGroup.DELETE("/courses/:id", courseHandler.DeleteCourse)
			adminGroup.POST("/courses/:id/videos", courseHandler.AddVideo)
			adminGroup.POST("/ebooks", courseHandler.CreateEbook)
			adminGroup.DELETE("/ebooks/:id", courseHandler.DeleteEbook)
			adminGroup.POST("/live-classes", liveClassHandler.CreateLiveClass)
			adminGroup.DELETE("/live-classes/:id", liveClassHandler.DeleteLiveClass)
		}

		// Rewards ledger routes
		protected.POST("/content/:content_id/watch", rewardsHandler.Interact("watch"))
		protected.POST("/content/:content_id/like", rewardsHandler.Interact("like"))
		protected.POST("/content/:content_id/dislike", rewardsHandler.Interact("dislike"))
		protected.POST("/follow", rewardsHandler.Follow)
		protected.POST("/redeem", rewardsHandler.Redeem)
		protected.GET("/rewards/balance", rewardsHandler.GetBalance)
		protected.GET("/rewards/history", rewardsHandler.GetPointLogs)
		protected.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		// Course routes
		protected.POST("/courses/:id/enroll", courseHandler.Enroll)
		protected.POST("/courses/:id/complete", courseHandler.CompleteCourse)
		protected.GET("/enrollments", courseHandler.GetMyEnrollments)

		// AI tutor routes
		protected.POST("/tutor/ask", tutorHandler.AskTutor)
		protected.POST("/practice-tests", tutorHandler.GeneratePracticeTest)
		protected.GET("/practice-tests", tutorHandler.GetMyPracticeTests)

		// Profile routes
		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.PUT("/profile/pwa-installed", profileHandler.SetPwaInstalled)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		scheduler:   sched,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) Shutdown() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
