package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stackit-qa/backend/internal/database"
	"github.com/stackit-qa/backend/internal/handlers"
	"github.com/stackit-qa/backend/internal/middleware"
	"github.com/stackit-qa/backend/internal/models"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	db := database.New()

	handler := handlers.NewHandler(db.GetDB())

	newServer := &Server{
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	gormDB := s.db.GetDB()

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Question routes (public reads, caller resolved when a token is sent)
		api.GET("/questions", middleware.OptionalAuth(gormDB), s.handler.Question.GetQuestions)
		api.GET("/questions/:id", middleware.OptionalAuth(gormDB), s.handler.Question.GetQuestion)

		// Tag routes (public reads)
		api.GET("/tags", s.handler.Tag.GetTags)
		api.GET("/tags/popular", s.handler.Tag.GetPopularTags)

		// User routes (public reads)
		api.GET("/users/:id", s.handler.User.GetUserProfile)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.Authenticate(gormDB))
		{
			protected.GET("/me", s.handler.Auth.GetMe)

			// Question protected routes
			protected.POST("/questions", s.handler.Question.CreateQuestion)
			protected.POST("/questions/:id/answers", s.handler.Question.CreateAnswer)
			protected.POST("/questions/:id/vote", s.handler.Question.VoteQuestion)

			// Answer protected routes
			protected.POST("/answers/:id/vote", s.handler.Answer.VoteAnswer)
			protected.POST("/answers/:id/accept", s.handler.Answer.AcceptAnswer)

			// Notification protected routes
			protected.GET("/notifications", s.handler.Notification.GetNotifications)
			protected.POST("/notifications/:id/read", s.handler.Notification.MarkRead)
			protected.POST("/notifications/mark-all-read", s.handler.Notification.MarkAllRead)

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", s.handler.Admin.GetUsers)
				admin.PATCH("/users/:id/status", s.handler.Admin.UpdateUserStatus)
				admin.GET("/questions", s.handler.Admin.GetQuestions)
				admin.DELETE("/questions/:id", s.handler.Admin.DeleteQuestion)
				admin.DELETE("/answers/:id", s.handler.Admin.DeleteAnswer)
				admin.POST("/tags", s.handler.Admin.CreateTag)
				admin.DELETE("/tags/:id", s.handler.Admin.DeleteTag)
			}
		}
	}

	return r
}
