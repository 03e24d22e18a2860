package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/jobspher/jobspher/internal/api/handlers"
	"github.com/jobspher/jobspher/internal/api/middleware"
	pgrepo "github.com/jobspher/jobspher/internal/repositories/postgres"
)

type Deps struct {
	Users pgrepo.UserRepository

	Auth          *handlers.AuthHandler
	Company       *handlers.CompanyHandler
	Job           *handlers.JobHandler
	Payment       *handlers.PaymentHandler
	Application   *handlers.ApplicationHandler
	Notifications *handlers.NotificationHandler
	Files         *handlers.FileHandler
	WS            *handlers.WSHandler
	Audit         *handlers.AuditHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public
	r.POST("/auth/register", d.Auth.Register)
	r.POST("/auth/login", d.Auth.Login)
	r.GET("/jobs", d.Job.Search)
	r.GET("/jobs/:id", d.Job.Get)

	// Protected routes (JWT loads the acting user)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.Users))

	auth.GET("/auth/me", d.Auth.Me)

	auth.GET("/notifications", d.Notifications.List)
	auth.GET("/notifications/unread-count", d.Notifications.UnreadCount)
	auth.POST("/notifications/:id/read", d.Notifications.MarkRead)
	auth.GET("/ws/notifications", d.WS.NotificationsWS)

	auth.POST("/files/:category", d.Files.Upload)
	auth.GET("/files/*path", d.Files.Download)

	// Employer
	employer := auth.Group("/")
	employer.Use(middleware.RequireEmployer())

	employer.POST("/companies", d.Company.Register)
	employer.GET("/companies/me", d.Company.Me)
	employer.PUT("/companies/me", d.Company.Update)
	employer.GET("/companies/me/jobs", d.Job.ListMine)

	employer.POST("/jobs", d.Job.Create)
	employer.POST("/jobs/:id/close", d.Job.Close)
	employer.GET("/jobs/:id/applications", d.Application.ListByJob)
	employer.PUT("/applications/:id/status", d.Application.UpdateStatus)

	employer.POST("/payments", d.Payment.Upload)
	employer.GET("/payments", d.Payment.ListMine)
	employer.GET("/payments/latest", d.Payment.Latest)

	// Job seeker
	seeker := auth.Group("/")
	seeker.Use(middleware.RequireJobSeeker())

	seeker.POST("/applications", d.Application.Apply)
	seeker.GET("/applications/me", d.Application.ListMine)

	// Admin moderation
	admin := auth.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/jobs/pending", d.Job.ListPending)
	admin.POST("/jobs/:id/approve", d.Job.Approve)
	admin.POST("/jobs/:id/reject", d.Job.Reject)

	admin.GET("/payments/pending", d.Payment.ListPending)
	admin.POST("/payments/:id/review", d.Payment.Review)

	admin.GET("/audit/:kind/:id", d.Audit.ListByEntity)
}
