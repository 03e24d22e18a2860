package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jobspher/jobspher/config"
	"github.com/jobspher/jobspher/internal/api/handlers"
	"github.com/jobspher/jobspher/internal/api/middleware"
	"github.com/jobspher/jobspher/internal/api/routes"
	"github.com/jobspher/jobspher/internal/cache"
	"github.com/jobspher/jobspher/internal/logger"
	mongorepo "github.com/jobspher/jobspher/internal/repositories/mongo"
	pgrepo "github.com/jobspher/jobspher/internal/repositories/postgres"
	"github.com/jobspher/jobspher/internal/services"
	"github.com/jobspher/jobspher/internal/storage"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.MigratePostgres(); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	l.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	// Init MongoDB (workflow audit trail)
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	ctx := context.Background()

	// Storage gateway: GCS when a bucket is configured, local disk otherwise.
	var gateway storage.Gateway
	if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
		gcs, err := storage.NewGCSGateway(ctx, bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		gateway = gcs
	} else {
		local, err := storage.NewLocalGateway(os.Getenv("UPLOAD_DIR"))
		if err != nil {
			log.Fatalf("local storage init error: %v", err)
		}
		gateway = local
	}

	repos := pgrepo.NewRepos(config.PostgresDB)
	txm := pgrepo.NewTxManager(config.PostgresDB)

	auditRepo := mongorepo.NewAuditRepo(config.MongoClient.Database(config.MongoDBName()))
	notifier := services.NewNotifier(config.RedisClient, auditRepo, l)
	redisCache := cache.NewRedisCache(config.RedisClient)

	authSvc := services.NewAuthService(repos.Users)
	companySvc := services.NewCompanyService(repos.Companies)
	paymentSvc := services.NewPaymentService(repos, txm, notifier)
	jobSvc := services.NewJobService(repos, txm, notifier, redisCache)
	applicationSvc := services.NewApplicationService(repos, txm, notifier)
	notificationSvc := services.NewNotificationService(repos.Notifications)

	if err := authSvc.EnsureAdmin(ctx, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Fatalf("admin seed error: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Users:         repos.Users,
		Auth:          handlers.NewAuthHandler(authSvc),
		Company:       handlers.NewCompanyHandler(companySvc),
		Job:           handlers.NewJobHandler(jobSvc),
		Payment:       handlers.NewPaymentHandler(paymentSvc),
		Application:   handlers.NewApplicationHandler(applicationSvc),
		Notifications: handlers.NewNotificationHandler(notificationSvc),
		Files:         handlers.NewFileHandler(gateway, repos.Users),
		WS:            handlers.NewWSHandler(config.RedisClient, l),
		Audit:         handlers.NewAuditHandler(auditRepo),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
