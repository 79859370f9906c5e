package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pagos-go-api/internal/config"
	"github.com/noah-isme/pagos-go-api/internal/database"
	"github.com/noah-isme/pagos-go-api/internal/handler"
	"github.com/noah-isme/pagos-go-api/internal/middleware"
	"github.com/noah-isme/pagos-go-api/internal/models"
	"github.com/noah-isme/pagos-go-api/internal/reconcile"
	"github.com/noah-isme/pagos-go-api/internal/repository"
	"github.com/noah-isme/pagos-go-api/internal/router"
	"github.com/noah-isme/pagos-go-api/internal/service"
	cloud "github.com/noah-isme/pagos-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Student{}, &models.Concept{}, &models.PaymentRecord{}, &models.Expense{}, &models.AuditLogEntry{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	fileStore, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	policy := reconcile.NewOverduePolicy(cfg.OverdueForcedCodes, cfg.OverdueExemptCode)

	studentRepo := repository.NewStudentRepository(db)
	conceptRepo := repository.NewConceptRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	auditService := service.NewAuditService(auditRepo, validate, logger)
	paymentService := service.NewPaymentService(paymentRepo, auditService, redisClient, validate, logger)
	expenseService := service.NewExpenseService(expenseRepo, fileStore, auditService, validate, cfg.ExpenseDeleteRoles, logger)
	dashboardService := service.NewDashboardService(studentRepo, conceptRepo, paymentRepo, policy, redisClient, cfg.DashboardCacheTTL, logger)

	healthHandler := handler.NewHealthHandler(cfg, db, redisClient)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)
	expenseHandler := handler.NewExpenseHandler(expenseService, logger)
	auditHandler := handler.NewAuditHandler(auditService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		HealthHandler:    healthHandler,
		DashboardHandler: dashboardHandler,
		PaymentHandler:   paymentHandler,
		ExpenseHandler:   expenseHandler,
		AuditHandler:     auditHandler,
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
		AuditRoleIDs:     cfg.ExpenseDeleteRoles,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
