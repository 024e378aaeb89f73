package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mesaposte/mesa-api/internal/application/service"
	"github.com/mesaposte/mesa-api/internal/config"
	"github.com/mesaposte/mesa-api/internal/infrastructure/cache"
	"github.com/mesaposte/mesa-api/internal/infrastructure/database"
	"github.com/mesaposte/mesa-api/internal/infrastructure/repository"
	"github.com/mesaposte/mesa-api/internal/job"
	"github.com/mesaposte/mesa-api/internal/presentation/http/handler"
	"github.com/mesaposte/mesa-api/internal/presentation/http/routes"
	"github.com/mesaposte/mesa-api/pkg/printer"
	"github.com/mesaposte/mesa-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize menu cache, falling back to a no-op cache when Redis is
	// not configured or unreachable
	var menuCache cache.MenuCache = cache.NoopMenuCache{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisMenuCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Printf("Warning: Redis unreachable, menu cache disabled: %v", err)
		} else {
			menuCache = redisCache
			defer redisCache.Close()
		}
	}

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	printJobRepo := repository.NewPrintJobRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, tenantRepo, branchRepo, jwtManager, txManager)
	tenantService := service.NewTenantService(tenantRepo)
	branchService := service.NewBranchService(branchRepo)
	productService := service.NewProductService(productRepo, categoryRepo, menuCache)
	categoryService := service.NewCategoryService(categoryRepo)
	accountService := service.NewAccountService(accountRepo, paymentRepo, saleRepo, sessionRepo, productRepo, txManager)
	paymentService := service.NewPaymentService(accountRepo, paymentRepo, txManager)
	saleService := service.NewSaleService(saleRepo)
	sessionService := service.NewSessionService(sessionRepo, saleRepo, branchRepo, txManager)
	printService := service.NewPrintService(printJobRepo, accountRepo, paymentRepo, saleRepo, tenantRepo, thermalPrinter, cfg.Printer.Type)

	// Start the print dispatcher
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	dispatcher := job.NewPrintDispatcher(printJobRepo, thermalPrinter, cfg.PrintQueue.PollInterval, cfg.PrintQueue.MaxAttempts)
	go dispatcher.Start(dispatcherCtx)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Tenant:   handler.NewTenantHandler(tenantService),
		Branch:   handler.NewBranchHandler(branchService),
		Product:  handler.NewProductHandler(productService),
		Category: handler.NewCategoryHandler(categoryService),
		Account:  handler.NewAccountHandler(accountService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Sale:     handler.NewSaleHandler(saleService),
		Session:  handler.NewSessionHandler(sessionService),
		Print:    handler.NewPrintHandler(printService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
