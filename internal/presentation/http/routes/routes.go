package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mesaposte/mesa-api/internal/config"
	domainRepo "github.com/mesaposte/mesa-api/internal/domain/repository"
	"github.com/mesaposte/mesa-api/internal/presentation/http/handler"
	"github.com/mesaposte/mesa-api/internal/presentation/http/middleware"
	"github.com/mesaposte/mesa-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Tenant   *handler.TenantHandler
	Branch   *handler.BranchHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Account  *handler.AccountHandler
	Payment  *handler.PaymentHandler
	Sale     *handler.SaleHandler
	Session  *handler.SessionHandler
	Print    *handler.PrintHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.RequireTenant())

		// Per-tenant rate limiter
		rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile
	protected.GET("/profile", h.Auth.Profile)

	// Tenant settings
	registerTenantRoutes(protected, h)

	// Branches
	registerBranchRoutes(protected, h)

	// Menu catalog
	registerProductRoutes(protected, h)
	registerCategoryRoutes(protected, h)

	// Tabs and payments
	registerAccountRoutes(protected, h, deps)

	// Finalized sales
	registerSaleRoutes(protected, h)

	// Cash sessions
	registerSessionRoutes(protected, h)

	// Printing
	registerPrintRoutes(protected, h)
}

func registerTenantRoutes(protected *gin.RouterGroup, h *Handlers) {
	tenants := protected.Group("/tenants")
	{
		tenants.GET("/current", h.Tenant.GetCurrent)
		tenants.PUT("/current", middleware.RequireRole("owner", "admin"), h.Tenant.UpdateSettings)
	}
}

func registerBranchRoutes(protected *gin.RouterGroup, h *Handlers) {
	branches := protected.Group("/branches")
	{
		branches.GET("", h.Branch.List)
		branches.GET("/:id", h.Branch.Get)
		branches.POST("", middleware.RequireRole("owner", "admin"), h.Branch.Create)
		branches.PUT("/:id", middleware.RequireRole("owner", "admin"), h.Branch.Update)
		branches.DELETE("/:id", middleware.RequireRole("owner", "admin"), h.Branch.Delete)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	// The menu endpoint is read-heavy and open to every authenticated role.
	protected.GET("/menu", h.Product.Menu)

	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", middleware.RequireRole("owner", "admin"), h.Product.Create)
		products.PUT("/:id", middleware.RequireRole("owner", "admin"), h.Product.Update)
		products.DELETE("/:id", middleware.RequireRole("owner", "admin"), h.Product.Delete)
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.POST("", middleware.RequireRole("owner", "admin"), h.Category.Create)
		categories.PUT("/:id", middleware.RequireRole("owner", "admin"), h.Category.Update)
		categories.DELETE("/:id", middleware.RequireRole("owner", "admin"), h.Category.Delete)
	}
}

func registerAccountRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	accounts := protected.Group("/accounts")
	{
		accounts.GET("", h.Account.List)
		// Account creation accepts an optional Idempotency-Key so a retried
		// open-tab request does not seat the table twice.
		accounts.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Account.Create)
		accounts.GET("/:id", h.Account.Get)
		accounts.DELETE("/:id", h.Account.Delete)

		accounts.POST("/:id/items", h.Account.AddItem)
		accounts.DELETE("/:id/items/:itemId", h.Account.RemoveItem)
		accounts.PUT("/:id/items/:itemId/quantity", h.Account.UpdateQuantity)

		accounts.PUT("/:id/split", h.Account.Split)
		accounts.GET("/:id/split", h.Account.SplitStatus)

		// Payment mutations require an Idempotency-Key: a retried charge
		// must never be recorded twice.
		accounts.POST("/:id/payments/items", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Payment.PayItems)
		accounts.POST("/:id/payments", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Payment.AddPayment)
		accounts.GET("/:id/payments", h.Payment.List)

		accounts.POST("/:id/close", h.Account.Close)
		accounts.POST("/:id/print", h.Print.PrintAccount)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers) {
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/print", h.Print.PrintSale)
	}
}

func registerSessionRoutes(protected *gin.RouterGroup, h *Handlers) {
	sessions := protected.Group("/sessions")
	{
		sessions.GET("", h.Session.List)
		sessions.GET("/open", h.Session.GetOpen)
		sessions.GET("/:id", h.Session.Get)
		sessions.POST("", h.Session.Open)
		sessions.POST("/:id/close", h.Session.Close)
	}
}

func registerPrintRoutes(protected *gin.RouterGroup, h *Handlers) {
	printGroup := protected.Group("/printer")
	{
		printGroup.GET("/status", h.Print.Status)
		printGroup.POST("/test", h.Print.Test)
		printGroup.GET("/jobs", h.Print.ListJobs)
		printGroup.GET("/jobs/:id", h.Print.GetJob)
	}
}
