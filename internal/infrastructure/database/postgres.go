package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/config"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/pkg/utils"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Tenant entities
		&entity.Tenant{},
		&entity.Branch{},
		&entity.User{},

		// Catalog entities
		&entity.Category{},
		&entity.Product{},

		// Ledger entities
		&entity.Account{},
		&entity.AccountItem{},
		&entity.PaymentRecord{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.CashSession{},

		// System entities
		&entity.PrintJob{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates a demo tenant with an owner user when configured
// via environment variables. Useful for local development; a no-op when the
// variables are absent or the tenant already exists.
func SeedDefaultData(db *gorm.DB) error {
	ownerEmail := viper.GetString("SEED_OWNER_EMAIL")
	ownerPassword := viper.GetString("SEED_OWNER_PASSWORD")
	tenantName := viper.GetString("SEED_TENANT_NAME")

	if ownerEmail == "" || ownerPassword == "" {
		return nil
	}
	if tenantName == "" {
		tenantName = "Demo Restaurant"
	}

	var existing entity.User
	if err := db.Where("email = ?", ownerEmail).First(&existing).Error; err == nil {
		log.Printf("Seed owner already exists: %s", ownerEmail)
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(ownerPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed owner password: %w", err)
	}

	ownerID := uuid.New()
	tenant := entity.Tenant{
		ID:      uuid.New(),
		Name:    tenantName,
		Slug:    utils.Slugify(tenantName),
		OwnerID: ownerID,
	}
	if err := db.Create(&tenant).Error; err != nil {
		return fmt.Errorf("failed to create seed tenant: %w", err)
	}

	branch := entity.Branch{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		Name:     "Main",
	}
	if err := db.Create(&branch).Error; err != nil {
		return fmt.Errorf("failed to create seed branch: %w", err)
	}

	owner := entity.User{
		ID:        ownerID,
		TenantID:  tenant.ID,
		FirstName: "Owner",
		Email:     ownerEmail,
		Password:  string(hashedPassword),
		Role:      entity.RoleOwner,
	}
	if err := db.Create(&owner).Error; err != nil {
		return fmt.Errorf("failed to create seed owner: %w", err)
	}

	log.Printf("Seeded tenant %q with owner %s", tenantName, ownerEmail)
	return nil
}
