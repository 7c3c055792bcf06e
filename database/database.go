package database

import (
	"errors"
	"fmt"

	"github.com/anjiri1684/referral_rewards/logging"
	"github.com/anjiri1684/referral_rewards/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Config is shared by every dialect so tests and production translate
// constraint violations the same way.
func Config() *gorm.Config {
	return &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	}
}

func ConnectDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = db
	logging.Logger.Info("✅ Database connected successfully")
	return db, nil
}

// Migrate creates the tables plus the indexes the struct tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	statements := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_referrals_referee_email ON referrals (referee_email)",
		"CREATE INDEX IF NOT EXISTS idx_referrals_referrer_email_status ON referrals (referrer_email, status)",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	logging.Logger.Info("✅ Database migration successful")
	return nil
}

type AdminSeed struct {
	FullName string
	Email    string
	Password string
}

func SeedAdmin(db *gorm.DB, seed AdminSeed) error {
	if seed.Email == "" || seed.Password == "" {
		logging.Logger.Warn("⚠️ Admin credentials not configured, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", seed.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if count > 0 {
		logging.Logger.Info("Admin user already exists.", zap.String("email", seed.Email))
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		FullName: seed.FullName,
		Email:    seed.Email,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	logging.Logger.Info("✅ Admin user seeded successfully", zap.String("email", seed.Email))
	return nil
}
