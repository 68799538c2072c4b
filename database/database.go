package database

import (
	"time"

	config "github.com/anjiri1684/school_cbt/configs"
	"github.com/anjiri1684/school_cbt/logger"
	"github.com/anjiri1684/school_cbt/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// zapWriter routes gorm's slow query and error lines into the zap logger.
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logger.Log.Sugar().Warnf(format, args...)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(zapWriter{}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	switch config.ConfigDefault("DB_DRIVER", "postgres") {
	case "sqlite":
		DB, err = Open(sqlite.Open(config.ConfigDefault("DATABASE_URL", "school_cbt.db")))
	default:
		DB, err = Open(postgres.Open(dsn))
	}
	if err != nil {
		logger.Log.Fatal("🔥 Failed to connect to database", zap.Error(err))
	}

	logger.Log.Info("✅ Database connected successfully")
}

func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, gormConfig())
}

func Migrate() {
	if err := AutoMigrate(DB); err != nil {
		logger.Log.Fatal("🔥 Failed to migrate database", zap.Error(err))
	}
	logger.Log.Info("✅ Database migration successful")
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AcademicSession{},
		&models.Class{},
		&models.Subject{},
		&models.CbtAssessmentDocument{},
		&models.CbtTimetable{},
		&models.CbtExam{},
		&models.CbtObjQuestion{},
		&models.CbtTheoryQuestion{},
		&models.CbtResult{},
		&models.PaymentPriority{},
		&models.PaymentPriorityItem{},
	)
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		logger.Log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		logger.Log.Fatal("🔥 Failed to check for admin user", zap.Error(err))
	}

	if count > 0 {
		logger.Log.Info("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Fatal("🔥 Failed to hash admin password", zap.Error(err))
	}

	adminUser := models.User{
		FullName: config.ConfigDefault("ADMIN_FULL_NAME", "School Administrator"),
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		IsActive: true,
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		logger.Log.Fatal("🔥 Failed to seed admin user", zap.Error(err))
	}

	logger.Log.Info("✅ Admin user seeded successfully", zap.String("email", adminEmail))
}
