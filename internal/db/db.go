package db

import (
	"fmt"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/suPer8Hu/brand-assistant/internal/chat"
	"github.com/suPer8Hu/brand-assistant/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database for driver ("mysql" or "sqlite") and migrates the schema.
func Connect(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "", "sqlite":
		dialector = gormsqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER=%q", driver)
	}

	gLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             1500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gLogger})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if driver == "mysql" {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return gdb, nil
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.User{}, &chat.Conversation{}, &chat.Message{})
}
