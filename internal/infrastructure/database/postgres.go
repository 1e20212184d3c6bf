package database

import (
	"fmt"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresConnection opens the clinic database. SQL logging goes through logrus:
// every statement in development, slow or failed ones otherwise.
func NewPostgresConnection(cfg config.DBConfig, development bool, log *logrus.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if development {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.WithFields(logrus.Fields{"host": cfg.Host, "database": cfg.Name}).Info("Successfully connected to PostgreSQL database")

	return db, nil
}
