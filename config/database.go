package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDatabase opens the database used by the sql session backend and migrates the given models.
func InitDatabase(modelDefs ...interface{}) (*gorm.DB, error) {
	if db != nil {
		return db, nil
	}

	c := Get()
	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(c.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	conn, err := OpenDatabase(c, &gorm.Config{Logger: gLogger})
	if err != nil {
		return nil, err
	}

	if c.DatabaseDriver == "mysql" {
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
	}

	for _, model := range modelDefs {
		if err := conn.AutoMigrate(model); err != nil {
			return nil, fmt.Errorf("auto migration failed for %T: %w", model, err)
		}
	}

	db = conn
	return db, nil
}

// OpenDatabase opens a gorm connection for the configured driver.
func OpenDatabase(c AppConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	switch c.DatabaseDriver {
	case "sqlite":
		dsn := c.DatabaseURI
		if dsn == "" {
			dsn = c.DBName + ".db"
		}
		return gorm.Open(sqlite.Open(dsn), gormCfg)
	case "mysql", "":
		dsn := c.DatabaseURI
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				c.DBUser,
				c.DBPassword,
				c.DBHost,
				c.DBPort,
				c.DBName,
			)
		}
		return gorm.Open(mysql.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		// Suppress per-statement logs; keep warnings (including slow SQL)
		return logger.Warn
	}
}
