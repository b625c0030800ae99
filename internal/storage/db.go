package storage

import (
	"fmt"
	"time"

	"guild-ledger/internal/config"
	"guild-ledger/internal/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Open creates the persistence backend selected by configuration.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case "mysql":
		return openMySQL(cfg)
	case "file":
		return NewFileStore(cfg.Storage.File.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}

// openMySQL sets up the relational backend and migrates both tables.
func openMySQL(cfg *config.Config) (Store, error) {
	mc := cfg.Storage.MySQL
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		mc.Username,
		mc.Password,
		mc.Host,
		mc.Port,
		mc.DBName,
		mc.Charset,
	)

	logger.Infof("Connecting to database: %s:%d/%s", mc.Host, mc.Port, mc.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: NewCustomGormLogger(cfg.Logger.Level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	store := newGormStore(db)
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	logger.Infof("Database connection established successfully")
	return store, nil
}
