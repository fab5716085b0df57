package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// connectRetryInterval is the fixed wait between startup connection attempts.
const connectRetryInterval = 5 * time.Second

// createVehiclesTable is idempotent: it never drops or alters existing
// columns, so running it against an initialized database is a no-op.
const createVehiclesTable = `
CREATE TABLE IF NOT EXISTS vehicles (
	id SERIAL PRIMARY KEY,
	brand VARCHAR(100) NOT NULL,
	model VARCHAR(100) NOT NULL,
	image_path VARCHAR(255),
	technical_specs TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

var db *gorm.DB

// InitDatabase connects to PostgreSQL using configuration values and ensures
// the vehicles table exists. The first connection is retried on a fixed
// interval; exhausting the attempts, or failing to initialize the schema,
// terminates the process before the server binds its port.
func InitDatabase() *gorm.DB {
	if db != nil {
		return db
	}

	cfg := Get()
	dsn := cfg.DatabaseURI
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Local",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
		)
	}

	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	err := retry(cfg.ConnectMaxAttempts, connectRetryInterval, func() error {
		opened, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gLogger})
		if openErr != nil {
			return openErr
		}
		sqlDB, dbErr := opened.DB()
		if dbErr != nil {
			return dbErr
		}
		// Readiness probe only; the verified connection goes straight back
		// into the shared pool.
		if pingErr := sqlDB.Ping(); pingErr != nil {
			return pingErr
		}
		db = opened
		return nil
	})
	if err != nil {
		log.Fatalf("database connection failed after %d attempts: %v", cfg.ConnectMaxAttempts, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := EnsureSchema(db); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}

	log.Println("database connected and schema ensured")
	return db
}

// EnsureSchema issues the idempotent vehicles DDL.
func EnsureSchema(db *gorm.DB) error {
	return db.Exec(createVehiclesTable).Error
}

// DB provides access to the initialized gorm DB instance.
func DB() *gorm.DB {
	if db == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return db
}

// retry runs probe until it succeeds, waiting interval between consecutive
// attempts. It returns the last probe error once maxAttempts have failed.
func retry(maxAttempts int, interval time.Duration, probe func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = probe(); err == nil {
			return nil
		}
		log.Printf("attempt %d/%d - database connection failed: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(interval)
		}
	}
	return err
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
		return logger.Warn
	}
}
