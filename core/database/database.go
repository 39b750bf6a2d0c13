package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a connection to the MySQL database.
// It returns a *gorm.DB connection or an error if the connection fails.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.Driver != "" && cfg.Driver != "mysql" {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	d := time.Duration(timeout) * time.Second

	// FormatDSN handles special characters in the password.
	dsn := DSN(cfg, d)

	// Suppress GORM logging, the reconciler logs write failures itself
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// DSN builds the driver connection string. timeout bounds connection setup
// and socket reads and writes. ClientFoundRows makes UPDATE report matched
// rows, so an update with unchanged values still counts as a hit.
func DSN(cfg Config, timeout time.Duration) string {
	dc := driver.NewConfig()
	dc.User = cfg.User
	dc.Passwd = cfg.Password
	dc.Net = "tcp"
	dc.Addr = cfg.Host + ":" + strconv.Itoa(cfg.Port)
	dc.DBName = cfg.Name
	dc.ParseTime = true
	dc.Loc = time.UTC
	dc.Timeout = timeout
	dc.ReadTimeout = timeout
	dc.WriteTimeout = timeout
	dc.ClientFoundRows = true
	dc.Params = map[string]string{"charset": "utf8mb4"}
	return dc.FormatDSN()
}
