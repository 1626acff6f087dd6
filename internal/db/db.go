package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/gorm"            // GORM ORM library
)

// Open connects to the relational store named by databaseURL. The scheme
// selects the driver: mysql:// uses the MySQL driver with a DSN tail,
// anything postgres-shaped uses the PostgreSQL driver. Heroku-style
// postgres:// URLs are rewritten to postgresql:// before dialing.
func Open(databaseURL string) (*gorm.DB, error) {
	switch {
	case strings.HasPrefix(databaseURL, "mysql://"):
		dsn := strings.TrimPrefix(databaseURL, "mysql://") // user:pass@tcp(host:port)/db DSN tail
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		if strings.HasPrefix(databaseURL, "postgres://") {
			databaseURL = "postgresql://" + strings.TrimPrefix(databaseURL, "postgres://")
		}
		return gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme: %q", databaseURL)
	}
}
