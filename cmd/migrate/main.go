package main

import (
	"flag" // Command-line flags
	"fmt"

	"classfeedback/internal/config" // Custom package for configuration
	"classfeedback/internal/db"     // Custom package for database access
	"classfeedback/internal/utils"  // Admin token utilities

	"github.com/sirupsen/logrus"
)

// Main entry point for migration, seeding and admin token minting
func main() {
	seedPath := flag.String("seed", "", "CSV file of name,email rows to seed when the users table is empty")
	adminToken := flag.Bool("admin-token", false, "print a bearer token for the /admin endpoints and exit")
	flag.Parse()

	cfg := config.LoadConfig() // Load configuration

	if *adminToken {
		token, err := utils.GenerateAdminToken(cfg.SecretKey)
		if err != nil {
			logrus.Fatalf("failed to mint admin token: %v", err)
		}
		fmt.Println(token) // The only line on stdout, easy to capture
		return
	}

	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Fatal error if connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Fatal error if migration fails
	}
	logrus.Info("Migration completed.")

	if *seedPath != "" {
		if err := db.SeedFromCSV(gdb, *seedPath); err != nil {
			logrus.Fatalf("seeding failed: %v", err)
		}
	}
}
