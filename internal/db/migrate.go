package db

import (
	"encoding/csv"
	"os"
	"strings"

	"classfeedback/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"gorm.io/gorm" // GORM ORM library
)

// Migrate creates or updates the users and feedback tables, including the
// unique indexes on email and on the (sender, recipient) pair.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Feedback{})
}

// SeedFromCSV loads the class roster from a "name,email" CSV file. Seeding
// only happens when the users table is empty, so re-running migration
// against a live database is harmless.
func SeedFromCSV(db *gorm.DB, path string) error {
	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logrus.Info("Users table already seeded, skipping.")
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return err
	}
	users := make([]domain.User, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue // Skip malformed rows
		}
		users = append(users, domain.User{
			Name:  strings.TrimSpace(rec[0]),
			Email: strings.ToLower(strings.TrimSpace(rec[1])), // Emails are stored lowercase
		})
	}
	if len(users) == 0 {
		logrus.Warn("Seed file contained no users.")
		return nil
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"count": len(users)}).Info("Database initialized and users seeded.")
	return nil
}
