package database

import (
	"log"

	"espacios-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Space{}, &models.Reservation{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Exclusion constraint: the database-level backstop for the overlap
	// guard. A booking race that slips past the row lock surfaces as
	// SQLSTATE 23P01 instead of committing an overlap. Bounds are closed,
	// matching the guard. The columns migrate as timestamptz, so the
	// range must be tstzrange.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		log.Fatalf("failed to create btree_gist extension: %v", err)
	}
	if err := db.Exec(`
		DO $$ BEGIN
			ALTER TABLE reservations ADD CONSTRAINT reservations_no_overlap
			EXCLUDE USING gist (
				space_id WITH =,
				tstzrange(starts_at, ends_at, '[]') WITH &&
			) WHERE (status <> 'cancelada');
		EXCEPTION WHEN duplicate_table OR duplicate_object THEN NULL;
		END $$
	`).Error; err != nil {
		log.Fatalf("failed to create overlap exclusion constraint: %v", err)
	}

	return db
}
