package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"attendance-engine/internal/engine"
	"attendance-engine/internal/roster"
	"attendance-engine/internal/timeclock"
)

// Open connects to Postgres and migrates the collaborator tables plus
// the engine's output tables.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&roster.ShiftTemplate{},
		&roster.ShiftAssignment{},
		&roster.Employee{},
		&timeclock.TimeEvent{},
		&engine.AttendanceRecord{},
		&engine.ExceptionRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}
