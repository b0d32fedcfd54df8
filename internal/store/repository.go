package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"attendance-engine/internal/engine"
	"attendance-engine/internal/roster"
	"attendance-engine/internal/timeclock"
)

// ErrNotFound is returned when a lifecycle operation targets a row
// that does not exist.
var ErrNotFound = errors.New("not found")

const defaultBatchSize = 500

// Repository is the persistence boundary around the engine. The engine
// itself only ever sees slices; everything stateful lives here.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Templates returns all shift templates, validated at load time so the
// engine can assume well-formed time-of-day strings.
func (r *Repository) Templates(ctx context.Context) ([]roster.ShiftTemplate, error) {
	var rows []roster.ShiftTemplate
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load shift templates: %w", err)
	}
	for _, tmpl := range rows {
		if err := roster.ValidateTemplate(tmpl); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// Assignments returns shift assignments dated within [from, to].
func (r *Repository) Assignments(ctx context.Context, from, to time.Time) ([]roster.ShiftAssignment, error) {
	var rows []roster.ShiftAssignment
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("employee_id, date").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shift assignments: %w", err)
	}
	return rows, nil
}

// Events returns time events stamped within [from, to). The window is
// half-open so consecutive batch runs do not double-read boundary
// punches.
func (r *Repository) Events(ctx context.Context, from, to time.Time) ([]timeclock.TimeEvent, error) {
	var rows []timeclock.TimeEvent
	err := r.db.WithContext(ctx).
		Where("ts >= ? AND ts < ?", from, to).
		Order("employee_id, ts").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load time events: %w", err)
	}
	return rows, nil
}

// Employees returns the directory rows.
func (r *Repository) Employees(ctx context.Context) ([]roster.Employee, error) {
	var rows []roster.Employee
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	return rows, nil
}

// Exceptions returns exception records dated within [from, to].
func (r *Repository) Exceptions(ctx context.Context, from, to time.Time) ([]engine.ExceptionRecord, error) {
	var rows []engine.ExceptionRecord
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("employee_id, date, type, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load exceptions: %w", err)
	}
	return rows, nil
}

// UpsertRecords persists a run's attendance records. Everything is
// overwritten from the fresh computation except the lifecycle status,
// which is an external annotation layered on top of the engine output.
func (r *Repository) UpsertRecords(ctx context.Context, rows []engine.AttendanceRecord) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"scheduled_start", "scheduled_end", "shift_name",
			"first_in", "last_out",
			"total_work_minutes", "break_minutes", "overtime_minutes",
			"tags", "has_manual_entry",
		}),
	}).CreateInBatches(rows, defaultBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to upsert attendance records: %w", err)
	}
	return nil
}

// UpsertExceptions persists a run's exceptions, preserving any
// acknowledgement a reviewer has already applied.
func (r *Repository) UpsertExceptions(ctx context.Context, rows []engine.ExceptionRecord) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"details", "source_event_id",
		}),
	}).CreateInBatches(rows, defaultBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to upsert exceptions: %w", err)
	}
	return nil
}

// AcknowledgeException applies the one-way Pending -> Acknowledged
// transition on behalf of a reviewer.
func (r *Repository) AcknowledgeException(ctx context.Context, id string) error {
	var row engine.ExceptionRecord
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("exception %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to load exception %s: %w", id, err)
	}

	if err := engine.TransitionException(row.Status, engine.ExceptionAcknowledged); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&engine.ExceptionRecord{}).
		Where("id = ?", id).
		Update("status", engine.ExceptionAcknowledged).Error
}

// TransitionRecordStatus moves a daily record through its review
// lifecycle after validating the transition.
func (r *Repository) TransitionRecordStatus(ctx context.Context, id string, to engine.RecordStatus) error {
	var row engine.AttendanceRecord
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("record %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to load record %s: %w", id, err)
	}

	if err := engine.TransitionRecord(row.Status, to); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&engine.AttendanceRecord{}).
		Where("id = ?", id).
		Update("status", to).Error
}
