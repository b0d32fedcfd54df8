package timeclock

import (
	"fmt"
	"time"
)

// EventType defines the objective nature of a punch.
type EventType string

const (
	// ClockIn marks the start of a working span.
	ClockIn EventType = "ClockIn"
	// ClockOut marks the end of a working span.
	ClockOut EventType = "ClockOut"
	// StartBreak marks the beginning of a break.
	StartBreak EventType = "StartBreak"
	// EndBreak marks the end of a break.
	EndBreak EventType = "EndBreak"
)

// EventSource identifies how a punch entered the system.
type EventSource string

const (
	// SourceDevice is a punch captured by a clock terminal.
	SourceDevice EventSource = "Device"
	// SourceManual is a punch entered by hand after the fact.
	SourceManual EventSource = "Manual"
)

// TimeEvent is a single immutable punch. Events are created by the
// external clock-in collaborator and never mutated by this engine.
type TimeEvent struct {
	ID         string      `json:"id" gorm:"column:id;primaryKey"`
	EmployeeID string      `json:"employeeId" gorm:"column:employee_id;index"`
	Timestamp  time.Time   `json:"ts" gorm:"column:ts;type:timestamptz;index"`
	Type       EventType   `json:"type" gorm:"column:type"`
	Source     EventSource `json:"source" gorm:"column:source"`
	Latitude   *float64    `json:"lat,omitempty" gorm:"column:latitude"`
	Longitude  *float64    `json:"lng,omitempty" gorm:"column:longitude"`
}

func (TimeEvent) TableName() string {
	return "time_events"
}

// identity computes a unique string identifier for an event to aid deduplication.
func (e TimeEvent) identity() string {
	return fmt.Sprintf("%s|%d|%s|%s",
		e.EmployeeID,
		e.Timestamp.UnixMicro(),
		e.Type,
		e.Source,
	)
}
