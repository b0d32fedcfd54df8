package roster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DayOffName is the sentinel template name for a non-working day.
// A day-off template carries no scheduled window.
const DayOffName = "Day Off"

// ShiftTemplate is a reusable schedule definition configured by HR
// administration. The engine treats templates as read-only input.
type ShiftTemplate struct {
	ID                 string `json:"id" gorm:"column:id;primaryKey" validate:"required"`
	Name               string `json:"name" gorm:"column:name" validate:"required"`
	StartTime          string `json:"startTime" gorm:"column:start_time" validate:"omitempty,datetime=15:04"`
	EndTime            string `json:"endTime" gorm:"column:end_time" validate:"omitempty,datetime=15:04"`
	BreakMinutes       int    `json:"breakMinutes" gorm:"column:break_minutes" validate:"gte=0"`
	GracePeriodMinutes int    `json:"gracePeriodMinutes" gorm:"column:grace_period_minutes" validate:"gte=0"`
}

func (ShiftTemplate) TableName() string {
	return "shift_templates"
}

// IsDayOff reports whether the template is the day-off sentinel.
func (t ShiftTemplate) IsDayOff() bool {
	return strings.EqualFold(strings.TrimSpace(t.Name), DayOffName)
}

var validate = validator.New()

// ValidateTemplate checks a template at load time. Malformed
// time-of-day strings are a hard error here so the engine itself can
// assume well-formed input downstream.
func ValidateTemplate(t ShiftTemplate) error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("template %q invalid: %w", t.ID, err)
	}
	if t.IsDayOff() {
		return nil
	}
	if t.StartTime == "" || t.EndTime == "" {
		return fmt.Errorf("template %q invalid: working template requires start and end times", t.ID)
	}
	return nil
}

// MinutesOfDay parses an "HH:MM" time-of-day string into minutes since
// midnight. It is the single parsing point for template times; all
// schedule arithmetic downstream works on resolved absolute timestamps.
func MinutesOfDay(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed time of day %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return h*60 + m, nil
}
