package roster

import "time"

// ShiftAssignment binds an employee to a shift template on a specific
// calendar date. Well-formed data carries one assignment per
// (employee, date); the engine does not enforce that uniqueness and
// processes each assignment independently.
type ShiftAssignment struct {
	ID              string    `json:"id" gorm:"column:id;primaryKey"`
	EmployeeID      string    `json:"employeeId" gorm:"column:employee_id;index"`
	Date            time.Time `json:"date" gorm:"column:date;type:date;index"`
	ShiftTemplateID string    `json:"shiftTemplateId" gorm:"column:shift_template_id"`
	LocationID      *string   `json:"locationId,omitempty" gorm:"column:location_id"`
}

func (ShiftAssignment) TableName() string {
	return "shift_assignments"
}

// DayKey returns the canonical bucket key for the assignment's date.
func (a ShiftAssignment) DayKey() string {
	return a.Date.Format("2006-01-02")
}
