package roster

// Employee is a directory row used for display names only; no
// reconciliation rule reads it.
type Employee struct {
	ID       string `json:"id" gorm:"column:id;primaryKey"`
	FullName string `json:"fullName" gorm:"column:full_name"`
}

func (Employee) TableName() string {
	return "employees"
}

// Directory resolves employee ids to display names.
type Directory map[string]string

// NewDirectory builds a Directory from directory rows.
func NewDirectory(employees []Employee) Directory {
	d := make(Directory, len(employees))
	for _, e := range employees {
		d[e.ID] = e.FullName
	}
	return d
}

// DisplayName returns the employee's name, or "Unknown" when the id is
// not in the directory. A failed lookup never aborts a run.
func (d Directory) DisplayName(id string) string {
	if name, ok := d[id]; ok && name != "" {
		return name
	}
	return "Unknown"
}
