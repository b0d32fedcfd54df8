package roster

import "testing"

func TestMinutesOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"22:30", 1350, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9am", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := MinutesOfDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("MinutesOfDay(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("MinutesOfDay(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("MinutesOfDay(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestValidateTemplate(t *testing.T) {
	valid := ShiftTemplate{ID: "T-1", Name: "Office", StartTime: "09:00", EndTime: "18:00", BreakMinutes: 60, GracePeriodMinutes: 10}
	if err := ValidateTemplate(valid); err != nil {
		t.Errorf("Expected valid template, got %v", err)
	}

	// Day-off templates carry no window at all.
	if err := ValidateTemplate(ShiftTemplate{ID: "T-2", Name: "Day Off"}); err != nil {
		t.Errorf("Day-off template must validate without times, got %v", err)
	}

	bad := []ShiftTemplate{
		{ID: "T-3", Name: "Broken", StartTime: "25:00", EndTime: "18:00"},
		{ID: "T-4", Name: "Broken", StartTime: "09:00"},
		{ID: "T-5", Name: "Broken", StartTime: "09:00", EndTime: "18:00", BreakMinutes: -5},
		{ID: "", Name: "NoID", StartTime: "09:00", EndTime: "18:00"},
	}
	for _, tmpl := range bad {
		if err := ValidateTemplate(tmpl); err == nil {
			t.Errorf("Expected template %q/%q to fail validation", tmpl.ID, tmpl.Name)
		}
	}
}

func TestIsDayOff_CaseInsensitive(t *testing.T) {
	for _, name := range []string{"Day Off", "day off", "DAY OFF", " Day Off "} {
		if !(ShiftTemplate{Name: name}).IsDayOff() {
			t.Errorf("Expected %q to match the day-off sentinel", name)
		}
	}
	if (ShiftTemplate{Name: "Office"}).IsDayOff() {
		t.Error("Office must not match the day-off sentinel")
	}
}

func TestDirectory_UnknownFallback(t *testing.T) {
	d := NewDirectory([]Employee{{ID: "E-1", FullName: "Amara Velez"}})
	if got := d.DisplayName("E-1"); got != "Amara Velez" {
		t.Errorf("Unexpected display name: %q", got)
	}
	if got := d.DisplayName("E-404"); got != "Unknown" {
		t.Errorf("Unknown employees must render as placeholder, got %q", got)
	}
}
