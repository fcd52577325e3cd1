package core

import (
	"testing"
	"time"

	"github.com/goccy/go-yaml"
)

func TestDate_DaysUntil(t *testing.T) {
	base := NewDate(2026, time.March, 1)

	tests := []struct {
		name  string
		other Date
		want  int
	}{
		{"Same Day", NewDate(2026, time.March, 1), 0},
		{"Next Day", NewDate(2026, time.March, 2), 1},
		{"Previous Day", NewDate(2026, time.February, 28), -1},
		{"Across Month", NewDate(2026, time.April, 1), 31},
		{"Across Year", NewDate(2027, time.March, 1), 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.DaysUntil(tt.other); got != tt.want {
				t.Errorf("DaysUntil() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDate_YAML(t *testing.T) {
	var rec struct {
		ExpiresAt *Date `yaml:"expires_at"`
	}
	if err := yaml.Unmarshal([]byte("expires_at: 2026-06-15\n"), &rec); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if rec.ExpiresAt == nil || rec.ExpiresAt.String() != "2026-06-15" {
		t.Errorf("ExpiresAt = %v, want 2026-06-15", rec.ExpiresAt)
	}
}

func TestDate_ParseRejectsGarbage(t *testing.T) {
	for _, input := range []string{"15.06.2026", "2026/06/15", "yesterday"} {
		if _, err := ParseDate(input); err == nil {
			t.Errorf("ParseDate(%q) should fail", input)
		}
	}
}

func TestDate_AddDays(t *testing.T) {
	d := NewDate(2026, time.February, 27).AddDays(2)
	if d.String() != "2026-03-01" {
		t.Errorf("AddDays(2) = %s, want 2026-03-01", d)
	}
}
