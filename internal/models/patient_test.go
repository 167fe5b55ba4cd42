package models

import (
	"testing"
	"time"
)

func TestPatient_FullName(t *testing.T) {
	p := &Patient{FirstName: "Jane", LastName: "Doe"}
	if got := p.FullName(); got != "Jane Doe" {
		t.Errorf("FullName() = %q, want %q", got, "Jane Doe")
	}
}

func TestPatient_Age(t *testing.T) {
	dob := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	p := &Patient{DateOfBirth: dob}

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"day before birthday", time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC), 35},
		{"on birthday", time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), 36},
		{"day after birthday", time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC), 36},
		{"same year as birth", time.Date(1990, 12, 1, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Age(tt.at); got != tt.want {
				t.Errorf("Age(%v) = %d, want %d", tt.at, got, tt.want)
			}
		})
	}
}
