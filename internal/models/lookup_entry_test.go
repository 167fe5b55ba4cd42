package models

import "testing"

func TestValidLookupKind(t *testing.T) {
	tests := []struct {
		kind string
		want bool
	}{
		{KindMedicine, true},
		{KindDiagnosis, true},
		{KindPatient, true},
		{"doctor", false},
		{"Medicine", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			if got := ValidLookupKind(tt.kind); got != tt.want {
				t.Errorf("ValidLookupKind(%q) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}
