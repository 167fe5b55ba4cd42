package validation

import (
	"strings"
	"testing"
	"time"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"valid alphanumeric", "drsmith1", true},
		{"valid with hyphen", "dr-smith", true},
		{"valid with underscore", "dr_smith", true},
		{"valid mixed case", "DrSmith", true},
		{"empty string", "", false},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", 51), false},
		{"max length", strings.Repeat("a", 50), true},
		{"contains space", "dr smith", false},
		{"contains dot", "dr.smith", false},
		{"contains at sign", "dr@smith", false},
		{"unicode", "日本語ユーザ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateUsername(tt.username)
			if got != tt.want {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, got, tt.want)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"valid", "doctor@clinic.example", true},
		{"valid with plus", "doctor+tag@clinic.example", true},
		{"valid subdomain", "a@mail.clinic.example", true},
		{"empty", "", false},
		{"missing at", "doctor.clinic.example", false},
		{"missing domain", "doctor@", false},
		{"missing tld", "doctor@clinic", false},
		{"contains space", "doc tor@clinic.example", false},
		{"double at", "doctor@@clinic.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateEmail(tt.email)
			if got != tt.want {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"empty is allowed", "", true},
		{"digits", "0812345678", true},
		{"international", "+66 81 234 5678", true},
		{"with parens", "(02) 123-4567", true},
		{"too short", "123", false},
		{"letters", "CALL-ME-NOW", false},
		{"too long", strings.Repeat("1", 21), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePhone(tt.phone)
			if got != tt.want {
				t.Errorf("ValidatePhone(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid", "correct-horse", true},
		{"exactly 8", "12345678", true},
		{"too short", "1234567", false},
		{"empty", "", false},
		{"too long", strings.Repeat("x", 73), false},
		{"max length", strings.Repeat("x", 72), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := ValidatePassword(tt.password)
			if got != tt.want {
				t.Errorf("ValidatePassword(%q) = %v (%q), want %v", tt.password, got, msg, tt.want)
			}
			if !got && msg == "" {
				t.Error("invalid password returned empty message")
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("1990-04-15")
	if !ok {
		t.Fatal("ParseDate(1990-04-15) not ok")
	}
	if got.Year() != 1990 || got.Month() != time.April || got.Day() != 15 {
		t.Errorf("ParseDate(1990-04-15) = %v", got)
	}

	for _, bad := range []string{"", "15/04/1990", "1990-13-01", "yesterday"} {
		if _, ok := ParseDate(bad); ok {
			t.Errorf("ParseDate(%q) ok, want failure", bad)
		}
	}
}

func TestValidateTimeRange(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		maxSpan time.Duration
		want    bool
	}{
		{"valid half hour", base, base.Add(30 * time.Minute), 8 * time.Hour, true},
		{"zero start", time.Time{}, base, 0, false},
		{"zero end", base, time.Time{}, 0, false},
		{"end equals start", base, base, 0, false},
		{"end before start", base.Add(time.Hour), base, 0, false},
		{"exceeds max span", base, base.Add(9 * time.Hour), 8 * time.Hour, false},
		{"no max span", base, base.Add(100 * time.Hour), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := ValidateTimeRange(tt.start, tt.end, tt.maxSpan)
			if got != tt.want {
				t.Errorf("ValidateTimeRange(%s) = %v (%q), want %v", tt.name, got, msg, tt.want)
			}
		})
	}
}
