package validation

import (
	"regexp"
	"strings"
	"time"
)

// UsernamePattern defines the valid username format: alphanumeric, hyphens, underscores.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// EmailPattern is a pragmatic email shape check, not a full RFC 5322 parser.
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// PhonePattern allows digits, spaces, hyphens, parentheses, and a leading plus.
var PhonePattern = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ValidateUsername checks if a username matches the allowed pattern.
func ValidateUsername(username string) bool {
	if len(username) < 3 || len(username) > 50 {
		return false
	}
	return UsernamePattern.MatchString(username)
}

// ValidateEmail checks if an email address has a plausible shape.
func ValidateEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	return EmailPattern.MatchString(email)
}

// ValidatePhone checks an optional phone number. Empty is accepted.
func ValidatePhone(phone string) bool {
	if phone == "" {
		return true
	}
	return PhonePattern.MatchString(phone)
}

// ValidatePassword enforces the minimum password policy.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 72 {
		// bcrypt truncates past 72 bytes
		return false, "Password must be at most 72 characters"
	}
	return true, ""
}

// ValidateName checks a required human name field.
func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= 100
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ValidateTimeRange checks that a range is well formed: start before end,
// and no longer than maxSpan when maxSpan is positive.
func ValidateTimeRange(start, end time.Time, maxSpan time.Duration) (bool, string) {
	if start.IsZero() || end.IsZero() {
		return false, "Start and end times are required"
	}
	if !end.After(start) {
		return false, "End time must be after start time"
	}
	if maxSpan > 0 && end.Sub(start) > maxSpan {
		return false, "Time range is too long"
	}
	return true, ""
}
