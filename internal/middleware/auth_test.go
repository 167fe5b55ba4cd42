package middleware

import "testing"

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{
			name:     "standard bearer",
			header:   "Bearer abc.def.ghi",
			expected: "abc.def.ghi",
		},
		{
			name:     "lowercase scheme",
			header:   "bearer abc.def.ghi",
			expected: "abc.def.ghi",
		},
		{
			name:     "mixed case scheme",
			header:   "BeArEr token123",
			expected: "token123",
		},
		{
			name:     "extra spaces around token",
			header:   "Bearer   token123  ",
			expected: "token123",
		},
		{
			name:     "empty header",
			header:   "",
			expected: "",
		},
		{
			name:     "scheme only",
			header:   "Bearer",
			expected: "",
		},
		{
			name:     "wrong scheme",
			header:   "Basic dXNlcjpwYXNz",
			expected: "",
		},
		{
			name:     "token without scheme",
			header:   "abc.def.ghi",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractBearerToken(tt.header)
			if got != tt.expected {
				t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.expected)
			}
		})
	}
}
