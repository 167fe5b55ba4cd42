package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndVerifyPair(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Minute, time.Hour)
	doctorID := uuid.New()

	access, refresh, err := issuer.IssuePair(doctorID)
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}
	if access == refresh {
		t.Error("access and refresh tokens are identical")
	}

	got, err := issuer.Verify(access, TokenAccess)
	if err != nil {
		t.Fatalf("Verify(access) error = %v", err)
	}
	if got != doctorID {
		t.Errorf("Verify(access) = %v, want %v", got, doctorID)
	}

	got, err = issuer.Verify(refresh, TokenRefresh)
	if err != nil {
		t.Fatalf("Verify(refresh) error = %v", err)
	}
	if got != doctorID {
		t.Errorf("Verify(refresh) = %v, want %v", got, doctorID)
	}
}

func TestVerifyWrongType(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Minute, time.Hour)

	access, refresh, err := issuer.IssuePair(uuid.New())
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}

	if _, err := issuer.Verify(access, TokenRefresh); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("Verify(access as refresh) error = %v, want ErrWrongTokenType", err)
	}
	if _, err := issuer.Verify(refresh, TokenAccess); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("Verify(refresh as access) error = %v, want ErrWrongTokenType", err)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Minute, time.Hour)
	other := NewIssuer("other-secret", time.Minute, time.Hour)

	access, _, err := other.IssuePair(uuid.New())
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", access},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Verify(tt.token, TokenAccess); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", tt.name, err)
			}
		})
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute, time.Hour)

	access, _, err := issuer.IssuePair(uuid.New())
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}

	if _, err := issuer.Verify(access, TokenAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(expired) error = %v, want ErrInvalidToken", err)
	}
}
