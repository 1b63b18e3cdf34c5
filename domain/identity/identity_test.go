package identity_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"worktrack/services/messaging/domain/identity"
	"worktrack/services/messaging/utils/platformerrors"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestFromToken(t *testing.T) {
	tests := []struct {
		name     string
		claims   jwt.MapClaims
		expected identity.Identity
		wantErr  bool
	}{
		{
			name:     "admin user",
			claims:   jwt.MapClaims{"sub": "7", "role": "admin"},
			expected: identity.Identity{UserID: 7, Role: "admin"},
		},
		{
			name:     "plain user without role",
			claims:   jwt.MapClaims{"sub": "42"},
			expected: identity.Identity{UserID: 42},
		},
		{
			name:    "missing subject",
			claims:  jwt.MapClaims{"role": "admin"},
			wantErr: true,
		},
		{
			name:    "non-numeric subject",
			claims:  jwt.MapClaims{"sub": "alice"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := identity.FromToken(signToken(t, tt.claims))
			if tt.wantErr {
				if !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
					t.Fatalf("FromToken() error = %v, want VALIDATION", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromToken() unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("FromToken() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestFromToken_Garbage(t *testing.T) {
	if _, err := identity.FromToken("not-a-jwt"); !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("FromToken() error = %v, want VALIDATION", err)
	}
}

func TestIsAdmin(t *testing.T) {
	if !(identity.Identity{UserID: 1, Role: "Admin"}).IsAdmin() {
		t.Errorf("role matching must be case-insensitive")
	}
	if (identity.Identity{UserID: 1, Role: "employee"}).IsAdmin() {
		t.Errorf("employee must not be admin")
	}
}
