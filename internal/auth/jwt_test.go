package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTManagerIssueAndParse(t *testing.T) {
	m, err := NewJWTManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}

	token, issued, err := m.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if issued.ID == "" {
		t.Fatal("Issue() produced a token without jti")
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.UserID != 42 || claims.ID != issued.ID || claims.Subject != "42" {
		t.Errorf("Parse() claims = %+v, want user 42 with jti %s", claims, issued.ID)
	}

	_, second, err := m.Issue(42)
	if err != nil {
		t.Fatalf("second Issue() error = %v", err)
	}
	if second.ID == issued.ID {
		t.Error("two tokens share the same jti")
	}
}

func TestJWTManagerRejectsBadTokens(t *testing.T) {
	m, err := NewJWTManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	token, _, err := m.Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	expired, _ := NewJWTManager(testSecret, time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	other, _ := NewJWTManager(strings.Repeat("x", 32), time.Hour)
	foreignToken, _, _ := other.Issue(1)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	tests := map[string]string{
		"garbage":     "not-a-token",
		"tampered":    token[:len(token)-2] + "xx",
		"expired":     expiredToken,
		"foreign key": foreignToken,
		"alg none":    noneToken,
		"empty":       "",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Parse(tok); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestNewJWTManagerValidatesArguments(t *testing.T) {
	if _, err := NewJWTManager("", time.Hour); err == nil {
		t.Error("NewJWTManager() with empty secret returned nil error")
	}
	if _, err := NewJWTManager(testSecret, 0); err == nil {
		t.Error("NewJWTManager() with zero ttl returned nil error")
	}
}
