package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSecret signs tokens minted by the fake API and MintToken.
// The client never verifies it.
const TokenSecret = "taskdash-test-secret"

// MintToken returns an HS256 token carrying sub, role and exp.
func MintToken(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()

	token, err := signToken(sub, role, exp)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}

func signToken(sub, role string, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  exp.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TokenSecret))
}

// MintTokenWithoutExp returns a signed token with no exp claim.
func MintTokenWithoutExp(t *testing.T, sub, role string) string {
	t.Helper()

	claims := jwt.MapClaims{"sub": sub, "role": role}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TokenSecret))
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}
