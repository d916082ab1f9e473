package helper

import (
	"errors"
	"testing"
	"time"

	"github.com/novatube/user-service/internal/domain"
)

func testAuth() Auth {
	return SetupAuth("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func testUser() *domain.User {
	return &domain.User{
		ID:       42,
		Username: "alice",
		Email:    "a@x.com",
		Fullname: "Alice A",
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	a := testAuth()
	tok, err := a.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	claims, err := a.VerifyAccessToken(tok)
	if err != nil {
		t.Fatalf("VerifyAccessToken error: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.Email != "a@x.com" || claims.Fullname != "Alice A" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestAccessToken_Bearer(t *testing.T) {
	t.Parallel()

	a := testAuth()
	tok, err := a.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	claims, err := a.VerifyAccessToken("Bearer " + tok)
	if err != nil {
		t.Fatalf("VerifyAccessToken with bearer prefix error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	a := SetupAuth("access-secret", "refresh-secret", -time.Second, time.Hour)
	tok, err := a.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	_, err = a.VerifyAccessToken(tok)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	a := testAuth()
	tok, err := a.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	other := SetupAuth("other-secret", "refresh-secret", time.Minute, time.Hour)
	_, err = other.VerifyAccessToken(tok)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	a := testAuth()
	tok, err := a.GenerateRefreshToken(42)
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}

	claims, err := a.VerifyRefreshToken(tok)
	if err != nil {
		t.Fatalf("VerifyRefreshToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("userID mismatch: got %d want 42", claims.UserID)
	}
}

func TestRefreshToken_NotValidAsAccessToken(t *testing.T) {
	t.Parallel()

	a := testAuth()
	tok, err := a.GenerateRefreshToken(42)
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}

	if _, err := a.VerifyAccessToken(tok); err == nil {
		t.Fatalf("refresh token accepted by access verification")
	}
}

func TestRefreshToken_UniquePerMint(t *testing.T) {
	t.Parallel()

	a := testAuth()
	first, err := a.GenerateRefreshToken(42)
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}
	second, err := a.GenerateRefreshToken(42)
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}
	if first == second {
		t.Fatalf("two minted refresh tokens are identical")
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	a := testAuth()
	if _, err := a.VerifyAccessToken("not.a.jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := a.VerifyRefreshToken(""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for empty token, got %v", err)
	}
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	a := testAuth()
	digest, err := a.HashPassword("p1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if digest == "p1" {
		t.Fatalf("digest equals the plaintext")
	}

	if err := a.VerifyPassword("p1", digest); err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if err := a.VerifyPassword("p2", digest); err == nil {
		t.Fatalf("wrong password accepted")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	t.Parallel()

	a := testAuth()
	if _, err := a.HashPassword("   "); err == nil {
		t.Fatalf("expected error for blank password")
	}
}

func TestStripBearer(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"  Bearer   abc  ", "abc"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, c := range cases {
		if got := StripBearer(c.in); got != c.want {
			t.Fatalf("StripBearer(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
