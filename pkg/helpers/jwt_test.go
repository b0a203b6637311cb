package helpers

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)

	tok, exp, err := m.GenerateAccessToken("u1", "s1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if exp.Before(time.Now()) {
		t.Fatal("expiry in the past")
	}

	claims, err := m.ParseAccessToken(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.SessionID != "s1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)

	tok, _, err := m.GenerateRefreshToken("u1", "s1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ParseAccessToken(tok); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
	if _, err := m.ParseRefreshToken(tok); err != nil {
		t.Fatalf("refresh token rejected by its own parser: %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("access", "refresh", -time.Minute, 24*time.Hour)

	tok, _, err := m.GenerateAccessToken("u1", "s1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ParseAccessToken(tok); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)
	other := NewJWTManager("different", "secrets", time.Hour, 24*time.Hour)

	tok, _, err := other.GenerateAccessToken("u1", "s1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ParseAccessToken(tok); err == nil {
		t.Fatal("token signed with wrong secret accepted")
	}
}
