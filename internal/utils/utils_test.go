package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordClampsBadCost(t *testing.T) {
	hash, err := HashPassword("s3cret", 0)
	if err != nil {
		t.Fatalf("HashPassword with zero cost: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d, want default %d", cost, bcrypt.DefaultCost)
	}
}

func TestAccessTokenCarriesClaims(t *testing.T) {
	at, err := NewAccessToken("secret", 7, "frontdesk", "STAFF", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse signed token: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["username"] != "frontdesk" || claims["role"] != "STAFF" {
		t.Fatalf("claims = %v", claims)
	}
	if claims["sub"].(float64) != 7 {
		t.Fatalf("sub = %v, want 7", claims["sub"])
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Fatalf("raw token length = %d, want 96 hex chars", len(rt.Raw))
	}
	other, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if rt.Raw == other.Raw {
		t.Fatal("two refresh tokens are identical")
	}
	if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
		t.Fatal("hash is not deterministic")
	}
	if HashRefreshRaw(rt.Raw) == rt.Raw {
		t.Fatal("hash equals raw token")
	}
	if len(HashRefreshRaw(rt.Raw)) != 64 {
		t.Fatalf("hash length = %d, want 64", len(HashRefreshRaw(rt.Raw)))
	}
}
