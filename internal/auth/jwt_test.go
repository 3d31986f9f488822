package auth

import (
	"testing"
	"time"

	"reviewroute/config"
	"reviewroute/internal/domain"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "reviewroute"}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateToken(cfg, "biz-1", "owner@example.com", domain.RoleOwner)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if claims.BusinessID != "biz-1" || claims.Email != "owner@example.com" || claims.Role != domain.RoleOwner {
		t.Fatalf("claims = %+v, want biz-1/owner@example.com/OWNER", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(testJWTConfig(), "", "admin@example.com", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	other := &config.JWTConfig{Secret: "different", Expiry: time.Hour, Issuer: "reviewroute"}
	if _, err := ParseToken(other, token); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}
