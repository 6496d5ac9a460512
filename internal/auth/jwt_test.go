package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/models"
)

func testUserAndTenant() (*models.GlobalUser, *models.Tenant) {
	tenant := &models.Tenant{
		ID:     uuid.New(),
		Name:   "Acme Physio",
		Slug:   "acme",
		Status: models.TenantStatusActive,
	}
	user := &models.GlobalUser{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		Email:    "admin@acme.com",
		Role:     string(RoleTenantAdmin),
		IsActive: true,
	}
	return user, tenant
}

func TestGenerateAndVerifyTokenPair(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	user, tenant := testUserAndTenant()

	access, refresh, err := m.GenerateTokenPair(user, tenant, PermissionsForRole(RoleTenantAdmin))
	if err != nil {
		t.Fatalf("GenerateTokenPair failed: %v", err)
	}

	claims, err := m.VerifyAccessToken(access, "acme")
	if err != nil {
		t.Fatalf("VerifyAccessToken failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("expected user ID %s, got %s", user.ID, claims.UserID)
	}
	if claims.TenantID != tenant.ID {
		t.Errorf("expected tenant ID %s, got %s", tenant.ID, claims.TenantID)
	}
	if claims.TenantSlug != "acme" {
		t.Errorf("expected tenant slug acme, got %s", claims.TenantSlug)
	}
	if !HasPermission(claims.Permissions, "patients:delete") {
		t.Error("tenant_admin token should carry the super-permission")
	}

	if _, err := m.VerifyRefreshToken(refresh, "acme"); err != nil {
		t.Fatalf("VerifyRefreshToken failed: %v", err)
	}
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	user, tenant := testUserAndTenant()

	access, _, err := m.GenerateTokenPair(user, tenant, nil)
	if err != nil {
		t.Fatalf("GenerateTokenPair failed: %v", err)
	}

	// Valid signature, wrong tenant: must be rejected as cross-tenant
	_, err = m.VerifyAccessToken(access, "other-clinic")
	if !errors.Is(err, apperrors.ErrCrossTenantToken) {
		t.Fatalf("expected ErrCrossTenantToken, got %v", err)
	}

	// No expected slug means audience is not checked
	if _, err := m.VerifyAccessToken(access, ""); err != nil {
		t.Fatalf("expected audience check to be skipped, got %v", err)
	}
}

func TestVerifyRejectsRefreshTokenAsAccessToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	user, tenant := testUserAndTenant()

	_, refresh, err := m.GenerateTokenPair(user, tenant, nil)
	if err != nil {
		t.Fatalf("GenerateTokenPair failed: %v", err)
	}

	if _, err := m.VerifyAccessToken(refresh, "acme"); !errors.Is(err, apperrors.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for issuer mismatch, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute, -time.Minute)
	user, tenant := testUserAndTenant()

	access, _, err := m.GenerateTokenPair(user, tenant, nil)
	if err != nil {
		t.Fatalf("GenerateTokenPair failed: %v", err)
	}

	if _, err := m.VerifyAccessToken(access, "acme"); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRejectsGarbageAndForeignSignature(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour, 24*time.Hour)

	if _, err := m.VerifyAccessToken("not-a-token", ""); !errors.Is(err, apperrors.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}

	other := NewTokenManager("another-secret", time.Hour, 24*time.Hour)
	user, tenant := testUserAndTenant()
	access, _, err := other.GenerateTokenPair(user, tenant, nil)
	if err != nil {
		t.Fatalf("GenerateTokenPair failed: %v", err)
	}

	if _, err := m.VerifyAccessToken(access, "acme"); !errors.Is(err, apperrors.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for foreign signature, got %v", err)
	}
}
