package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/models"
)

// Issuer values distinguish access tokens from refresh tokens so one
// can never be presented in place of the other.
const (
	IssuerAccess  = "physiohub-access"
	IssuerRefresh = "physiohub-refresh"
)

// Claims represents the tenant-scoped JWT claims. The audience is the
// tenant slug the token was issued against.
type Claims struct {
	jwt.RegisteredClaims
	UserID      uuid.UUID  `json:"user_id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	TenantSlug  string     `json:"tenant_slug"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
	HospitalID  *uuid.UUID `json:"hospital_id,omitempty"`
	ServiceID   *uuid.UUID `json:"service_id,omitempty"`
}

// TokenManager issues and verifies tenant-scoped JWT pairs
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager creates a new token manager
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateTokenPair issues an access and a refresh token for the user,
// both bound to the tenant via the audience claim
func (m *TokenManager) GenerateTokenPair(user *models.GlobalUser, tenant *models.Tenant, permissions []string) (string, string, error) {
	now := time.Now()

	accessClaims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{tenant.Slug},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    IssuerAccess,
			ID:        uuid.New().String(),
		},
		UserID:      user.ID,
		TenantID:    tenant.ID,
		TenantSlug:  tenant.Slug,
		Role:        user.Role,
		Permissions: permissions,
		HospitalID:  user.HospitalID,
		ServiceID:   user.ServiceID,
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshClaims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{tenant.Slug},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    IssuerRefresh,
			ID:        uuid.New().String(),
		},
		UserID:     user.ID,
		TenantID:   tenant.ID,
		TenantSlug: tenant.Slug,
		Role:       user.Role,
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// VerifyAccessToken verifies signature, issuer and expiry of an access
// token. When expectedTenantSlug is non-empty, the audience must match
// or the token is rejected as cross-tenant.
func (m *TokenManager) VerifyAccessToken(tokenString, expectedTenantSlug string) (*Claims, error) {
	return m.verify(tokenString, IssuerAccess, expectedTenantSlug)
}

// VerifyRefreshToken verifies a refresh token the same way
func (m *TokenManager) VerifyRefreshToken(tokenString, expectedTenantSlug string) (*Claims, error) {
	return m.verify(tokenString, IssuerRefresh, expectedTenantSlug)
}

func (m *TokenManager) verify(tokenString, issuer, expectedTenantSlug string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.ErrTokenExpired
		default:
			return nil, apperrors.ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenMalformed
	}

	if expectedTenantSlug != "" && !audienceContains(claims.Audience, expectedTenantSlug) {
		return nil, apperrors.ErrCrossTenantToken
	}

	return claims, nil
}

func audienceContains(aud jwt.ClaimStrings, slug string) bool {
	for _, a := range aud {
		if a == slug {
			return true
		}
	}
	return false
}
