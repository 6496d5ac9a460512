package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/auth"
	"github.com/physiohub/physiohub-server/internal/cache"
	"github.com/physiohub/physiohub-server/internal/metrics"
	"github.com/physiohub/physiohub-server/internal/models"
	"github.com/physiohub/physiohub-server/internal/repository"
)

// AuthService authenticates users against their tenant and manages
// tenant-scoped token pairs
type AuthService struct {
	tenants TenantStore
	users   UserStore
	audits  AuditStore
	tokens  *auth.TokenManager
	cache   cache.Cache
}

// NewAuthService creates a new auth service
func NewAuthService(tenants TenantStore, users UserStore, audits AuditStore, tokens *auth.TokenManager, c cache.Cache) *AuthService {
	return &AuthService{
		tenants: tenants,
		users:   users,
		audits:  audits,
		tokens:  tokens,
		cache:   c,
	}
}

// LoginResult is the response to a successful authentication
type LoginResult struct {
	Token        string             `json:"token"`
	RefreshToken string             `json:"refresh_token"`
	User         *models.GlobalUser `json:"user"`
	Tenant       *models.TenantInfo `json:"tenant"`
}

// TokenPair is a freshly issued access/refresh token pair
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// ValidationResult reports the outcome of a non-throwing token check
type ValidationResult struct {
	Valid       bool     `json:"valid"`
	Error       string   `json:"error,omitempty"`
	UserID      string   `json:"user_id,omitempty"`
	TenantID    string   `json:"tenant_id,omitempty"`
	TenantSlug  string   `json:"tenant_slug,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Authenticate verifies an (email, password, tenantSlug) triple and
// issues a token pair bound to the tenant.
//
// Unknown email and wrong password are indistinguishable to the caller:
// both return the same InvalidCredentials error, and the missing-user
// path still burns a hash comparison so timing does not leak which
// check failed.
func (s *AuthService) Authenticate(ctx context.Context, email, password, tenantSlug, ipAddress string) (*LoginResult, error) {
	tenant, err := s.tenants.GetBySlugOrSubdomain(ctx, tenantSlug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.Logins.WithLabelValues("tenant_not_found").Inc()
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, err
	}
	if !tenant.IsServiceable() {
		metrics.Logins.WithLabelValues("tenant_inactive").Inc()
		return nil, apperrors.ErrTenantNotFound
	}

	user, err := s.users.GetByEmailAndTenant(ctx, email, tenant.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.VerifyDummyPassword(password)
			s.recordAuth(tenant, nil, email, "login", ipAddress, "failure", "unknown user")
			metrics.Logins.WithLabelValues("failure").Inc()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive || !auth.VerifyPassword(password, user.PasswordHash) {
		s.recordAuth(tenant, user, email, "login", ipAddress, "failure", "bad credentials")
		metrics.Logins.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	permissions := auth.PermissionsForRole(auth.Role(user.Role))

	token, refreshToken, err := s.tokens.GenerateTokenPair(user, tenant, permissions)
	if err != nil {
		return nil, err
	}

	s.recordAuth(tenant, user, email, "login", ipAddress, "success", "")
	s.touchLastLogin(user)
	metrics.Logins.WithLabelValues("success").Inc()

	return &LoginResult{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user,
		Tenant:       tenant.Info(),
	}, nil
}

// Refresh exchanges a refresh token for a new pair. The user and tenant
// are re-verified at refresh time: a deactivated user or a suspended
// tenant cannot mint new access tokens from a still-valid refresh
// token, and revoked tokens are rejected via the denylist.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, tenantSlug string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken, tenantSlug)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("invalid_token").Inc()
		return nil, err
	}

	if revoked, err := s.cache.Exists(ctx, cache.RevocationKey(claims.ID)); err == nil && revoked {
		metrics.TokenRefreshes.WithLabelValues("revoked").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.TokenRefreshes.WithLabelValues("user_gone").Inc()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		metrics.TokenRefreshes.WithLabelValues("user_inactive").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	tenant, err := s.tenants.GetByID(ctx, claims.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.TokenRefreshes.WithLabelValues("tenant_gone").Inc()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !tenant.IsServiceable() {
		metrics.TokenRefreshes.WithLabelValues("tenant_inactive").Inc()
		return nil, apperrors.ErrTenantInactive.WithMessage(
			"tenant is " + string(tenant.Status))
	}

	permissions := auth.PermissionsForRole(auth.Role(user.Role))

	token, newRefreshToken, err := s.tokens.GenerateTokenPair(user, tenant, permissions)
	if err != nil {
		return nil, err
	}

	metrics.TokenRefreshes.WithLabelValues("success").Inc()
	return &TokenPair{Token: token, RefreshToken: newRefreshToken}, nil
}

// Validate checks an access token without ever failing the request;
// invalid tokens yield Valid=false with an error string
func (s *AuthService) Validate(ctx context.Context, token, tenantSlug string) *ValidationResult {
	claims, err := s.tokens.VerifyAccessToken(token, tenantSlug)
	if err != nil {
		return &ValidationResult{Valid: false, Error: apperrors.FromError(err).Code}
	}

	return &ValidationResult{
		Valid:       true,
		UserID:      claims.UserID.String(),
		TenantID:    claims.TenantID.String(),
		TenantSlug:  claims.TenantSlug,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}
}

// Logout revokes a refresh token by denylisting its ID until it would
// have expired anyway
func (s *AuthService) Logout(ctx context.Context, refreshToken, tenantSlug string) error {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken, tenantSlug)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, cache.RevocationKey(claims.ID), []byte("1"), ttl); err != nil {
		return err
	}
	return nil
}

// recordAuth writes an audit entry without blocking the request
func (s *AuthService) recordAuth(tenant *models.Tenant, user *models.GlobalUser, email, action, ipAddress, status, errMsg string) {
	entry := &models.AuthAuditLog{
		TenantID:     tenant.ID,
		Email:        email,
		Action:       action,
		IPAddress:    ipAddress,
		Status:       status,
		ErrorMessage: errMsg,
	}
	if user != nil {
		entry.UserID = user.ID
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.audits.Create(ctx, entry); err != nil {
			log.Warn().Err(err).Str("action", action).Msg("Failed to write auth audit log")
		}
	}()
}

// touchLastLogin updates lastLoginAt, fire-and-forget
func (s *AuthService) touchLastLogin(user *models.GlobalUser) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to update last login")
		}
	}()
}
