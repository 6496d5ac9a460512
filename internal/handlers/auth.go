package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/middleware"
	"github.com/physiohub/physiohub-server/internal/services"
)

// Authenticator is the slice of the auth service the handler needs
type Authenticator interface {
	Authenticate(ctx context.Context, email, password, tenantSlug, ipAddress string) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken, tenantSlug string) (*services.TokenPair, error)
	Validate(ctx context.Context, token, tenantSlug string) *services.ValidationResult
	Logout(ctx context.Context, refreshToken, tenantSlug string) error
}

// AuthHandler serves the tenant-scoped authentication endpoints. The
// tenant comes from resolution middleware when a request-level source
// (subdomain, header, query, path) names one, and from the body's
// tenantSlug field otherwise; credentials are only ever checked against
// that tenant's users.
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TenantSlug string `json:"tenantSlug,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
	TenantSlug   string `json:"tenantSlug,omitempty"`
}

type validateRequest struct {
	Token      string `json:"token"`
	TenantSlug string `json:"tenantSlug,omitempty"`
}

// tenantSlugFor returns the slug the request is scoped to: the resolved
// tenant when present, otherwise the body's tenantSlug. A body slug
// that contradicts the resolved tenant is rejected rather than silently
// overridden.
func tenantSlugFor(r *http.Request, bodySlug string) (string, error) {
	if tenant, ok := middleware.GetTenant(r.Context()); ok {
		if bodySlug != "" && bodySlug != tenant.Slug {
			return "", apperrors.New("TENANT_MISMATCH", http.StatusBadRequest,
				"tenantSlug does not match the resolved tenant")
		}
		return tenant.Slug, nil
	}
	if bodySlug == "" {
		return "", apperrors.ErrTenantNotIdentified
	}
	return bodySlug, nil
}

// Login authenticates a user within the tenant
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.New("INVALID_REQUEST", http.StatusBadRequest, "invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, r, apperrors.New("INVALID_REQUEST", http.StatusBadRequest, "email and password are required"))
		return
	}

	slug, err := tenantSlugFor(r, req.TenantSlug)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.auth.Authenticate(r.Context(), req.Email, req.Password, slug, r.RemoteAddr)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Refresh exchanges a refresh token for a new pair
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondError(w, r, apperrors.New("INVALID_REQUEST", http.StatusBadRequest, "refresh_token is required"))
		return
	}

	slug, err := tenantSlugFor(r, req.TenantSlug)
	if err != nil {
		respondError(w, r, err)
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken, slug)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, pair)
}

// Validate checks a token and always answers 200; the verdict is in
// the body
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		respondError(w, r, apperrors.New("INVALID_REQUEST", http.StatusBadRequest, "token is required"))
		return
	}

	slug, err := tenantSlugFor(r, req.TenantSlug)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.auth.Validate(r.Context(), req.Token, slug))
}

// Logout revokes the presented refresh token
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondError(w, r, apperrors.New("INVALID_REQUEST", http.StatusBadRequest, "refresh_token is required"))
		return
	}

	slug, err := tenantSlugFor(r, req.TenantSlug)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.auth.Logout(r.Context(), req.RefreshToken, slug); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
