package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/middleware"
	"github.com/physiohub/physiohub-server/internal/services"
)

// TenantRegistry is the slice of the tenant service the handler needs
type TenantRegistry interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.RegisterResult, error)
	Drop(ctx context.Context, slug, confirm string) error
}

// TenantHandler serves tenant lifecycle endpoints
type TenantHandler struct {
	tenants TenantRegistry
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenants TenantRegistry) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// Register provisions a new tenant: directory row, schema, admin user.
// This is the only tenant endpoint that runs without tenant resolution.
func (h *TenantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.New("INVALID_REQUEST", http.StatusBadRequest, "invalid request body"))
		return
	}
	if req.Name == "" || req.Slug == "" || req.Email == "" || req.Password == "" {
		respondError(w, r, apperrors.New("INVALID_REQUEST", http.StatusBadRequest,
			"name, slug, email and password are required"))
		return
	}

	result, err := h.tenants.Register(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// Current returns the resolved tenant for this request
func (h *TenantHandler) Current(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		respondError(w, r, apperrors.ErrTenantNotIdentified)
		return
	}
	respondJSON(w, http.StatusOK, tenant)
}

type dropRequest struct {
	Confirm string `json:"confirm"`
}

// Drop destroys a tenant and its schema. The body must repeat the slug
// in the confirm field.
func (h *TenantHandler) Drop(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "tenantSlug")
	if slug == "" {
		respondError(w, r, apperrors.New("INVALID_REQUEST", http.StatusBadRequest, "tenant slug is required"))
		return
	}

	var req dropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.New("INVALID_REQUEST", http.StatusBadRequest, "invalid request body"))
		return
	}

	if err := h.tenants.Drop(r.Context(), slug, req.Confirm); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
