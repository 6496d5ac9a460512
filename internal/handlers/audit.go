package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/middleware"
	"github.com/physiohub/physiohub-server/internal/models"
)

// AuditReader lists authentication audit entries for a tenant
type AuditReader interface {
	GetByTenantID(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.AuthAuditLog, error)
}

// AuditHandler serves the tenant admin's view of authentication
// activity
type AuditHandler struct {
	audits AuditReader
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audits AuditReader) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// List returns the resolved tenant's auth audit log, newest first
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		respondError(w, r, apperrors.ErrTenantNotIdentified)
		return
	}

	limit := queryInt(r, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := h.audits.GetByTenantID(r.Context(), tenant.ID, limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
