package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/models"
)

type contextKey string

const (
	// TenantKey carries the resolved *models.TenantInfo
	TenantKey contextKey = "tenant"
	// UserKey carries the authenticated *models.UserContext
	UserKey contextKey = "user"
)

// GetTenant extracts the resolved tenant from context
func GetTenant(ctx context.Context) (*models.TenantInfo, bool) {
	tenant, ok := ctx.Value(TenantKey).(*models.TenantInfo)
	return tenant, ok
}

// GetUser extracts the authenticated user from context
func GetUser(ctx context.Context) (*models.UserContext, bool) {
	user, ok := ctx.Value(UserKey).(*models.UserContext)
	return user, ok
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// writeError sends the uniform error envelope
func writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.FromError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}
