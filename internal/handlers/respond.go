package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/physiohub/physiohub-server/internal/apperrors"
)

// ErrorResponse is the uniform error envelope every failing endpoint
// returns
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError maps any error to the uniform envelope. Unrecognized
// errors become a generic 500 so internals never leak to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	respondJSON(w, appErr.Status, ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}
