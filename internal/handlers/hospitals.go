package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/middleware"
	"github.com/physiohub/physiohub-server/internal/models"
	"github.com/physiohub/physiohub-server/internal/repository"
)

// HospitalStore accesses hospitals in a tenant schema
type HospitalStore interface {
	List(ctx context.Context, schema string) ([]models.Hospital, error)
	GetByID(ctx context.Context, schema string, id uuid.UUID) (*models.Hospital, error)
	Create(ctx context.Context, schema string, hospital *models.Hospital) error
}

// HospitalHandler serves hospital endpoints. Every query names the
// resolved tenant's schema; data from other tenants is unreachable by
// construction.
type HospitalHandler struct {
	hospitals HospitalStore
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(hospitals HospitalStore) *HospitalHandler {
	return &HospitalHandler{hospitals: hospitals}
}

// List returns the tenant's hospitals
func (h *HospitalHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		respondError(w, r, apperrors.ErrTenantNotIdentified)
		return
	}

	hospitals, err := h.hospitals.List(r.Context(), tenant.Schema)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, hospitals)
}

// Get returns one hospital by ID
func (h *HospitalHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		respondError(w, r, apperrors.ErrTenantNotIdentified)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "hospitalID"))
	if err != nil {
		respondError(w, r, apperrors.New("INVALID_HOSPITAL_ID", http.StatusBadRequest, "invalid hospital ID"))
		return
	}

	hospital, err := h.hospitals.GetByID(r.Context(), tenant.Schema, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, r, apperrors.New("HOSPITAL_NOT_FOUND", http.StatusNotFound, "hospital not found"))
			return
		}
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, hospital)
}

type createHospitalRequest struct {
	Name     string     `json:"name"`
	Address  string     `json:"address,omitempty"`
	Phone    string     `json:"phone,omitempty"`
	ClientID *uuid.UUID `json:"client_id,omitempty"`
}

// Create adds a hospital to the tenant's schema
func (h *HospitalHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := middleware.GetTenant(r.Context())
	if !ok {
		respondError(w, r, apperrors.ErrTenantNotIdentified)
		return
	}

	var req createHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondError(w, r, apperrors.New("INVALID_REQUEST", http.StatusBadRequest, "name is required"))
		return
	}

	hospital := &models.Hospital{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		ClientID: req.ClientID,
		IsActive: true,
	}
	if err := h.hospitals.Create(r.Context(), tenant.Schema, hospital); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, hospital)
}
