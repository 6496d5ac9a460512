package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/physiohub/physiohub-server/internal/models"
	"github.com/physiohub/physiohub-server/internal/repository"
)

type fakeHospitalStore struct {
	hospitals  map[uuid.UUID]*models.Hospital
	lastSchema string
}

func newFakeHospitalStore(hospitals ...*models.Hospital) *fakeHospitalStore {
	f := &fakeHospitalStore{hospitals: map[uuid.UUID]*models.Hospital{}}
	for _, h := range hospitals {
		f.hospitals[h.ID] = h
	}
	return f
}

func (f *fakeHospitalStore) List(ctx context.Context, schema string) ([]models.Hospital, error) {
	f.lastSchema = schema
	out := make([]models.Hospital, 0, len(f.hospitals))
	for _, h := range f.hospitals {
		out = append(out, *h)
	}
	return out, nil
}

func (f *fakeHospitalStore) GetByID(ctx context.Context, schema string, id uuid.UUID) (*models.Hospital, error) {
	f.lastSchema = schema
	h, ok := f.hospitals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return h, nil
}

func (f *fakeHospitalStore) Create(ctx context.Context, schema string, hospital *models.Hospital) error {
	f.lastSchema = schema
	if hospital.ID == uuid.Nil {
		hospital.ID = uuid.New()
	}
	f.hospitals[hospital.ID] = hospital
	return nil
}

func TestHospitalListUsesTenantSchema(t *testing.T) {
	store := newFakeHospitalStore(&models.Hospital{ID: uuid.New(), Name: "General"})
	handler := NewHospitalHandler(store)

	req := tenantRequest(http.MethodGet, "/api/v1/hospitals", "")
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.lastSchema == "" {
		t.Error("query must name the tenant schema")
	}
}

func TestHospitalGetNotFound(t *testing.T) {
	handler := NewHospitalHandler(newFakeHospitalStore())

	req := tenantRequest(http.MethodGet, "/api/v1/hospitals/"+uuid.NewString(), "")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("hospitalID", uuid.NewString())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "HOSPITAL_NOT_FOUND" {
		t.Errorf("expected HOSPITAL_NOT_FOUND, got %s", body.Code)
	}
}

func TestHospitalCreate(t *testing.T) {
	store := newFakeHospitalStore()
	handler := NewHospitalHandler(store)

	rec := httptest.NewRecorder()
	handler.Create(rec, tenantRequest(http.MethodPost, "/api/v1/hospitals",
		`{"name":"General","address":"1 Main St"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.lastSchema == "" {
		t.Error("insert must name the tenant schema")
	}
	if len(store.hospitals) != 1 {
		t.Fatalf("hospital not stored: %d", len(store.hospitals))
	}
	for _, h := range store.hospitals {
		if h.Name != "General" || !h.IsActive {
			t.Errorf("unexpected hospital: %+v", h)
		}
	}
}

func TestHospitalCreateRequiresName(t *testing.T) {
	handler := NewHospitalHandler(newFakeHospitalStore())

	rec := httptest.NewRecorder()
	handler.Create(rec, tenantRequest(http.MethodPost, "/api/v1/hospitals", `{}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
