package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/physiohub/physiohub-server/internal/apperrors"
	"github.com/physiohub/physiohub-server/internal/models"
	"github.com/physiohub/physiohub-server/internal/services"
)

type fakeRegistry struct {
	registerResult *services.RegisterResult
	registerErr    error
	dropErr        error
	droppedSlug    string
	droppedConfirm string
}

func (f *fakeRegistry) Register(ctx context.Context, req services.RegisterRequest) (*services.RegisterResult, error) {
	return f.registerResult, f.registerErr
}

func (f *fakeRegistry) Drop(ctx context.Context, slug, confirm string) error {
	f.droppedSlug, f.droppedConfirm = slug, confirm
	return f.dropErr
}

func TestRegisterCreated(t *testing.T) {
	fake := &fakeRegistry{
		registerResult: &services.RegisterResult{
			Tenant: &models.TenantInfo{Slug: "acme", Status: models.TenantStatusTrial},
		},
	}
	handler := NewTenantHandler(fake)

	rec := httptest.NewRecorder()
	handler.Register(rec, httptest.NewRequest(http.MethodPost, "/api/v1/tenants",
		strings.NewReader(`{"name":"Acme","slug":"acme","email":"a@acme.com","password":"pw","admin_name":"Admin"}`)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterDuplicateSlug(t *testing.T) {
	handler := NewTenantHandler(&fakeRegistry{registerErr: apperrors.ErrDuplicateSlug})

	rec := httptest.NewRecorder()
	handler.Register(rec, httptest.NewRequest(http.MethodPost, "/api/v1/tenants",
		strings.NewReader(`{"name":"Acme","slug":"acme","email":"a@acme.com","password":"pw"}`)))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "DUPLICATE_SLUG" {
		t.Errorf("expected DUPLICATE_SLUG, got %s", body.Code)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	handler := NewTenantHandler(&fakeRegistry{})

	rec := httptest.NewRecorder()
	handler.Register(rec, httptest.NewRequest(http.MethodPost, "/api/v1/tenants",
		strings.NewReader(`{"slug":"acme"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCurrentTenant(t *testing.T) {
	handler := NewTenantHandler(&fakeRegistry{})

	rec := httptest.NewRecorder()
	handler.Current(rec, tenantRequest(http.MethodGet, "/api/v1/tenants/current", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var info models.TenantInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if info.Slug != "acme" {
		t.Errorf("unexpected tenant: %+v", info)
	}
}

func TestDropPassesSlugAndConfirm(t *testing.T) {
	fake := &fakeRegistry{}
	handler := NewTenantHandler(fake)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/tenants/acme",
		strings.NewReader(`{"confirm":"acme"}`))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("tenantSlug", "acme")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	handler.Drop(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if fake.droppedSlug != "acme" || fake.droppedConfirm != "acme" {
		t.Errorf("drop not forwarded: slug=%q confirm=%q", fake.droppedSlug, fake.droppedConfirm)
	}
}
