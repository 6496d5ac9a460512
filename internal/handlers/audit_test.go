package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/physiohub/physiohub-server/internal/models"
)

type fakeAuditReader struct {
	entries    []models.AuthAuditLog
	lastTenant uuid.UUID
	lastLimit  int
	lastOffset int
}

func (f *fakeAuditReader) GetByTenantID(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.AuthAuditLog, error) {
	f.lastTenant, f.lastLimit, f.lastOffset = tenantID, limit, offset
	return f.entries, nil
}

func TestAuditListScopedToTenant(t *testing.T) {
	fake := &fakeAuditReader{
		entries: []models.AuthAuditLog{
			{Email: "nurse@acme.com", Action: "login", Status: "success"},
		},
	}
	handler := NewAuditHandler(fake)

	req := tenantRequest(http.MethodGet, "/api/v1/admin/audit-logs?limit=10&offset=20", "")
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fake.lastLimit != 10 || fake.lastOffset != 20 {
		t.Errorf("pagination not forwarded: limit=%d offset=%d", fake.lastLimit, fake.lastOffset)
	}
	if fake.lastTenant == uuid.Nil {
		t.Error("query not scoped to the resolved tenant")
	}

	var entries []models.AuthAuditLog
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "login" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestAuditListClampsBadPagination(t *testing.T) {
	fake := &fakeAuditReader{}
	handler := NewAuditHandler(fake)

	rec := httptest.NewRecorder()
	handler.List(rec, tenantRequest(http.MethodGet, "/api/v1/admin/audit-logs?limit=9999&offset=-3", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if fake.lastLimit != 50 || fake.lastOffset != 0 {
		t.Errorf("bad pagination not clamped: limit=%d offset=%d", fake.lastLimit, fake.lastOffset)
	}
}

func TestAuditListWithoutTenant(t *testing.T) {
	handler := NewAuditHandler(&fakeAuditReader{})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/audit-logs", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
