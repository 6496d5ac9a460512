package tenant

import (
	"strings"
	"testing"
)

func TestTenantDDLIsIdempotent(t *testing.T) {
	for i, stmt := range tenantDDL {
		if !strings.Contains(stmt, "IF NOT EXISTS") {
			t.Errorf("statement %d is not idempotent:\n%s", i, stmt)
		}
	}
}

func TestTenantDDLCoversAllTables(t *testing.T) {
	for _, table := range tenantTables {
		found := false
		for _, stmt := range tenantDDL {
			if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS "+table+" ") ||
				strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS "+table+"\n") ||
				strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS "+table+" (") {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no CREATE TABLE statement for %s", table)
		}
	}
}

func TestScaleScoresEnforcedByDatabase(t *testing.T) {
	var barthel, mrc string
	for _, stmt := range tenantDDL {
		if strings.Contains(stmt, "barthel_scales") && strings.Contains(stmt, "CREATE TABLE") {
			barthel = stmt
		}
		if strings.Contains(stmt, "mrc_scales") && strings.Contains(stmt, "CREATE TABLE") {
			mrc = stmt
		}
	}
	if barthel == "" || mrc == "" {
		t.Fatal("scale tables missing from DDL")
	}

	// A feeding score of 15 must be impossible at the data layer
	if !strings.Contains(barthel, "feeding IN (0, 5, 10)") {
		t.Error("feeding score range is not CHECK-constrained")
	}
	if !strings.Contains(barthel, "transfers IN (0, 5, 10, 15)") {
		t.Error("transfers score range is not CHECK-constrained")
	}
	if !strings.Contains(barthel, "GENERATED ALWAYS AS") {
		t.Error("barthel total is not a generated column")
	}

	if !strings.Contains(mrc, "BETWEEN 0 AND 5") {
		t.Error("MRC scores are not CHECK-constrained")
	}
	if !strings.Contains(mrc, "GENERATED ALWAYS AS") {
		t.Error("MRC total is not a generated column")
	}
}

func TestTenantDDLHasNoSchemaQualifiers(t *testing.T) {
	// Tables must be unqualified so they land in the schema selected
	// via search_path
	for i, stmt := range tenantDDL {
		if strings.Contains(stmt, "public.") || strings.Contains(stmt, "tenant_") {
			t.Errorf("statement %d carries a schema qualifier:\n%s", i, stmt)
		}
	}
}
