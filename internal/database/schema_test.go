package database

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSchemaNameForTenant(t *testing.T) {
	id := uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")

	name := SchemaNameForTenant(id)
	if name != "tenant_f47ac10b_58cc_4372_a567_0e02b2c3d479" {
		t.Errorf("unexpected schema name: %s", name)
	}

	// Derivation must be deterministic
	if SchemaNameForTenant(id) != name {
		t.Error("schema name derivation is not deterministic")
	}

	if strings.Contains(name, "-") {
		t.Error("schema name contains hyphens")
	}
}

func TestQuoteSchemaNameValid(t *testing.T) {
	name := SchemaNameForTenant(uuid.New())

	quoted, err := QuoteSchemaName(name)
	if err != nil {
		t.Fatalf("QuoteSchemaName failed for derived name: %v", err)
	}
	if quoted != `"`+name+`"` {
		t.Errorf("unexpected quoted identifier: %s", quoted)
	}
}

func TestQuoteSchemaNameRejectsInvalid(t *testing.T) {
	cases := []string{
		"",
		"public",
		"pg_catalog",
		"tenant_ABC",
		"tenant_x; DROP SCHEMA public CASCADE",
		`tenant_x" --`,
		"other_f47ac10b_58cc_4372_a567_0e02b2c3d479",
		"tenant_" + strings.Repeat("a", 100),
	}

	for _, name := range cases {
		if _, err := QuoteSchemaName(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}
