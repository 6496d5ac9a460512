package database

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/physiohub/physiohub-server/internal/models"
)

// Schema names are never taken from user input: they are derived from
// internal tenant IDs and re-validated against this pattern before
// being interpolated into any statement.
var schemaNamePattern = regexp.MustCompile(`^tenant_[0-9a-f_]+$`)

// maxIdentifierLength is PostgreSQL's identifier length limit
const maxIdentifierLength = 63

// SchemaNameForTenant derives the schema name for a tenant ID. The
// transformation is fixed (prefix plus UUID with hyphens replaced), so
// it is collision-free and reproducible without a lookup table.
func SchemaNameForTenant(id uuid.UUID) string {
	return models.SchemaPrefix + strings.ReplaceAll(id.String(), "-", "_")
}

// QuoteSchemaName validates a schema name against the allow-list
// pattern and returns it as a quoted identifier. Anything that does not
// look like a derived tenant schema name is rejected outright.
func QuoteSchemaName(name string) (string, error) {
	if len(name) == 0 || len(name) > maxIdentifierLength {
		return "", fmt.Errorf("invalid schema name length: %q", name)
	}
	if !schemaNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid schema name: %q", name)
	}
	return `"` + name + `"`, nil
}
