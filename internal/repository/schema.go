package repository

// Schema definitions for the Ruleviz rule store.
// Compatible with both SQLite and PostgreSQL.

// schemaRules stores rule documents as JSON alongside the columns needed for
// filtering and stable ordering. created_at (with id as tie-break) defines
// the listing order, which downstream color assignment depends on.
const schemaRules = `
CREATE TABLE IF NOT EXISTS rules (
    id TEXT NOT NULL,
    tenant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    document TEXT NOT NULL,
    enabled INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (id, tenant_id)
);

CREATE INDEX IF NOT EXISTS idx_rules_tenant ON rules(tenant_id);
CREATE INDEX IF NOT EXISTS idx_rules_type ON rules(tenant_id, type);
CREATE INDEX IF NOT EXISTS idx_rules_created ON rules(tenant_id, created_at);
`

// AllSchemas returns all schema statements in order.
func AllSchemas() []string {
	return []string{
		schemaRules,
	}
}
