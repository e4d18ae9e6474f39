package matching

import (
	"strings"
	"testing"

	"estate_crm_backend/migrations"
)

// Every repository query is built from matchColumns, so a column missing
// from the table definition only surfaces as SQLSTATE 42703 at runtime.
// Pin the column list to the migration here.
func TestMatchColumnsExistInMigration(t *testing.T) {
	sql, err := migrations.FS.ReadFile("00005_create_lead_property_matches.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	ddl := string(sql)
	start := strings.Index(ddl, "CREATE TABLE lead_property_matches")
	if start < 0 {
		t.Fatal("migration does not create lead_property_matches")
	}
	end := strings.Index(ddl[start:], ";")
	if end < 0 {
		t.Fatal("unterminated CREATE TABLE statement")
	}
	table := ddl[start : start+end]

	for _, column := range strings.Split(matchColumns, ", ") {
		if !strings.Contains(table, column) {
			t.Errorf("column %q used by the repository is missing from the migration", column)
		}
	}
}
