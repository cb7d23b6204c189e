package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CHECK (quantity >= 1)",
		"CHECK (status IN ('pending', 'processing', 'shipped', 'delivered', 'cancelled'))",
		"FOREIGN KEY (edition_id) REFERENCES editions(id) ON DELETE RESTRICT",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestEditionsMigrationGuardsStock(t *testing.T) {
	content := readMigration(t, "*_create_editions.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS editions",
		"CHECK (stock >= 0)",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_editions_title",
		"FOREIGN KEY (edition_id) REFERENCES editions(id) ON DELETE CASCADE",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOutboxMigrationIndexesUnpublished(t *testing.T) {
	content := readMigration(t, "*_create_outbox_events.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS outbox_events",
		"WHERE published_at IS NULL",
		"attempt_count INTEGER NOT NULL DEFAULT 0",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file found for %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
