package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkock/brewhub-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestIngredientsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_ingredients.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS ingredients",
		"FOREIGN KEY (retailer_id) REFERENCES users(id) ON DELETE CASCADE",
		"CHECK (quantity >= 0)",
		"CHECK (price >= 0)",
		"DROP TABLE IF EXISTS ingredients",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CHECK (status IN ('PENDING', 'SHIPPED', 'DELIVERED', 'CANCELLED'))",
		"CREATE TABLE IF NOT EXISTS order_items",
		"FOREIGN KEY (ingredient_id) REFERENCES ingredients(id) ON DELETE RESTRICT",
		"CHECK (quantity > 0)",
		"DROP TABLE IF EXISTS order_items",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestVotesMigrationEnforcesSingleTarget(t *testing.T) {
	content := readMigration(t, "*_create_community.sql")

	checks := []string{
		"CHECK ((question_id IS NULL) <> (answer_id IS NULL))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_user_question",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_user_answer",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestReportsMigrationEnforcesSingleTarget(t *testing.T) {
	content := readMigration(t, "*_create_reports.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS reports",
		"CHECK ((question_id IS NULL) <> (answer_id IS NULL))",
		"CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED'))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_reports_reporter_question",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_reports_reporter_answer",
		"ALTER TABLE questions ADD COLUMN is_active",
		"ALTER TABLE answers ADD COLUMN is_active",
		"CHECK (role IN ('customer', 'retailer', 'moderator'))",
		"DROP TABLE IF EXISTS reports",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
