package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jocril/storefront-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}

func TestInitSchemaContainsCoreTables(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE order_status AS ENUM",
		"CREATE TYPE payment_status AS ENUM",
		"CREATE TYPE payment_method AS ENUM",
		"CREATE TABLE customers",
		"CREATE TABLE products",
		"CREATE TABLE product_variants",
		"CREATE TABLE discount_tiers",
		"CREATE TABLE price_tiers",
		"CREATE TABLE shipping_zones",
		"CREATE TABLE shipping_classes",
		"CREATE TABLE shipping_rates",
		"CREATE TABLE orders",
		"CREATE TABLE order_items",
		"CREATE TABLE outbox_events",
		"CREATE UNIQUE INDEX idx_shipping_rates_zone_class_min",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSeedMigrationCoversAllZoneClassPairs(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_seed_shipping_defaults.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no shipping seed migration found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	for _, zone := range []string{"continente", "madeira", "acores"} {
		for _, class := range []string{"small", "medium", "large"} {
			pair := "'" + zone + "', '" + class + "'"
			if !strings.Contains(content, pair) {
				t.Errorf("missing rate seed for %s/%s", zone, class)
			}
		}
	}
}
