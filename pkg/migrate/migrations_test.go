package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maisonlumiere/boutique-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestOrdersMigrationEnforcesIdempotency(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_checkout_and_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no checkout/orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE UNIQUE INDEX ux_orders_provider_session_id ON orders (provider_session_id)",
		"CREATE UNIQUE INDEX ux_checkout_sessions_provider_session_id ON checkout_sessions (provider_session_id)",
		"DROP TABLE order_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCartMigrationEnforcesOneLinePerVariant(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_carts.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no carts migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}

	if !strings.Contains(string(data), "CREATE UNIQUE INDEX idx_cart_variant ON cart_items (cart_id, variant_id)") {
		t.Error("cart_items migration missing unique (cart_id, variant_id) index")
	}
}
