package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	"github.com/maisonlumiere/boutique-backend/pkg/enums"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	checkoutSessions := `
CREATE TABLE IF NOT EXISTS checkout_sessions (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  user_id TEXT,
  provider_session_id TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'session_created',
  amount_cents INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'EUR',
  confirmed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  provider_session_id TEXT NOT NULL UNIQUE,
  currency TEXT NOT NULL DEFAULT 'EUR',
  subtotal_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  shipping_address_id TEXT,
  fulfillment_status TEXT NOT NULL DEFAULT 'pending',
  placed_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  title TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(checkoutSessions).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func newCheckoutSession(providerSessionID string) *models.CheckoutSession {
	return &models.CheckoutSession{
		ID:                uuid.New(),
		CartID:            uuid.New(),
		ProviderSessionID: providerSessionID,
		AmountCents:       12900,
	}
}

func newOrder(providerSessionID string) *models.Order {
	orderID := uuid.New()
	item := models.OrderItem{
		ID:             uuid.New(),
		OrderID:        orderID,
		VariantID:      uuid.New(),
		SKU:            "LUM-SCARF-01",
		Title:          "Foulard en soie",
		Quantity:       2,
		UnitPriceCents: 6450,
	}
	return &models.Order{
		ID:                orderID,
		ProviderSessionID: providerSessionID,
		Currency:          enums.CurrencyEUR,
		SubtotalCents:     12900,
		TotalCents:        12900,
		FulfillmentStatus: enums.FulfillmentStatusPending,
		Items:             []models.OrderItem{item},
		PlacedAt:          time.Now().UTC(),
	}
}

func TestRepositoryCreateSession_appliesDefaults(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := NewRepository(db)

	created, err := repo.CreateSession(context.Background(), newCheckoutSession("cs_test_defaults"))
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStatusSessionCreated, created.Status)
	assert.Equal(t, enums.DefaultCurrency, created.Currency)

	found, err := repo.FindSessionByProviderID(context.Background(), "cs_test_defaults")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Nil(t, found.ConfirmedAt)
}

func TestRepositoryUpdateSessionStatus_stampsConfirmedAt(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := NewRepository(db)

	created, err := repo.CreateSession(context.Background(), newCheckoutSession("cs_test_confirm"))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateSessionStatus(context.Background(), created.ID, enums.CheckoutStatusConfirmed))

	found, err := repo.FindSessionByProviderID(context.Background(), "cs_test_confirm")
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStatusConfirmed, found.Status)
	require.NotNil(t, found.ConfirmedAt)
}

func TestRepositoryCreateOrder_uniqueProviderSession(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := NewRepository(db)

	first := newOrder("cs_test_dup")
	require.NoError(t, repo.CreateOrder(context.Background(), first))

	// At-least-once delivery means the same provider session can race two
	// finalize attempts; the unique index must reject the second insert.
	err := repo.CreateOrder(context.Background(), newOrder("cs_test_dup"))
	require.Error(t, err)

	found, err := repo.FindOrderByProviderSessionID(context.Background(), "cs_test_dup")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "LUM-SCARF-01", found.Items[0].SKU)
	assert.Equal(t, 2, found.Items[0].Quantity)
}

func TestRepositoryFindOrder_notFound(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindOrderByProviderSessionID(context.Background(), "cs_missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
