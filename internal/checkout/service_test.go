package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/internal/cart"
	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	"github.com/maisonlumiere/boutique-backend/pkg/enums"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
	"github.com/maisonlumiere/boutique-backend/pkg/outbox"
)

type stubCheckoutRepo struct {
	sessions map[string]*models.CheckoutSession
	orders   map[string]*models.Order

	createOrderErr error
}

func newStubCheckoutRepo() *stubCheckoutRepo {
	return &stubCheckoutRepo{
		sessions: map[string]*models.CheckoutSession{},
		orders:   map[string]*models.Order{},
	}
}

func (s *stubCheckoutRepo) WithTx(tx *gorm.DB) CheckoutRepository { return s }

func (s *stubCheckoutRepo) CreateSession(ctx context.Context, session *models.CheckoutSession) (*models.CheckoutSession, error) {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	s.sessions[session.ProviderSessionID] = session
	return session, nil
}

func (s *stubCheckoutRepo) FindSessionByProviderID(ctx context.Context, providerSessionID string) (*models.CheckoutSession, error) {
	session, ok := s.sessions[providerSessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (s *stubCheckoutRepo) UpdateSessionStatus(ctx context.Context, sessionID uuid.UUID, status enums.CheckoutStatus) error {
	for _, session := range s.sessions {
		if session.ID == sessionID {
			session.Status = status
		}
	}
	return nil
}

func (s *stubCheckoutRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	if s.createOrderErr != nil {
		return s.createOrderErr
	}
	if _, exists := s.orders[order.ProviderSessionID]; exists {
		return errors.New(`duplicate key value violates unique constraint "ux_orders_provider_session_id"`)
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ProviderSessionID] = order
	return nil
}

func (s *stubCheckoutRepo) FindOrderByProviderSessionID(ctx context.Context, providerSessionID string) (*models.Order, error) {
	order, ok := s.orders[providerSessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

type stubCheckoutCartRepo struct {
	cart.CartRepository

	record   *models.CartRecord
	statuses map[uuid.UUID]enums.CartStatus
}

func (s *stubCheckoutCartRepo) WithTx(tx *gorm.DB) cart.CartRepository { return s }

func (s *stubCheckoutCartRepo) FindActiveByToken(ctx context.Context, token string) (*models.CartRecord, error) {
	if s.record == nil || s.record.Token != token {
		return nil, gorm.ErrRecordNotFound
	}
	return s.record, nil
}

func (s *stubCheckoutCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error) {
	if s.record == nil || s.record.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.record, nil
}

func (s *stubCheckoutCartRepo) UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error {
	if s.statuses == nil {
		s.statuses = map[uuid.UUID]enums.CartStatus{}
	}
	s.statuses[cartID] = status
	return nil
}

type stubVariantCatalog struct {
	variants map[uuid.UUID]*models.ProductVariant
}

func (s *stubVariantCatalog) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	variant, ok := s.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return variant, nil
}

type stubProvider struct {
	calls    int
	requests []ProviderSessionRequest
	session  ProviderSession
	err      error
}

func (s *stubProvider) CreateCheckoutSession(ctx context.Context, req ProviderSessionRequest) (*ProviderSession, error) {
	s.calls++
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	out := s.session
	return &out, nil
}

type stubGuard struct {
	marked map[string]bool
}

func (s *stubGuard) CheckAndMark(ctx context.Context, id string) (bool, error) {
	if s.marked == nil {
		s.marked = map[string]bool{}
	}
	if s.marked[id] {
		return true, nil
	}
	s.marked[id] = true
	return false, nil
}

func (s *stubGuard) Delete(ctx context.Context, id string) error {
	delete(s.marked, id)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubEmitter struct {
	events []outbox.DomainEvent
}

func (s *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type checkoutFixture struct {
	svc      Service
	repo     *stubCheckoutRepo
	carts    *stubCheckoutCartRepo
	provider *stubProvider
	guard    *stubGuard
	emitter  *stubEmitter
	variant  *models.ProductVariant
	token    string
}

func newCheckoutFixture(t *testing.T, items []models.CartItem) *checkoutFixture {
	t.Helper()

	variant := &models.ProductVariant{
		ID:             uuid.New(),
		SKU:            "ECH-020",
		UnitPriceCents: 89000,
		Currency:       enums.CurrencyEUR,
		IsAvailable:    true,
		Product:        &models.Product{TitleFR: "Écharpe Royale", TitleEN: "Royal Scarf", IsVisible: true},
	}
	for i := range items {
		items[i].VariantID = variant.ID
		items[i].UnitPriceCents = variant.UnitPriceCents
	}

	record := &models.CartRecord{
		ID:       uuid.New(),
		Token:    "tok-checkout",
		Status:   enums.CartStatusActive,
		Currency: enums.CurrencyEUR,
		Items:    items,
	}

	repo := newStubCheckoutRepo()
	carts := &stubCheckoutCartRepo{record: record}
	provider := &stubProvider{session: ProviderSession{ID: "cs_test_123", URL: "https://checkout.stripe.com/pay/cs_test_123"}}
	guard := &stubGuard{}
	emitter := &stubEmitter{}

	svc, err := NewService(ServiceParams{
		CheckoutRepo:      repo,
		CartRepo:          carts,
		Catalog:           &stubVariantCatalog{variants: map[uuid.UUID]*models.ProductVariant{variant.ID: variant}},
		Provider:          provider,
		Guard:             guard,
		TransactionRunner: stubTxRunner{},
		Outbox:            emitter,
		BaseURL:           "https://boutique.example",
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &checkoutFixture{
		svc:      svc,
		repo:     repo,
		carts:    carts,
		provider: provider,
		guard:    guard,
		emitter:  emitter,
		variant:  variant,
		token:    record.Token,
	}
}

func TestBeginEmptyCartNeverContactsProvider(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t, nil)

	_, err := f.svc.Begin(context.Background(), BeginInput{CartToken: f.token, Locale: "fr"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if f.provider.calls != 0 {
		t.Fatalf("provider should not be contacted for an empty cart, got %d calls", f.provider.calls)
	}
}

func TestBeginCreatesProviderSessionAndRecordsIt(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t, []models.CartItem{{Quantity: 2}})

	result, err := f.svc.Begin(context.Background(), BeginInput{CartToken: f.token, Locale: "en"})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if result.RedirectURL != "https://checkout.stripe.com/pay/cs_test_123" {
		t.Fatalf("unexpected redirect %q", result.RedirectURL)
	}

	req := f.provider.requests[0]
	if len(req.Lines) != 1 || req.Lines[0].Quantity != 2 || req.Lines[0].Name != "Royal Scarf" {
		t.Fatalf("unexpected provider lines %+v", req.Lines)
	}
	if !strings.Contains(req.SuccessURL, "/en/checkout/confirm") {
		t.Fatalf("success url should be localized, got %q", req.SuccessURL)
	}

	stored, ok := f.repo.sessions["cs_test_123"]
	if !ok {
		t.Fatal("checkout session not recorded")
	}
	if stored.AmountCents != 178000 {
		t.Fatalf("expected amount 178000, got %d", stored.AmountCents)
	}
	if stored.Status != enums.CheckoutStatusSessionCreated {
		t.Fatalf("unexpected status %q", stored.Status)
	}
}

func TestFinalizeCreatesOrderExactlyOnce(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t, []models.CartItem{{Quantity: 1}})
	ctx := context.Background()

	if _, err := f.svc.Begin(ctx, BeginInput{CartToken: f.token, Locale: "fr"}); err != nil {
		t.Fatalf("begin: %v", err)
	}

	first, err := f.svc.Finalize(ctx, "cs_test_123")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(first.Items) != 1 || first.Items[0].SKU != "ECH-020" {
		t.Fatalf("unexpected order items %+v", first.Items)
	}
	if first.TotalCents != 89000 || first.TotalDisplay != "890.00" {
		t.Fatalf("unexpected totals %+v", first)
	}

	second, err := f.svc.Finalize(ctx, "cs_test_123")
	if err != nil {
		t.Fatalf("duplicate finalize: %v", err)
	}
	if second.OrderID != first.OrderID {
		t.Fatalf("duplicate finalize produced a different order: %s vs %s", second.OrderID, first.OrderID)
	}
	if len(f.repo.orders) != 1 {
		t.Fatalf("expected exactly one order, got %d", len(f.repo.orders))
	}

	if got := f.carts.statuses[f.carts.record.ID]; got != enums.CartStatusConverted {
		t.Fatalf("expected converted cart, got %q", got)
	}
	if len(f.emitter.events) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(f.emitter.events))
	}
	event := f.emitter.events[0]
	if event.EventType != enums.EventOrderFinalized || event.AggregateType != enums.AggregateOrder {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestFinalizeUnknownSessionReleasesGuard(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t, []models.CartItem{{Quantity: 1}})

	_, err := f.svc.Finalize(context.Background(), "cs_missing")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if f.guard.marked["cs_missing"] {
		t.Fatal("guard should be released after a failed finalize")
	}
}

func TestFinalizeUniqueViolationReturnsExistingOrder(t *testing.T) {
	t.Parallel()

	f := newCheckoutFixture(t, []models.CartItem{{Quantity: 1}})
	ctx := context.Background()

	if _, err := f.svc.Begin(ctx, BeginInput{CartToken: f.token, Locale: "fr"}); err != nil {
		t.Fatalf("begin: %v", err)
	}

	existing := &models.Order{
		ID:                uuid.New(),
		ProviderSessionID: "cs_test_123",
		Currency:          enums.CurrencyEUR,
		TotalCents:        89000,
	}
	f.repo.orders["cs_test_123"] = existing
	f.repo.createOrderErr = errors.New(`duplicate key value violates unique constraint "ux_orders_provider_session_id"`)

	got, err := f.svc.Finalize(ctx, "cs_test_123")
	if err != nil {
		t.Fatalf("finalize should resolve to the existing order, got %v", err)
	}
	if got.OrderID != existing.ID {
		t.Fatalf("expected existing order %s, got %s", existing.ID, got.OrderID)
	}
}
