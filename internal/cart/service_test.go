package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	"github.com/maisonlumiere/boutique-backend/pkg/enums"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
)

type stubCartRepo struct {
	CartRepository

	records map[string]*models.CartRecord
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{records: map[string]*models.CartRecord{}}
}

func (s *stubCartRepo) FindActiveByToken(ctx context.Context, token string) (*models.CartRecord, error) {
	record, ok := s.records[token]
	if !ok || record.Status != enums.CartStatusActive {
		return nil, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (s *stubCartRepo) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.records[record.Token] = record
	return record, nil
}

func (s *stubCartRepo) UpsertItem(ctx context.Context, item *models.CartItem) error {
	for _, record := range s.records {
		if record.ID != item.CartID {
			continue
		}
		for i := range record.Items {
			if record.Items[i].VariantID == item.VariantID {
				record.Items[i].Quantity += item.Quantity
				return nil
			}
		}
		record.Items = append(record.Items, *item)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, cartID, variantID uuid.UUID) error {
	for _, record := range s.records {
		if record.ID != cartID {
			continue
		}
		kept := record.Items[:0]
		for _, item := range record.Items {
			if item.VariantID != variantID {
				kept = append(kept, item)
			}
		}
		record.Items = kept
	}
	return nil
}

func (s *stubCartRepo) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	for _, record := range s.records {
		if record.ID == cartID {
			record.Items = nil
		}
	}
	return nil
}

type stubVariantResolver struct {
	variants map[uuid.UUID]*models.ProductVariant
}

func (s *stubVariantResolver) VariantForPurchase(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error) {
	variant, ok := s.variants[variantID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return variant, nil
}

func newCartFixture(t *testing.T) (Service, *stubCartRepo, *models.ProductVariant) {
	t.Helper()

	variant := &models.ProductVariant{
		ID:             uuid.New(),
		SKU:            "FLR-010",
		UnitPriceCents: 45000,
		Currency:       enums.CurrencyEUR,
		IsAvailable:    true,
	}
	repo := newStubCartRepo()
	svc, err := NewService(repo, &stubVariantResolver{
		variants: map[uuid.UUID]*models.ProductVariant{variant.ID: variant},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, variant
}

func TestSnapshotUnknownTokenIsEmpty(t *testing.T) {
	t.Parallel()

	svc, _, _ := newCartFixture(t)

	dto := svc.Snapshot(context.Background(), "no-such-token")
	if len(dto.Items) != 0 || dto.SubtotalCents != 0 {
		t.Fatalf("expected empty snapshot, got %+v", dto)
	}
	if dto.SubtotalDisplay != "0.00" {
		t.Fatalf("expected zero display, got %q", dto.SubtotalDisplay)
	}
}

func TestAddItemMintsTokenAndMergesLines(t *testing.T) {
	t.Parallel()

	svc, _, variant := newCartFixture(t)
	ctx := context.Background()

	dto, token, err := svc.AddItem(ctx, "", variant.ID, 1)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if token == "" {
		t.Fatal("expected minted token")
	}
	if len(dto.Items) != 1 || dto.Items[0].Quantity != 1 {
		t.Fatalf("unexpected cart %+v", dto)
	}

	dto, token2, err := svc.AddItem(ctx, token, variant.ID, 2)
	if err != nil {
		t.Fatalf("add item again: %v", err)
	}
	if token2 != token {
		t.Fatalf("token should be stable, got %q then %q", token, token2)
	}
	if len(dto.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(dto.Items))
	}
	if dto.Items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", dto.Items[0].Quantity)
	}
	if dto.SubtotalCents != 135000 {
		t.Fatalf("expected subtotal 135000, got %d", dto.SubtotalCents)
	}
	if dto.SubtotalDisplay != "1350.00" {
		t.Fatalf("unexpected display %q", dto.SubtotalDisplay)
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	svc, _, variant := newCartFixture(t)
	ctx := context.Background()

	_, token, err := svc.AddItem(ctx, "", variant.ID, 1)
	if err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	dto, _, err := svc.AddItem(ctx, token, variant.ID, 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if len(dto.Items) != 1 || dto.Items[0].Quantity != 1 {
		t.Fatalf("cart should be unchanged, got %+v", dto)
	}
}

func TestAddItemUnknownVariant(t *testing.T) {
	t.Parallel()

	svc, _, _ := newCartFixture(t)

	_, _, err := svc.AddItem(context.Background(), "", uuid.New(), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRemoveItemAndClear(t *testing.T) {
	t.Parallel()

	svc, _, variant := newCartFixture(t)
	ctx := context.Background()

	_, token, err := svc.AddItem(ctx, "", variant.ID, 2)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	dto, err := svc.RemoveItem(ctx, token, variant.ID)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if len(dto.Items) != 0 || dto.SubtotalCents != 0 {
		t.Fatalf("expected empty cart after removal, got %+v", dto)
	}

	if _, _, err := svc.AddItem(ctx, token, variant.ID, 1); err != nil {
		t.Fatalf("re-add item: %v", err)
	}
	if err := svc.Clear(ctx, token); err != nil {
		t.Fatalf("clear: %v", err)
	}
	snap := svc.Snapshot(ctx, token)
	if len(snap.Items) != 0 {
		t.Fatalf("expected cleared cart, got %+v", snap)
	}
}

func TestClearUnknownTokenIsNoop(t *testing.T) {
	t.Parallel()

	svc, _, _ := newCartFixture(t)

	if err := svc.Clear(context.Background(), "missing"); err != nil {
		t.Fatalf("clear should be a no-op, got %v", err)
	}
}
