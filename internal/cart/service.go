package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	"github.com/maisonlumiere/boutique-backend/pkg/enums"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
	"github.com/maisonlumiere/boutique-backend/pkg/money"
)

// Service exposes token-keyed cart operations.
type Service interface {
	// Snapshot returns the cart for a token. A missing or unknown token
	// yields an empty snapshot, never an error.
	Snapshot(ctx context.Context, token string) CartDTO
	// AddItem adds quantity of a variant, minting a cart (and token) when
	// the token is empty or unknown. The returned token must be set on the
	// client cookie.
	AddItem(ctx context.Context, token string, variantID uuid.UUID, quantity int) (CartDTO, string, error)
	RemoveItem(ctx context.Context, token string, variantID uuid.UUID) (CartDTO, error)
	Clear(ctx context.Context, token string) error
	// ActiveRecord exposes the raw cart record for checkout orchestration.
	ActiveRecord(ctx context.Context, token string) (*models.CartRecord, error)
}

type service struct {
	repo     CartRepository
	variants VariantResolver
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, variants VariantResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if variants == nil {
		return nil, fmt.Errorf("variant resolver required")
	}
	return &service{repo: repo, variants: variants}, nil
}

// CartDTO is the storefront view of a cart.
type CartDTO struct {
	Token           string        `json:"token,omitempty"`
	Currency        string        `json:"currency"`
	Items           []CartItemDTO `json:"items"`
	SubtotalCents   int           `json:"subtotal_cents"`
	SubtotalDisplay string        `json:"subtotal_display"`
}

// CartItemDTO is one cart line.
type CartItemDTO struct {
	VariantID      uuid.UUID `json:"variant_id"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unit_price_cents"`
	LineTotalCents int       `json:"line_total_cents"`
}

func (s *service) Snapshot(ctx context.Context, token string) CartDTO {
	if token == "" {
		return emptyCart()
	}
	record, err := s.repo.FindActiveByToken(ctx, token)
	if err != nil {
		return emptyCart()
	}
	return newCartDTO(record)
}

func (s *service) AddItem(ctx context.Context, token string, variantID uuid.UUID, quantity int) (CartDTO, string, error) {
	if quantity <= 0 {
		return s.Snapshot(ctx, token), token, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	variant, err := s.variants.VariantForPurchase(ctx, variantID)
	if err != nil {
		return s.Snapshot(ctx, token), token, err
	}

	record, err := s.resolveOrCreate(ctx, token)
	if err != nil {
		return emptyCart(), token, err
	}

	item := &models.CartItem{
		CartID:         record.ID,
		VariantID:      variant.ID,
		Quantity:       quantity,
		UnitPriceCents: variant.UnitPriceCents,
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return emptyCart(), record.Token, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert cart item")
	}

	fresh, err := s.repo.FindActiveByToken(ctx, record.Token)
	if err != nil {
		return emptyCart(), record.Token, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload cart")
	}
	return newCartDTO(fresh), record.Token, nil
}

func (s *service) RemoveItem(ctx context.Context, token string, variantID uuid.UUID) (CartDTO, error) {
	if token == "" {
		return emptyCart(), nil
	}
	record, err := s.repo.FindActiveByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCart(), nil
		}
		return emptyCart(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}
	if err := s.repo.DeleteItem(ctx, record.ID, variantID); err != nil {
		return emptyCart(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete cart item")
	}
	fresh, err := s.repo.FindActiveByToken(ctx, token)
	if err != nil {
		return emptyCart(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload cart")
	}
	return newCartDTO(fresh), nil
}

func (s *service) Clear(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	record, err := s.repo.FindActiveByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}
	if err := s.repo.DeleteItems(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
	}
	return nil
}

func (s *service) ActiveRecord(ctx context.Context, token string) (*models.CartRecord, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	record, err := s.repo.FindActiveByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}
	return record, nil
}

func (s *service) resolveOrCreate(ctx context.Context, token string) (*models.CartRecord, error) {
	if token != "" {
		record, err := s.repo.FindActiveByToken(ctx, token)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
		}
	}

	record := &models.CartRecord{
		Token:    uuid.NewString(),
		Status:   enums.CartStatusActive,
		Currency: enums.DefaultCurrency,
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create cart")
	}
	return created, nil
}

func emptyCart() CartDTO {
	return CartDTO{
		Currency:        enums.DefaultCurrency.String(),
		Items:           []CartItemDTO{},
		SubtotalDisplay: money.String(0),
	}
}

func newCartDTO(record *models.CartRecord) CartDTO {
	if record == nil {
		return emptyCart()
	}
	items := make([]CartItemDTO, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, CartItemDTO{
			VariantID:      item.VariantID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: item.UnitPriceCents * item.Quantity,
		})
	}
	subtotal := record.SubtotalCents()
	return CartDTO{
		Token:           record.Token,
		Currency:        record.Currency.String(),
		Items:           items,
		SubtotalCents:   subtotal,
		SubtotalDisplay: money.String(subtotal),
	}
}
