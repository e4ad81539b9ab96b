package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maisonlumiere/boutique-backend/internal/cart"
	"github.com/maisonlumiere/boutique-backend/internal/locale"
	"github.com/maisonlumiere/boutique-backend/pkg/db"
	"github.com/maisonlumiere/boutique-backend/pkg/db/models"
	"github.com/maisonlumiere/boutique-backend/pkg/enums"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
	"github.com/maisonlumiere/boutique-backend/pkg/logger"
	"github.com/maisonlumiere/boutique-backend/pkg/metrics"
	"github.com/maisonlumiere/boutique-backend/pkg/money"
	"github.com/maisonlumiere/boutique-backend/pkg/outbox"
)

const ordersProviderSessionIndex = "ux_orders_provider_session_id"

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service drives the hosted checkout lifecycle: session creation at the
// provider and idempotent order finalization on confirmation.
type Service interface {
	Begin(ctx context.Context, input BeginInput) (*BeginResult, error)
	Finalize(ctx context.Context, providerSessionID string) (*OrderDTO, error)
}

// BeginInput identifies the cart and presentation context for a checkout.
type BeginInput struct {
	CartToken string
	Locale    string
	UserID    *uuid.UUID
}

// BeginResult carries the hosted page the client must be redirected to.
type BeginResult struct {
	RedirectURL       string `json:"redirect_url"`
	ProviderSessionID string `json:"provider_session_id"`
}

// OrderDTO is the client view of a finalized order.
type OrderDTO struct {
	OrderID           uuid.UUID      `json:"order_id"`
	ProviderSessionID string         `json:"provider_session_id"`
	Currency          string         `json:"currency"`
	SubtotalCents     int            `json:"subtotal_cents"`
	TotalCents        int            `json:"total_cents"`
	TotalDisplay      string         `json:"total_display"`
	PlacedAt          time.Time      `json:"placed_at"`
	Items             []OrderItemDTO `json:"items"`
}

// OrderItemDTO is one purchased line.
type OrderItemDTO struct {
	VariantID      uuid.UUID `json:"variant_id"`
	SKU            string    `json:"sku"`
	Title          string    `json:"title"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unit_price_cents"`
}

// ServiceParams collects the checkout service dependencies.
type ServiceParams struct {
	CheckoutRepo      CheckoutRepository
	CartRepo          cart.CartRepository
	Catalog           VariantCatalog
	Provider          PaymentProvider
	Guard             FinalizeGuard
	TransactionRunner txRunner
	Outbox            eventEmitter
	Metrics           *metrics.CheckoutMetrics
	BaseURL           string
	Logger            *logger.Logger
}

type service struct {
	repo     CheckoutRepository
	carts    cart.CartRepository
	catalog  VariantCatalog
	provider PaymentProvider
	guard    FinalizeGuard
	txRunner txRunner
	outbox   eventEmitter
	metrics  *metrics.CheckoutMetrics
	baseURL  string
	logg     *logger.Logger
}

// NewService validates dependencies and builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.CheckoutRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout repo required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repo required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repo required")
	}
	if params.Provider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment provider required")
	}
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "finalize guard required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "outbox emitter required")
	}
	return &service{
		repo:     params.CheckoutRepo,
		carts:    params.CartRepo,
		catalog:  params.Catalog,
		provider: params.Provider,
		guard:    params.Guard,
		txRunner: params.TransactionRunner,
		outbox:   params.Outbox,
		metrics:  params.Metrics,
		baseURL:  strings.TrimRight(params.BaseURL, "/"),
		logg:     params.Logger,
	}, nil
}

func (s *service) Begin(ctx context.Context, input BeginInput) (*BeginResult, error) {
	record, err := s.loadCart(ctx, input.CartToken)
	if err != nil {
		return nil, err
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	loc := input.Locale
	if !locale.IsSupported(loc) {
		loc = locale.Default
	}

	lines := make([]ProviderLine, 0, len(record.Items))
	for _, item := range record.Items {
		variant, err := s.catalog.FindVariantByID(ctx, item.VariantID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variant for checkout")
		}
		lines = append(lines, ProviderLine{
			Name:            variantTitle(variant, loc),
			UnitAmountCents: item.UnitPriceCents,
			Quantity:        item.Quantity,
		})
	}

	req := ProviderSessionRequest{
		Reference:  record.Token,
		Currency:   record.Currency.String(),
		Locale:     loc,
		SuccessURL: fmt.Sprintf("%s/%s/checkout/confirm?session_id={CHECKOUT_SESSION_ID}", s.baseURL, loc),
		CancelURL:  fmt.Sprintf("%s/%s/cart", s.baseURL, loc),
		Lines:      lines,
	}

	start := time.Now()
	providerSession, err := s.provider.CreateCheckoutSession(ctx, req)
	s.metrics.ObserveProviderLatency("create_session", time.Since(start))
	if err != nil {
		return nil, err
	}

	session := &models.CheckoutSession{
		CartID:            record.ID,
		UserID:            input.UserID,
		ProviderSessionID: providerSession.ID,
		Status:            enums.CheckoutStatusSessionCreated,
		AmountCents:       record.SubtotalCents(),
		Currency:          record.Currency,
	}
	if _, err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record checkout session")
	}

	s.metrics.IncSessionStarted(record.Currency.String())
	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("checkout session started (%s)", providerSession.ID))
	}
	return &BeginResult{
		RedirectURL:       providerSession.URL,
		ProviderSessionID: providerSession.ID,
	}, nil
}

// Finalize turns a confirmed provider session into an order exactly once.
// Both the webhook and the confirmation page land here, in any order and any
// number of times.
func (s *service) Finalize(ctx context.Context, providerSessionID string) (*OrderDTO, error) {
	if providerSessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider session id required")
	}

	duplicate, err := s.guard.CheckAndMark(ctx, providerSessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: finalize guard")
	}
	if duplicate {
		s.metrics.IncFinalizeDuplicate()
		existing, findErr := s.repo.FindOrderByProviderSessionID(ctx, providerSessionID)
		if findErr == nil {
			return newOrderDTO(existing), nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order finalization in progress")
	}

	session, err := s.repo.FindSessionByProviderID(ctx, providerSessionID)
	if err != nil {
		s.releaseGuard(ctx, providerSessionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load checkout session")
	}
	if session.Status == enums.CheckoutStatusOrderFinalized {
		existing, findErr := s.repo.FindOrderByProviderSessionID(ctx, providerSessionID)
		if findErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "db: load finalized order")
		}
		return newOrderDTO(existing), nil
	}

	record, err := s.carts.FindByID(ctx, session.CartID)
	if err != nil {
		s.releaseGuard(ctx, providerSessionID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart for finalize")
	}

	order, err := s.buildOrder(ctx, session, record)
	if err != nil {
		s.releaseGuard(ctx, providerSessionID)
		return nil, err
	}

	txErr := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		carts := s.carts.WithTx(tx)

		if err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}
		if err := carts.UpdateStatus(ctx, record.ID, enums.CartStatusConverted); err != nil {
			return err
		}
		if err := repo.UpdateSessionStatus(ctx, session.ID, enums.CheckoutStatusOrderFinalized); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderFinalized,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: outbox.OrderFinalizedData{
				OrderID:           order.ID,
				UserID:            order.UserID,
				ProviderSessionID: order.ProviderSessionID,
				Currency:          order.Currency.String(),
				TotalCents:        order.TotalCents,
				PlacedAt:          order.PlacedAt,
			},
		})
	})
	if txErr != nil {
		if db.IsUniqueViolation(txErr, ordersProviderSessionIndex) {
			s.metrics.IncFinalizeDuplicate()
			existing, findErr := s.repo.FindOrderByProviderSessionID(ctx, providerSessionID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "db: load concurrent order")
			}
			return newOrderDTO(existing), nil
		}
		s.releaseGuard(ctx, providerSessionID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "db: finalize order")
	}

	s.metrics.IncOrderFinalized()
	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("order finalized (%s)", order.ID))
	}
	return newOrderDTO(order), nil
}

func (s *service) loadCart(ctx context.Context, token string) (*models.CartRecord, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	record, err := s.carts.FindActiveByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}
	return record, nil
}

func (s *service) buildOrder(ctx context.Context, session *models.CheckoutSession, record *models.CartRecord) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(record.Items))
	for _, line := range record.Items {
		variant, err := s.catalog.FindVariantByID(ctx, line.VariantID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variant for order")
		}
		items = append(items, models.OrderItem{
			VariantID:      variant.ID,
			SKU:            variant.SKU,
			Title:          variantTitle(variant, locale.Default),
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	subtotal := record.SubtotalCents()
	return &models.Order{
		UserID:            session.UserID,
		ProviderSessionID: session.ProviderSessionID,
		Currency:          session.Currency,
		SubtotalCents:     subtotal,
		TotalCents:        subtotal,
		FulfillmentStatus: enums.FulfillmentStatusPending,
		Items:             items,
		PlacedAt:          time.Now(),
	}, nil
}

func (s *service) releaseGuard(ctx context.Context, providerSessionID string) {
	if err := s.guard.Delete(ctx, providerSessionID); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("release finalize guard (%s): %v", providerSessionID, err))
	}
}

func variantTitle(variant *models.ProductVariant, loc string) string {
	if variant == nil {
		return ""
	}
	if variant.Product != nil {
		if loc == locale.English && variant.Product.TitleEN != "" {
			return variant.Product.TitleEN
		}
		if variant.Product.TitleFR != "" {
			return variant.Product.TitleFR
		}
	}
	return variant.SKU
}

func newOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			VariantID:      item.VariantID,
			SKU:            item.SKU,
			Title:          item.Title,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return &OrderDTO{
		OrderID:           order.ID,
		ProviderSessionID: order.ProviderSessionID,
		Currency:          order.Currency.String(),
		SubtotalCents:     order.SubtotalCents,
		TotalCents:        order.TotalCents,
		TotalDisplay:      money.String(order.TotalCents),
		PlacedAt:          order.PlacedAt,
		Items:             items,
	}
}
