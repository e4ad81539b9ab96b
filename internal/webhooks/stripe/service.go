package stripewebhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v84"

	"github.com/maisonlumiere/boutique-backend/internal/checkout"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
	"github.com/maisonlumiere/boutique-backend/pkg/logger"
	"github.com/maisonlumiere/boutique-backend/pkg/metrics"
)

type orderFinalizer interface {
	Finalize(ctx context.Context, providerSessionID string) (*checkout.OrderDTO, error)
}

type ServiceParams struct {
	Checkout orderFinalizer
	Metrics  *metrics.CheckoutMetrics
	Logger   *logger.Logger
}

// Service routes verified Stripe events to the checkout domain.
type Service struct {
	checkout orderFinalizer
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Checkout == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout service required")
	}
	return &Service{
		checkout: params.Checkout,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// HandleEvent processes one verified event. Unhandled event types are
// acknowledged without side effects so Stripe stops retrying them.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			s.metrics.IncWebhookEvent(string(event.Type), "decode_error")
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		if session.ID == "" {
			s.metrics.IncWebhookEvent(string(event.Type), "invalid")
			return pkgerrors.New(pkgerrors.CodeValidation, "checkout session id missing")
		}
		if _, err := s.checkout.Finalize(ctx, session.ID); err != nil {
			s.metrics.IncWebhookEvent(string(event.Type), "error")
			return err
		}
		s.metrics.IncWebhookEvent(string(event.Type), "processed")
		if s.logg != nil {
			s.logg.Info(ctx, fmt.Sprintf("stripe checkout session completed (%s)", session.ID))
		}
		return nil
	case stripe.EventTypeCheckoutSessionExpired:
		s.metrics.IncWebhookEvent(string(event.Type), "ignored")
		return nil
	default:
		s.metrics.IncWebhookEvent(string(event.Type), "ignored")
		return nil
	}
}
