package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"

	"github.com/maisonlumiere/boutique-backend/pkg/config"
	pkgerrors "github.com/maisonlumiere/boutique-backend/pkg/errors"
	pkgstripe "github.com/maisonlumiere/boutique-backend/pkg/stripe"
)

// ProviderLine is one purchasable line sent to the hosted checkout page.
type ProviderLine struct {
	Name            string
	UnitAmountCents int
	Quantity        int
}

// ProviderSessionRequest describes the hosted session to create.
type ProviderSessionRequest struct {
	Reference  string
	Currency   string
	Locale     string
	SuccessURL string
	CancelURL  string
	Lines      []ProviderLine
}

// ProviderSession is the provider's handle on a hosted checkout page.
type ProviderSession struct {
	ID  string
	URL string
}

type stripeProvider struct {
	timeout time.Duration
}

// NewStripeProvider adapts Stripe hosted checkout to the PaymentProvider
// interface. The api argument is only required to prove initialization.
func NewStripeProvider(api *pkgstripe.Client, cfg config.CheckoutConfig) (PaymentProvider, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &stripeProvider{timeout: timeout}, nil
}

func (p *stripeProvider) CreateCheckoutSession(ctx context.Context, req ProviderSessionRequest) (*ProviderSession, error) {
	if len(req.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	currency := strings.ToLower(req.Currency)
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.Reference),
	}
	if req.Locale != "" {
		params.Locale = stripe.String(req.Locale)
	}
	for _, line := range req.Lines {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(line.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(int64(line.UnitAmountCents)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
		})
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	params.Context = ctx

	created, err := session.New(params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stripe: create checkout session")
	}
	return &ProviderSession{ID: created.ID, URL: created.URL}, nil
}
