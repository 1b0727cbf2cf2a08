package payout

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v72"
	stripepayout "github.com/stripe/stripe-go/v72/payout"
)

// StripeProvider creates Stripe payouts for exchange withdrawals.
type StripeProvider struct {
	currency string
}

// NewStripeProvider configures the Stripe client with the platform API key.
func NewStripeProvider(apiKey, currency string) *StripeProvider {
	stripe.Key = apiKey
	if currency == "" {
		currency = "usd"
	}
	return &StripeProvider{currency: currency}
}

func (p *StripeProvider) Payout(ctx context.Context, recipient string, amount int64, reference string) error {
	params := &stripe.PayoutParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(p.currency),
		Destination: stripe.String(recipient),
		Method:      stripe.String("standard"),
	}
	params.Context = ctx
	params.AddMetadata("reference", reference)

	if _, err := stripepayout.New(params); err != nil {
		return fmt.Errorf("stripe payout failed: %w", err)
	}
	return nil
}
