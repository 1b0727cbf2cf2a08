// Package payout routes exchange withdrawals to an external money rail.
package payout

import (
	"context"
	"log"
)

// Provider executes a payout to an external exchange account once the ledger
// side of a withdrawal has been booked.
type Provider interface {
	Payout(ctx context.Context, recipient string, amount int64, reference string) error
}

// NoopProvider is used when no external rail is configured; the ledger
// transfer is the whole settlement.
type NoopProvider struct{}

func (NoopProvider) Payout(ctx context.Context, recipient string, amount int64, reference string) error {
	log.Printf("payout: no provider configured, ledger-only payout of %d to %s (%s)", amount, recipient, reference)
	return nil
}
