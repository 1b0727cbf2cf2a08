package gateway

import (
	"context"

	"escrowd/internal/access"
	"escrowd/internal/repositories"
)

// Service is the settlement gateway: it splits an escrowed payment between
// the merchant and the platform vault, exactly once, at the point funds
// leave escrow.
type Service interface {
	// AcceptPayment moves value out of the source escrow account: value-fee
	// to the destination, fee to the vault, atomically.
	AcceptPayment(ctx context.Context, caller, source, destination string, value, fee int64) error
	// AcceptPaymentTx is AcceptPayment running inside an enclosing store
	// transaction, used by processors so the whole settlement commits as one
	// unit.
	AcceptPaymentTx(tx *repositories.Store, caller, source, destination string, value, fee int64) error
	// ChangeVault points fee collection at a new vault account. Owner only.
	ChangeVault(ctx context.Context, caller, vault string) error

	Vault() string
	MaxFee(value int64) int64
	Fees() FeePolicy
	Control() *access.Control
}
