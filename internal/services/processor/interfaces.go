package processor

import (
	"context"

	"escrowd/internal/access"
	"escrowd/internal/models"
	"escrowd/internal/repositories"
	"escrowd/internal/services/gateway"
)

// Gateway is the settlement collaborator: it alone splits value between the
// merchant and the vault.
type Gateway interface {
	AcceptPaymentTx(tx *repositories.Store, caller, source, destination string, value, fee int64) error
	Fees() gateway.FeePolicy
}

// MerchantWallet is the custody collaborator. The processor validates its
// merchant identity before trusting it with settlements.
type MerchantWallet interface {
	MerchantID() string
	DestinationAddressTx(tx *repositories.Store) (string, error)
	SetCompositeReputationTx(tx *repositories.Store, caller, category string, value int64) error
}

// DealsHistory is the audit collaborator, also identity-checked.
type DealsHistory interface {
	MerchantID() string
	RecordDealTx(tx *repositories.Store, caller string, orderID int64, dealHash string, clientRep, merchantRep int64, successful bool, note string) error
}

// Service is the order processor: the escrow state machine for one merchant.
type Service interface {
	MerchantID() string
	EscrowAddress() string
	Order(ctx context.Context, orderID int64) (*models.Order, error)

	// AddOrder registers a new order in Created state. Operator only.
	AddOrder(ctx context.Context, caller string, orderID, price int64, acceptor, origin string, fee int64) error
	// SecurePay escrows exactly the order price from the order's acceptor.
	SecurePay(ctx context.Context, caller string, orderID, amount int64) error
	// ProcessPayment finalizes a paid order: splits the escrowed price via
	// the gateway, writes merchant reputation, records the deal.
	ProcessPayment(ctx context.Context, caller string, orderID, clientRep, merchantRep int64, dealHash string) error
	// RefundPayment stages the escrowed price for pull-withdrawal by the
	// order's origin. Funds do not move yet.
	RefundPayment(ctx context.Context, caller string, orderID, clientRep, merchantRep int64, dealHash, note string) error
	// WithdrawRefund releases a staged refund. Callable by anyone, exactly
	// once per order, available even while paused.
	WithdrawRefund(ctx context.Context, orderID int64) error
	// CancelOrder cancels an order before payment. No funds move.
	CancelOrder(ctx context.Context, caller string, orderID, clientRep, merchantRep int64, dealHash, note string) error

	// PayForOrder pays and settles in one step, without a pre-created order
	// record. The fee is capped by the gateway's permille policy.
	PayForOrder(ctx context.Context, caller string, orderID int64, origin string, fee, amount int64) error
	// RefundDirect stages a refund funded by the calling operator for an
	// order settled through PayForOrder.
	RefundDirect(ctx context.Context, caller string, orderID int64, clientAddress, note string, amount int64) error

	SetGateway(caller string, gw Gateway) error
	SetDealsHistory(caller string, h DealsHistory) error
	SetWallet(caller string, w MerchantWallet) error
	Control() *access.Control
}
