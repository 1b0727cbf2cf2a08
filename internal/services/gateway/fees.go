package gateway

// DefaultFeePermille is the platform fee rate: 1.5% in parts per thousand.
const DefaultFeePermille = 15

// FeePolicy is the single fee-configuration object shared by the gateway and
// the processors. The gateway enforces the permille cap at the point funds
// leave escrow; processors that carry an explicit per-order fee use
// CheckExplicit when the order is created.
type FeePolicy struct {
	Permille int64
}

// NewFeePolicy returns a policy with the given permille rate, falling back
// to the platform default when rate is not positive.
func NewFeePolicy(permille int64) FeePolicy {
	if permille <= 0 {
		permille = DefaultFeePermille
	}
	return FeePolicy{Permille: permille}
}

// MaxFee returns the highest fee permitted for a payment of the given value.
func (p FeePolicy) MaxFee(value int64) int64 {
	return value * p.Permille / 1000
}

// Check validates a caller-supplied fee against the permille cap.
func (p FeePolicy) Check(value, fee int64) error {
	if fee < 0 || fee > p.MaxFee(value) {
		return ErrFeeExceedsLimit
	}
	return nil
}

// CheckExplicit validates an explicit per-order fee amount: it may never
// exceed the order price.
func (p FeePolicy) CheckExplicit(price, fee int64) error {
	if fee < 0 || fee > price {
		return ErrFeeExceedsLimit
	}
	return nil
}
