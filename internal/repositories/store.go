package repositories

import (
	"gorm.io/gorm"
)

// Store bundles all repositories over one gorm handle. Engine operations run
// against a transactional Store obtained from ExecuteInTransaction, so every
// operation either commits completely or leaves no trace.
type Store struct {
	db *gorm.DB

	Accounts   AccountRepository
	Orders     OrderRepository
	Wallets    WalletRepository
	Deals      DealRepository
	Users      UserRepository
	Claims     ClaimRepository
	RoleSets   RoleSetRepository
	Acceptors  AcceptorRepository
	Principals PrincipalRepository
}

// NewStore builds a store over the given gorm handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Accounts:   NewAccountRepository(db),
		Orders:     NewOrderRepository(db),
		Wallets:    NewWalletRepository(db),
		Deals:      NewDealRepository(db),
		Users:      NewUserRepository(db),
		Claims:     NewClaimRepository(db),
		RoleSets:   NewRoleSetRepository(db),
		Acceptors:  NewAcceptorRepository(db),
		Principals: NewPrincipalRepository(db),
	}
}

// DB exposes the underlying handle for migrations and health checks.
func (s *Store) DB() *gorm.DB { return s.db }

// ExecuteInTransaction runs fn against a store bound to a single database
// transaction. An error from fn rolls everything back.
func (s *Store) ExecuteInTransaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
