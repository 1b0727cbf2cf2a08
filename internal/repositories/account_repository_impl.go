package repositories

import (
	"errors"
	"fmt"

	"escrowd/internal/models"

	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(address string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("address = ?", address).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetOrCreate(address string) (*models.Account, error) {
	account, err := r.Get(address)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}
	account = &models.Account{Address: address}
	if err := r.db.Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

func (r *accountRepository) Create(account *models.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) Credit(address string, amount int64) error {
	account, err := r.GetOrCreate(address)
	if err != nil {
		return err
	}
	account.Balance += amount
	if err := r.db.Save(account).Error; err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}
	return nil
}

func (r *accountRepository) Debit(address string, amount int64) error {
	account, err := r.Get(address)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrInsufficientFunds
		}
		return err
	}
	if account.Balance < amount {
		return ErrInsufficientFunds
	}
	account.Balance -= amount
	if err := r.db.Save(account).Error; err != nil {
		return fmt.Errorf("failed to debit account: %w", err)
	}
	return nil
}

func (r *accountRepository) Transfer(from, to string, amount int64) error {
	if err := r.Debit(from, amount); err != nil {
		return err
	}
	return r.Credit(to, amount)
}

func (r *accountRepository) Balance(address string) (int64, error) {
	account, err := r.Get(address)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return account.Balance, nil
}
