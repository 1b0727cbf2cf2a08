package repositories

import (
	"errors"
	"fmt"

	"escrowd/internal/models"

	"gorm.io/gorm"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetByMerchantID(merchantID string) (*models.MerchantWallet, error) {
	var wallet models.MerchantWallet
	if err := r.db.Where("merchant_id = ?", merchantID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) Create(wallet *models.MerchantWallet) error {
	if err := r.db.Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) Update(wallet *models.MerchantWallet) error {
	if err := r.db.Save(wallet).Error; err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) UpsertProfile(merchantID, key, value string) error {
	var entry models.WalletProfile
	err := r.db.Where("merchant_id = ? AND key = ?", merchantID, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry = models.WalletProfile{MerchantID: merchantID, Key: key, Value: value}
		return r.db.Create(&entry).Error
	}
	if err != nil {
		return fmt.Errorf("failed to get profile entry: %w", err)
	}
	entry.Value = value
	return r.db.Save(&entry).Error
}

func (r *walletRepository) GetProfile(merchantID, key string) (string, error) {
	var entry models.WalletProfile
	err := r.db.Where("merchant_id = ? AND key = ?", merchantID, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get profile entry: %w", err)
	}
	return entry.Value, nil
}

func (r *walletRepository) UpsertSetting(merchantID, key, value string) error {
	var entry models.WalletSetting
	err := r.db.Where("merchant_id = ? AND key = ?", merchantID, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry = models.WalletSetting{MerchantID: merchantID, Key: key, Value: value}
		return r.db.Create(&entry).Error
	}
	if err != nil {
		return fmt.Errorf("failed to get setting entry: %w", err)
	}
	entry.Value = value
	return r.db.Save(&entry).Error
}

func (r *walletRepository) GetSetting(merchantID, key string) (string, error) {
	var entry models.WalletSetting
	err := r.db.Where("merchant_id = ? AND key = ?", merchantID, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting entry: %w", err)
	}
	return entry.Value, nil
}

func (r *walletRepository) UpsertReputation(merchantID, category string, score int64) error {
	var entry models.WalletReputation
	err := r.db.Where("merchant_id = ? AND category = ?", merchantID, category).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry = models.WalletReputation{MerchantID: merchantID, Category: category, Score: score}
		return r.db.Create(&entry).Error
	}
	if err != nil {
		return fmt.Errorf("failed to get reputation entry: %w", err)
	}
	entry.Score = score
	return r.db.Save(&entry).Error
}

func (r *walletRepository) GetReputation(merchantID, category string) (int64, error) {
	var entry models.WalletReputation
	err := r.db.Where("merchant_id = ? AND category = ?", merchantID, category).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get reputation entry: %w", err)
	}
	return entry.Score, nil
}
