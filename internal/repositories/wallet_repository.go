package repositories

import (
	"escrowd/internal/models"
)

// WalletRepository stores merchant custody wallets and their key/value
// profile, payment settings and composite reputation maps.
type WalletRepository interface {
	GetByMerchantID(merchantID string) (*models.MerchantWallet, error)
	Create(wallet *models.MerchantWallet) error
	Update(wallet *models.MerchantWallet) error

	UpsertProfile(merchantID, key, value string) error
	GetProfile(merchantID, key string) (string, error)

	UpsertSetting(merchantID, key, value string) error
	GetSetting(merchantID, key string) (string, error)

	UpsertReputation(merchantID, category string, score int64) error
	GetReputation(merchantID, category string) (int64, error)
}
