package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/store"
)

// CreateVault inserts the vault row.
func (s *Store) CreateVault(v *model.Vault) error {
	return s.db.Create(v).Error
}

// FetchVault retrieves the vault row. Returns store.ErrVaultNotFound if the
// vault was never initialized.
func (s *Store) FetchVault() (*model.Vault, error) {
	var vault model.Vault
	tx := s.db.First(&vault)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrVaultNotFound
		}
		return nil, tx.Error
	}
	return &vault, nil
}

// SaveVault persists all columns of an existing vault row.
func (s *Store) SaveVault(v *model.Vault) error {
	return s.db.Save(v).Error
}

// PurgeVault deletes the vault row and every dependent row. Safe to call on
// an uninitialized database.
func (s *Store) PurgeVault() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Mnemonic{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Credential{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Vault{}).Error
	})
}
