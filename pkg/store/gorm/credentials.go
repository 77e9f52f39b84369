package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/store"
)

// CreateCredential inserts a credential row.
func (s *Store) CreateCredential(c *model.Credential) error {
	// Mnemonics are registered separately through ReserveMnemonics so the
	// registry check stays in one place.
	return s.db.Omit("Mnemonics").Create(c).Error
}

// FetchCredential retrieves a credential by UUID with its mnemonics loaded.
func (s *Store) FetchCredential(uuid string) (*model.Credential, error) {
	var credential model.Credential
	tx := s.db.Preload("Mnemonics").Where("uuid = ?", uuid).First(&credential)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrCredentialNotFound
		}
		return nil, tx.Error
	}
	return &credential, nil
}

// FetchCredentialByMnemonic resolves an alias to its credential.
func (s *Store) FetchCredentialByMnemonic(alias string) (*model.Credential, error) {
	var mnemonic model.Mnemonic
	tx := s.db.Where("name = ?", alias).First(&mnemonic)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrMnemonicNotFound
		}
		return nil, tx.Error
	}

	var credential model.Credential
	tx = s.db.Preload("Mnemonics").First(&credential, mnemonic.CredentialID)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrCredentialNotFound
		}
		return nil, tx.Error
	}
	return &credential, nil
}

// ListCredentials returns every credential ordered by name.
func (s *Store) ListCredentials() ([]model.Credential, error) {
	var credentials []model.Credential
	tx := s.db.Preload("Mnemonics").Order("name").Find(&credentials)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return credentials, nil
}

// CountCredentials reports the number of stored credentials.
func (s *Store) CountCredentials() (int64, error) {
	var count int64
	tx := s.db.Model(&model.Credential{}).Count(&count)
	return count, tx.Error
}

// SaveCredential persists all columns of an existing credential row. Save
// writes every column, so fields cleared to nil land as NULL.
func (s *Store) SaveCredential(c *model.Credential) error {
	return s.db.Omit("Mnemonics").Save(c).Error
}

// DeleteCredential removes a credential row and its aliases.
func (s *Store) DeleteCredential(c *model.Credential) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("credential_id = ?", c.ID).Delete(&model.Mnemonic{}).Error; err != nil {
			return err
		}
		return tx.Delete(c).Error
	})
}
