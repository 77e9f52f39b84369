package gorm

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/store"
)

// ReserveMnemonics registers aliases for a credential. The unique index on
// mnemonic names backstops concurrent reservations; a collision comes back
// as store.ErrDuplicateMnemonic.
func (s *Store) ReserveMnemonics(credentialID uint, names []string) error {
	if len(names) == 0 {
		return nil
	}
	rows := make([]model.Mnemonic, 0, len(names))
	for _, name := range names {
		rows = append(rows, model.Mnemonic{Name: name, CredentialID: credentialID})
	}
	if err := s.db.Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateMnemonic
		}
		return err
	}
	return nil
}

// ReleaseMnemonics drops every alias registered to a credential.
func (s *Store) ReleaseMnemonics(credentialID uint) error {
	return s.db.Where("credential_id = ?", credentialID).Delete(&model.Mnemonic{}).Error
}

// TakenMnemonics reports which of the given names are already registered,
// optionally ignoring aliases owned by one credential.
func (s *Store) TakenMnemonics(names []string, excludeCredentialID uint) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	query := s.db.Model(&model.Mnemonic{}).Where("name IN ?", names)
	if excludeCredentialID != 0 {
		query = query.Where("credential_id <> ?", excludeCredentialID)
	}
	var taken []string
	if err := query.Order("name").Pluck("name", &taken).Error; err != nil {
		return nil, err
	}
	return taken, nil
}

// CountMnemonics reports the number of registered aliases.
func (s *Store) CountMnemonics() (int64, error) {
	var count int64
	tx := s.db.Model(&model.Mnemonic{}).Count(&count)
	return count, tx.Error
}

// isUniqueViolation recognizes unique-constraint failures. Drivers opened
// with TranslateError report gorm.ErrDuplicatedKey; the string checks cover
// connections opened without it.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
