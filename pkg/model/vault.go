package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vault is the single per-database vault row. It carries everything needed
// to verify the master password and derive the vault key: the KDF salt and
// iteration count, and the one-way key check value. Neither the master
// password nor the vault key is ever persisted.
type Vault struct {
	ID            uint      `gorm:"primaryKey"`
	UUID          string    `gorm:"column:uuid;uniqueIndex;not null"`
	Name          string    `gorm:"column:name"`
	OwnerName     string    `gorm:"column:owner_name"`
	OwnerEmail    string    `gorm:"column:owner_email"`
	KDFSalt       []byte    `gorm:"column:kdf_salt;not null"`
	KDFIterations int       `gorm:"column:kdf_iterations;not null"`
	KeyCheck      string    `gorm:"column:key_check;not null"`
	SessionCheck  bool      `gorm:"column:session_check"`
	SessionTTL    int       `gorm:"column:session_ttl"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Vault) TableName() string {
	return "vault"
}

func (v *Vault) BeforeCreate(tx *gorm.DB) error {
	if v.UUID == "" {
		v.UUID = uuid.NewString()
	}
	return nil
}
