package model

// Mnemonic is a lookup alias for a credential. The alias text is unique
// across the entire vault regardless of which credential it points to;
// many mnemonics may point at one credential.
type Mnemonic struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"column:name;uniqueIndex;not null"`
	CredentialID uint   `gorm:"column:credential_id;not null;index"`
}

func (Mnemonic) TableName() string {
	return "mnemonic"
}
