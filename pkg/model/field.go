package model

//go:generate go run github.com/dmarkham/enumer -type Field -trimprefix Field -transform snake -output field.gen.go

// Field identifies one of the optional encrypted attributes of a
// credential. The string form is the snake_case column name, which also
// serves as the field half of the ciphertext AAD binding.
type Field int

const (
	FieldUsername Field = iota
	FieldPassword
	FieldURL
	FieldPrimaryEmail
	FieldSecondaryEmail
	FieldToken
	FieldRecoveryKey
	FieldNotes
)
