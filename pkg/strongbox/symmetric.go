package strongbox

import (
	"crypto/aes"
	"crypto/cipher"
)

const ivSize = 12
const tagSize = aes.BlockSize
const versionMagic = byte('V')

// KeySize is the symmetric key size in bytes (AES-256).
const KeySize = 32

// SymmetricCipher is authenticated encryption over individual values.
// Packed ciphertext format: "#{VERSION_MAGIC}#{tag}#{iv}#{ctext}".
type SymmetricCipher interface {
	Decrypt(aad, packedText []byte) ([]byte, error)
	Encrypt(aad, plainText []byte) ([]byte, error)
}

type Symmetric struct {
	aesgcm cipher.AEAD
}

func NewSymmetric(key []byte) (SymmetricCipher, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	return &Symmetric{aesgcm: aesgcm}, nil
}

// Decrypt opens a packed ciphertext. Any truncation, tamper, or key
// mismatch yields ErrIntegrity; partial plaintext is never returned.
func (s Symmetric) Decrypt(aad, packedText []byte) ([]byte, error) {
	if len(packedText) < 1+tagSize+ivSize {
		return nil, ErrIntegrity
	}
	if packedText[0] != versionMagic {
		return nil, ErrIntegrity
	}

	cipherText, iv := UnpackCipherData(packedText)

	plainText, err := s.aesgcm.Open(nil, iv, cipherText, aad)
	if err != nil {
		return nil, ErrIntegrity
	}

	return plainText, nil
}

func (s Symmetric) encrypt(aad, plainText, nonce []byte) ([]byte, error) {
	if len(nonce) < ivSize {
		return nil, ErrIntegrity
	}

	cipherTextWithTag := s.aesgcm.Seal(nil, nonce, plainText, aad)
	packedText := PackCipherData(cipherTextWithTag, nonce)

	return packedText, nil
}

// Encrypt seals plainText bound to aad. A fresh random nonce is drawn on
// every call; callers cannot supply one, so nonce reuse under a key is
// ruled out by construction.
func (s Symmetric) Encrypt(aad, plainText []byte) ([]byte, error) {
	nonce, err := RandomNonce()
	if err != nil {
		return nil, err
	}

	return s.encrypt(aad, plainText, nonce)
}

func PackCipherData(cipherTextWithTag []byte, iv []byte) []byte {
	iv = iv[:ivSize]

	tagStartIndex := len(cipherTextWithTag) - tagSize
	tag := cipherTextWithTag[tagStartIndex:]
	cipherText := cipherTextWithTag[:tagStartIndex]

	dataLength := 1 + tagSize + ivSize + len(cipherText)
	data := make([]byte, dataLength)

	data[0] = versionMagic
	index := 1

	copy(data[index:], tag)
	index += tagSize

	copy(data[index:], iv)
	index += ivSize

	copy(data[index:], cipherText)

	return data
}

func UnpackCipherData(packedText []byte) ([]byte, []byte) {
	index := 1

	nextIndex := index + tagSize
	tag := packedText[index:nextIndex]
	index = nextIndex

	nextIndex = index + ivSize
	iv := packedText[index:nextIndex]
	index = nextIndex

	cipherText := make([]byte, 0, len(packedText)-index+tagSize)
	cipherText = append(cipherText, packedText[index:]...)
	cipherText = append(cipherText, tag...)

	return cipherText, iv
}
