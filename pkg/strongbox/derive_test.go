package strongbox

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	kdf, err := NewKDF()
	if err != nil {
		t.Fatalf("failed to create KDF: %v", err)
	}

	key1 := kdf.DeriveKey("Secret123")
	key2 := kdf.DeriveKey("Secret123")

	if !bytes.Equal(key1, key2) {
		t.Error("same password and salt should derive the same key")
	}
	if len(key1) != KeySize {
		t.Errorf("derived key should be %d bytes, got %d", KeySize, len(key1))
	}
}

func TestDeriveKeyDifferentPasswords(t *testing.T) {
	kdf, err := NewKDF()
	if err != nil {
		t.Fatalf("failed to create KDF: %v", err)
	}

	key1 := kdf.DeriveKey("Secret123")
	key2 := kdf.DeriveKey("Secret124")

	if bytes.Equal(key1, key2) {
		t.Error("different passwords should derive different keys")
	}
}

func TestDeriveKeyDifferentSalts(t *testing.T) {
	kdf1, _ := NewKDF()
	kdf2, _ := NewKDF()

	if bytes.Equal(kdf1.Salt, kdf2.Salt) {
		t.Fatal("two KDFs should get distinct random salts")
	}

	key1 := kdf1.DeriveKey("Secret123")
	key2 := kdf2.DeriveKey("Secret123")

	if bytes.Equal(key1, key2) {
		t.Error("same password with different salts should derive different keys")
	}
}

func TestDeriveKeyIterationsMatter(t *testing.T) {
	kdf, _ := NewKDF()
	key1 := kdf.DeriveKey("Secret123")

	lighter := &KDF{Salt: kdf.Salt, Iterations: kdf.Iterations / 2}
	key2 := lighter.DeriveKey("Secret123")

	if bytes.Equal(key1, key2) {
		t.Error("changing iteration count should change the derived key")
	}
}

func TestVerifyKey(t *testing.T) {
	kdf, _ := NewKDF()
	key := kdf.DeriveKey("Secret123")
	check := KeyCheck(key)

	if err := VerifyKey(key, check); err != nil {
		t.Errorf("correct key should verify, got %v", err)
	}

	wrong := kdf.DeriveKey("not-the-password")
	if err := VerifyKey(wrong, check); !errors.Is(err, ErrAuthentication) {
		t.Errorf("wrong key should yield ErrAuthentication, got %v", err)
	}
}

func TestVerifyKeyMalformedCheck(t *testing.T) {
	kdf, _ := NewKDF()
	key := kdf.DeriveKey("Secret123")

	// A corrupted artifact must fail closed, and with the same generic
	// error as a wrong password.
	for _, check := range []string{"", "zz", "deadbeef"} {
		if err := VerifyKey(key, check); !errors.Is(err, ErrAuthentication) {
			t.Errorf("check %q: expected ErrAuthentication, got %v", check, err)
		}
	}
}

func TestKeyCheckIsNotTheKey(t *testing.T) {
	kdf, _ := NewKDF()
	key := kdf.DeriveKey("Secret123")
	check := KeyCheck(key)

	if bytes.Contains([]byte(check), key) {
		t.Error("check value must not contain the raw key")
	}
	if check != KeyCheck(key) {
		t.Error("check value should be deterministic")
	}
}

func TestWipe(t *testing.T) {
	key := []byte{1, 2, 3, 4}
	Wipe(key)
	for i, b := range key {
		if b != 0 {
			t.Errorf("byte %d not zeroized", i)
		}
	}
}
