// Package strongbox provides the cryptographic core of VaultSafe: vault
// key derivation, per-credential key envelopes, and field-level
// authenticated encryption.
//
// # Vault Key Derivation
//
// The vault key is derived from the master password with PBKDF2-HMAC-SHA256
// over a per-vault random salt:
//
//	kdf, err := strongbox.NewKDF()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vaultKey := kdf.DeriveKey(masterPassword)
//	defer strongbox.Wipe(vaultKey)
//
// A one-way check value (KeyCheck) is persisted so the master password can
// be verified on unlock without storing the password or the key.
//
// # Key Envelopes
//
// Every credential gets its own random data key, sealed under the vault
// key:
//
//	dataKey, _ := strongbox.GenerateDataKey()
//	sealed, _ := strongbox.Seal(vaultKey, dataKey, []byte(credentialUUID))
//	dataKey, err = strongbox.Unseal(vaultKey, sealed, []byte(credentialUUID))
//
// Unseal reports ErrIntegrity for corrupted blobs and ErrAuthentication
// for a wrong vault key.
//
// # Field Encryption
//
// Individual fields are encrypted independently under the data key with
// associated data binding each ciphertext to its credential and field:
//
//	cipher, _ := strongbox.NewSymmetric(dataKey)
//	packed, _ := cipher.Encrypt([]byte(uuid+"/password"), []byte("hunter2"))
//	plain, err := cipher.Decrypt([]byte(uuid+"/password"), packed)
//
// Every Encrypt call draws a fresh random nonce. Decrypt failures are
// always ErrIntegrity; the cipher never yields partial plaintext.
package strongbox
