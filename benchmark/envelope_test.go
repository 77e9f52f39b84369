package benchmark

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/indrajit912/vaultsafe/pkg/db"
	"github.com/indrajit912/vaultsafe/pkg/model"
	gormstore "github.com/indrajit912/vaultsafe/pkg/store/gorm"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// BenchmarkDeriveKey measures the PBKDF2 vault-key derivation. This is the
// deliberate cost of every unlock; raising the iteration count raises it.
func BenchmarkDeriveKey(b *testing.B) {
	salt, err := strongbox.RandomBytes(strongbox.SaltSize)
	if err != nil {
		b.Fatal(err)
	}

	for _, iterations := range []int{100_000, strongbox.DefaultIterations} {
		kdf := &strongbox.KDF{Salt: salt, Iterations: iterations}

		b.Run(fmt.Sprintf("iterations=%d", iterations), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = kdf.DeriveKey("correct horse battery staple")
			}
		})
	}
}

// BenchmarkSealUnseal measures wrapping and unwrapping one data key under
// the vault key, the per-credential half of the envelope.
func BenchmarkSealUnseal(b *testing.B) {
	vaultKey, err := strongbox.RandomBytes(strongbox.KeySize)
	if err != nil {
		b.Fatal(err)
	}
	dataKey, err := strongbox.GenerateDataKey()
	if err != nil {
		b.Fatal(err)
	}
	aad := []byte("3e9d2f6a-bench")

	b.Run("seal", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, err := strongbox.Seal(vaultKey, dataKey, aad); err != nil {
				b.Fatal(err)
			}
		}
	})

	sealed, err := strongbox.Seal(vaultKey, dataKey, aad)
	if err != nil {
		b.Fatal(err)
	}

	b.Run("unseal", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, err := strongbox.Unseal(vaultKey, sealed, aad); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkFieldCipher measures the AES-256-GCM field cipher at plaintext
// sizes from a short password up to a pasted notes blob.
func BenchmarkFieldCipher(b *testing.B) {
	dataKey, err := strongbox.GenerateDataKey()
	if err != nil {
		b.Fatal(err)
	}
	cipher, err := strongbox.NewSymmetric(dataKey)
	if err != nil {
		b.Fatal(err)
	}
	aad := []byte("3e9d2f6a-bench/password")

	for _, size := range []int{32, 1 << 10, 32 << 10} {
		plaintext, err := strongbox.RandomBytes(size)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(fmt.Sprintf("encrypt/%dB", size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := cipher.Encrypt(aad, plaintext); err != nil {
					b.Fatal(err)
				}
			}
		})

		packed, err := cipher.Encrypt(aad, plaintext)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(fmt.Sprintf("decrypt/%dB", size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := cipher.Decrypt(aad, packed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkService measures whole operations against a real SQLite store:
// the full path from request to committed ciphertext and back.
func BenchmarkService(b *testing.B) {
	ctx := context.Background()

	gdb, err := db.Connect(db.Config{URL: filepath.Join(b.TempDir(), "bench.db")})
	if err != nil {
		b.Fatal(err)
	}
	if err := db.RunMigrations(gdb); err != nil {
		b.Fatal(err)
	}
	svc := vault.NewService(gormstore.NewStore(gdb))

	if _, err := svc.Initialize(ctx, vault.InitRequest{
		MasterPassword: "correct horse battery staple",
		Name:           "bench",
		OwnerName:      "bench",
	}); err != nil {
		b.Fatal(err)
	}

	// Unlock once; the key derivation itself is measured separately above.
	key, _, err := svc.Unlock(ctx, "correct horse battery staple")
	if err != nil {
		b.Fatal(err)
	}
	defer strongbox.Wipe(key)

	if _, err := svc.Create(ctx, key, vault.CreateRequest{
		Name:      "Gmail",
		Mnemonics: []string{"bench-gmail"},
		Fields: map[model.Field]string{
			model.FieldUsername: "someone@gmail.com",
			model.FieldPassword: "hunter2",
		},
	}); err != nil {
		b.Fatal(err)
	}

	b.Run("create", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_, err := svc.Create(ctx, key, vault.CreateRequest{
				Name:      fmt.Sprintf("Site %d", i),
				Mnemonics: []string{fmt.Sprintf("bench-%d", i)},
				Fields: map[model.Field]string{
					model.FieldPassword: "hunter2",
				},
			})
			if err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("get", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, err := svc.Get(ctx, key, "bench-gmail", nil); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("list", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, err := svc.List(ctx); err != nil {
				b.Fatal(err)
			}
		}
	})
}
