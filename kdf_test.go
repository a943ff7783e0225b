package ppk

import (
	"encoding/hex"
	"testing"
)

func TestDeriveV2CipherMaterialIsDeterministic(t *testing.T) {
	key1, iv1 := deriveV2CipherMaterial([]byte("testkey"))
	key2, iv2 := deriveV2CipherMaterial([]byte("testkey"))
	if string(key1) != string(key2) {
		t.Fatal("v2 key derivation is not deterministic")
	}
	if len(key1) != cipherKeyLength {
		t.Fatalf("key length = %d, want %d", len(key1), cipherKeyLength)
	}
	for _, b := range iv1 {
		if b != 0 {
			t.Fatalf("v2 IV must be all-zero, got %x", iv1)
		}
	}
	if len(iv2) != cipherIVLength {
		t.Fatalf("iv length = %d, want %d", len(iv2), cipherIVLength)
	}
}

func TestDeriveV2CipherMaterialDiffersByPassphrase(t *testing.T) {
	key1, _ := deriveV2CipherMaterial([]byte("a"))
	key2, _ := deriveV2CipherMaterial([]byte("b"))
	if string(key1) == string(key2) {
		t.Fatal("different passphrases must not derive the same key")
	}
}

func TestDeriveV3MaterialArgon2id(t *testing.T) {
	p := &Argon2Params{
		Flavor:      Argon2id,
		MemoryKiB:   8192,
		Passes:      13,
		Parallelism: 1,
		Salt:        mustHexDecode(t, "745d60746c67666afa47dbf23226c6c9"),
	}
	key, iv, macKey, err := deriveV3Material([]byte("testkey"), p)
	if err != nil {
		t.Fatalf("deriveV3Material: %v", err)
	}
	if len(key) != cipherKeyLength || len(iv) != cipherIVLength || len(macKey) != macKeyLength {
		t.Fatalf("unexpected output lengths: key=%d iv=%d mac=%d", len(key), len(iv), len(macKey))
	}

	key2, _, _, err := deriveV3Material([]byte("wrong"), p)
	if err != nil {
		t.Fatalf("deriveV3Material: %v", err)
	}
	if string(key) == string(key2) {
		t.Fatal("different passphrases must not derive the same v3 key")
	}
}

func TestDeriveV3MaterialRejectsArgon2d(t *testing.T) {
	p := &Argon2Params{Flavor: Argon2d, MemoryKiB: 8192, Passes: 1, Parallelism: 1, Salt: []byte{1, 2, 3, 4}}
	_, _, _, err := deriveV3Material([]byte("x"), p)
	if err == nil {
		t.Fatal("expected UnsupportedArgon2 for the Argon2d flavor")
	}
	if asErr, ok := err.(*Error); !ok || asErr.Code != ErrUnsupportedArgon2 {
		t.Fatalf("expected UnsupportedArgon2, got %v", err)
	}
}

func TestDeriveV3MaterialRejectsBadParallelism(t *testing.T) {
	p := &Argon2Params{Flavor: Argon2id, MemoryKiB: 8, Passes: 1, Parallelism: 0, Salt: []byte{1}}
	if _, _, _, err := deriveV3Material([]byte("x"), p); err == nil {
		t.Fatal("expected a sanity-check error for Parallelism=0")
	}
}

func mustHexDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("invalid hex fixture %q: %v", s, err)
	}
	return b
}
