package ppk

import (
	"crypto/sha1"

	"golang.org/x/crypto/argon2"
)

const (
	cipherKeyLength = 32
	cipherIVLength  = 16
	macKeyLength    = 32
	argon2KeyLength = cipherKeyLength + cipherIVLength + macKeyLength
)

// deriveV2CipherMaterial implements the PPK v2 KDF (C4): the AES-256 key is
// the first 32 bytes of SHA1(0x00000000‖P) ‖ SHA1(0x00000001‖P); the IV is
// always 16 zero bytes. There is no MAC key output from this path — the v2
// MAC key is derived independently by the MAC verifier (C5).
func deriveV2CipherMaterial(passphrase []byte) (key, iv []byte) {
	var combined []byte
	for seq := uint32(0); len(combined) < cipherKeyLength; seq++ {
		h := sha1.New()
		h.Write([]byte{0, 0, 0, byte(seq)})
		h.Write(passphrase)
		combined = append(combined, h.Sum(nil)...)
	}
	return combined[:cipherKeyLength], make([]byte, cipherIVLength)
}

// deriveV3Material implements the PPK v3 KDF (C4): Argon2 over the
// passphrase and the file's recorded salt/time/memory/parallelism,
// producing 80 bytes split into key‖iv‖mac_key.
func deriveV3Material(passphrase []byte, p *Argon2Params) (key, iv, macKey []byte, err error) {
	if p.Passes < 1 || p.Parallelism < 1 || p.MemoryKiB < 8*p.Parallelism {
		return nil, nil, nil, newErr(ErrInvalidPpkFormat, "argon2 parameters fail sanity check")
	}

	var h []byte
	switch p.Flavor {
	case Argon2id:
		h = argon2.IDKey(passphrase, p.Salt, p.Passes, p.MemoryKiB, uint8(p.Parallelism), argon2KeyLength)
	case Argon2i:
		h = argon2.Key(passphrase, p.Salt, p.Passes, p.MemoryKiB, uint8(p.Parallelism), argon2KeyLength)
	case Argon2d:
		// golang.org/x/crypto/argon2 exports only the Argon2i (Key) and
		// Argon2id (IDKey) variants; it has no public Argon2d entry point.
		// See DESIGN.md for why this is a documented gap rather than a
		// hand-rolled primitive.
		return nil, nil, nil, newErr(ErrUnsupportedArgon2, "Argon2d")
	default:
		return nil, nil, nil, newErr(ErrUnsupportedArgon2, string(p.Flavor))
	}
	if len(h) != argon2KeyLength {
		return nil, nil, nil, newErr(ErrInvalidPpkFormat, "unexpected argon2 output length")
	}

	return h[:cipherKeyLength],
		h[cipherKeyLength : cipherKeyLength+cipherIVLength],
		h[cipherKeyLength+cipherIVLength:],
		nil
}
