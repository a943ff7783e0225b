package ppk

import (
	"crypto/aes"
	"crypto/cipher"
)

// decryptPayload implements the payload decryptor (C6): AES-256-CBC with
// no padding. PPK private blobs are already a multiple of the block size —
// their true length is implicit in the SSH-wire field lengths inside the
// plaintext, not in PKCS#7 padding bytes — so nothing is stripped after
// decryption.
func decryptPayload(key, iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, newErr(ErrInvalidPpkFormat, "encrypted payload is not a multiple of the AES block size")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, wrapErr(ErrInvalidPpkFormat, "failed to initialize AES cipher", err)
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return out, nil
}

// encryptPayload is the write-side counterpart of decryptPayload. The
// codec's own output paths never re-encrypt under CBC — OpenSSH-v1 output
// encryption uses AES-256-CTR (see openssh.go) — but this stays at
// package scope for tests that exercise encrypt/decrypt as a round trip.
func encryptPayload(key, iv, plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 || len(plaintext)%aes.BlockSize != 0 {
		return nil, newErr(ErrInvalidPpkFormat, "plaintext payload is not a multiple of the AES block size")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, wrapErr(ErrInvalidPpkFormat, "failed to initialize AES cipher", err)
	}
	out := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plaintext)
	return out, nil
}
