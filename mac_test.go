package ppk

import (
	"encoding/hex"
	"strings"
	"testing"
)

func baseUnencryptedV2Record() *PpkRecord {
	return &PpkRecord{
		Version:     2,
		Algorithm:   "ssh-rsa",
		Encryption:  "none",
		Comment:     "a@b",
		PublicBlob:  []byte("pub"),
		PrivateBlob: []byte("priv"),
	}
}

func TestVerifyMacAcceptsCorrectUnencryptedV2(t *testing.T) {
	rec := baseUnencryptedV2Record()
	macKey := deriveV2MacKey(nil)
	h := macHash(rec, macKey)
	h.Write(framedMacInput(rec, rec.PrivateBlob))
	rec.MacHex = hex.EncodeToString(h.Sum(nil))

	if err := verifyMac(rec, nil, rec.PrivateBlob, nil); err != nil {
		t.Fatalf("verifyMac rejected a correctly computed MAC: %v", err)
	}
}

func TestVerifyMacRejectsTamperedComment(t *testing.T) {
	rec := baseUnencryptedV2Record()
	macKey := deriveV2MacKey(nil)
	h := macHash(rec, macKey)
	h.Write(framedMacInput(rec, rec.PrivateBlob))
	rec.MacHex = hex.EncodeToString(h.Sum(nil))

	rec.Comment = "tampered"
	if err := verifyMac(rec, nil, rec.PrivateBlob, nil); err == nil {
		t.Fatal("expected InvalidMac after tampering with the comment")
	} else if asErr, ok := err.(*Error); !ok || asErr.Code != ErrInvalidMac {
		t.Fatalf("expected InvalidMac, got %v", err)
	}
}

func TestVerifyMacRejectsTamperedPrivateBlob(t *testing.T) {
	rec := baseUnencryptedV2Record()
	macKey := deriveV2MacKey(nil)
	h := macHash(rec, macKey)
	h.Write(framedMacInput(rec, rec.PrivateBlob))
	rec.MacHex = hex.EncodeToString(h.Sum(nil))

	tampered := append([]byte{}, rec.PrivateBlob...)
	tampered[0] ^= 0xff
	if err := verifyMac(rec, nil, tampered, nil); err == nil {
		t.Fatal("expected InvalidMac after tampering with the private blob")
	}
}

func TestVerifyMacUnencryptedV3UsesAllZeroKey(t *testing.T) {
	rec := &PpkRecord{
		Version:     3,
		Algorithm:   "ssh-rsa",
		Encryption:  "none",
		Comment:     "a@b",
		PublicBlob:  []byte("pub"),
		PrivateBlob: []byte("priv"),
	}
	zeroKey := make([]byte, macKeyLength)
	h := macHash(rec, zeroKey)
	h.Write(framedMacInput(rec, rec.PrivateBlob))
	rec.MacHex = hex.EncodeToString(h.Sum(nil))

	// Passing an arbitrary non-nil argon2MacKey must have no effect, since
	// an unencrypted v3 file never runs Argon2 and must verify against the
	// fixed all-zero key regardless of what is passed here.
	if err := verifyMac(rec, nil, rec.PrivateBlob, []byte("should be ignored")); err != nil {
		t.Fatalf("unencrypted v3 MAC must verify against the all-zero key: %v", err)
	}
}

func TestVerifyMacCaseInsensitiveHexComparison(t *testing.T) {
	rec := baseUnencryptedV2Record()
	macKey := deriveV2MacKey(nil)
	h := macHash(rec, macKey)
	h.Write(framedMacInput(rec, rec.PrivateBlob))
	rec.MacHex = strings.ToUpper(hex.EncodeToString(h.Sum(nil)))

	if err := verifyMac(rec, nil, rec.PrivateBlob, nil); err != nil {
		t.Fatalf("verifyMac should accept uppercase hex: %v", err)
	}
}
