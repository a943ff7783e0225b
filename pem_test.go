package ppk

import (
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"math/big"
	"testing"
)

func decodeOnePEMBlock(t *testing.T, s string) *pem.Block {
	t.Helper()
	block, rest := pem.Decode([]byte(s))
	if block == nil {
		t.Fatalf("pem.Decode found no block in %q", s)
	}
	if len(rest) != 0 {
		t.Fatalf("unexpected trailing data after the PEM block: %q", rest)
	}
	return block
}

func TestEncodePEMRSAParsesWithStdlibX509(t *testing.T) {
	rec := mustParse(t, rsa512PPK, 0, 0)
	plain := mustDecrypt(t, rec, []byte("testkey"))
	dk, err := decodeKey(plain)
	if err != nil {
		t.Fatalf("decodeKey: %v", err)
	}

	out := encodePEMRSA(dk.RSA)
	block := decodeOnePEMBlock(t, out)
	if block.Type != "RSA PRIVATE KEY" {
		t.Fatalf("block type = %q", block.Type)
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		t.Fatalf("x509.ParsePKCS1PrivateKey rejected our PKCS#1 DER: %v", err)
	}
	if new(big.Int).SetBytes(dk.RSA.N).Cmp(key.N) != 0 {
		t.Errorf("N mismatch after PEM round trip")
	}
	if key.E != 37 {
		t.Errorf("E = %d, want 37", key.E)
	}
}

func TestEncodePEMECDSAParsesWithStdlibX509(t *testing.T) {
	rec := mustParse(t, ecdsa256PPK, 0, 0)
	plain := mustDecrypt(t, rec, []byte("testkey"))
	dk, err := decodeKey(plain)
	if err != nil {
		t.Fatalf("decodeKey: %v", err)
	}

	out, err := encodePEMECDSA(dk.ECDSA, dk.Curve)
	if err != nil {
		t.Fatalf("encodePEMECDSA: %v", err)
	}
	block := decodeOnePEMBlock(t, out)
	if block.Type != "EC PRIVATE KEY" {
		t.Fatalf("block type = %q", block.Type)
	}

	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		t.Fatalf("x509.ParseECPrivateKey rejected our SEC1 DER: %v", err)
	}
	if new(big.Int).SetBytes(dk.ECDSA.D).Cmp(key.D) != 0 {
		t.Errorf("D mismatch after PEM round trip")
	}
}

// dsaPKCS8 mirrors the ad hoc SEQUENCE {version, p, q, g, y, x} this codec
// writes for "DSA PRIVATE KEY" — there is no stdlib high-level DSA PEM
// parser, so the test decodes the DER structurally instead.
type dsaPKCS8 struct {
	Version int
	P, Q, G, Y, X *big.Int
}

func TestEncodePEMDSADecodesStructurally(t *testing.T) {
	rec := mustParse(t, dsa2048PPK, 0, 0)
	plain := mustDecrypt(t, rec, []byte("testkey"))
	dk, err := decodeKey(plain)
	if err != nil {
		t.Fatalf("decodeKey: %v", err)
	}

	out := encodePEMDSA(dk.DSA)
	block := decodeOnePEMBlock(t, out)
	if block.Type != "DSA PRIVATE KEY" {
		t.Fatalf("block type = %q", block.Type)
	}

	var parsed dsaPKCS8
	if _, err := asn1.Unmarshal(block.Bytes, &parsed); err != nil {
		t.Fatalf("asn1.Unmarshal rejected our DSA DER: %v", err)
	}
	if new(big.Int).SetBytes(dk.DSA.X).Cmp(parsed.X) != 0 {
		t.Errorf("X mismatch after PEM round trip")
	}
	if new(big.Int).SetBytes(dk.DSA.Y).Cmp(parsed.Y) != 0 {
		t.Errorf("Y mismatch after PEM round trip")
	}
}
