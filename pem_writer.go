package ppk

import "encoding/pem"

// ecdsaOID maps the canonical curve name to its SEC1 namedCurve OID arcs.
var ecdsaOID = map[string][]int{
	"P-256": {1, 2, 840, 10045, 3, 1, 7},
	"P-384": {1, 3, 132, 0, 34},
	"P-521": {1, 3, 132, 0, 35},
}

// encodePEMRSA builds the PKCS#1 "RSA PRIVATE KEY" body (C9): SEQUENCE
// {version=0, n, e, d, p, q, dP, dQ, qInv}.
func encodePEMRSA(k *RSAKey) string {
	der := derSequence(
		derInteger([]byte{0}),
		derInteger(k.N),
		derInteger(k.E),
		derInteger(k.D),
		derInteger(k.P),
		derInteger(k.Q),
		derInteger(k.DP),
		derInteger(k.DQ),
		derInteger(k.IQMP),
	)
	return pemEncode("RSA PRIVATE KEY", der)
}

// encodePEMDSA builds the "DSA PRIVATE KEY" body (C9): SEQUENCE
// {version=0, p, q, g, y, x}.
func encodePEMDSA(k *DSAKey) string {
	der := derSequence(
		derInteger([]byte{0}),
		derInteger(k.P),
		derInteger(k.Q),
		derInteger(k.G),
		derInteger(k.Y),
		derInteger(k.X),
	)
	return pemEncode("DSA PRIVATE KEY", der)
}

// encodePEMECDSA builds the SEC1 "EC PRIVATE KEY" body (C9): SEQUENCE
// {version=1, OCTET STRING(d), [0] EXPLICIT OID(curve), [1] EXPLICIT
// BIT STRING(Q)}.
func encodePEMECDSA(k *ECDSAKey, curveName string) (string, error) {
	arcs, ok := ecdsaOID[curveName]
	if !ok {
		return "", newErr(ErrUnsupportedAlgorithm, "no SEC1 OID for curve "+curveName)
	}
	der := derSequence(
		derInteger([]byte{1}),
		derOctetString(k.D),
		derExplicit(0, derOID(arcs...)),
		derExplicit(1, derBitString(k.Q)),
	)
	return pemEncode("EC PRIVATE KEY", der), nil
}

// pemEncode wraps der as base64 at the 64-column width PEM mandates,
// between the standard BEGIN/END markers for blockType.
func pemEncode(blockType string, der []byte) string {
	b := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	return string(b)
}
