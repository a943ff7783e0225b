package ppk

import (
	"crypto/elliptic"
	"math/big"
	"strings"
)

// curveByName maps an SSH-wire curve identifier to its Go curve and the
// canonical name used in PEM/OpenSSH output and DecodedKey.Curve.
func curveByName(name string) (elliptic.Curve, string, error) {
	switch name {
	case "nistp256":
		return elliptic.P256(), "P-256", nil
	case "nistp384":
		return elliptic.P384(), "P-384", nil
	case "nistp521":
		return elliptic.P521(), "P-521", nil
	default:
		return nil, "", newErr(ErrUnsupportedAlgorithm, "unknown elliptic curve "+name)
	}
}

// decodeECDSA implements the ecdsa-sha2-nistpNNN algorithm decoder (C7).
// Public blob: keytype, curve_name, Q (uncompressed point bytes). Private
// blob: scalar d.
func decodeECDSA(rec *PpkRecord) (*DecodedKey, error) {
	pub := newWireReader(rec.PublicBlob)
	if err := readAlgoHeader(pub, rec.Algorithm); err != nil {
		return nil, err
	}
	curveName, err := pub.readString()
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(rec.Algorithm, curveName) {
		return nil, newErr(ErrInvalidPpkFormat, "curve name does not match declared algorithm")
	}
	curve, canonicalName, err := curveByName(curveName)
	if err != nil {
		return nil, err
	}
	q, err := pub.readBytes()
	if err != nil {
		return nil, err
	}
	if err := requireConsumed(pub, "ecdsa public"); err != nil {
		return nil, err
	}
	if len(q) < 1 || q[0] != 0x04 {
		return nil, newErr(ErrInvalidPpkFormat, "ecdsa public point is not in uncompressed form")
	}
	coordLen := (len(q) - 1) / 2
	if coordLen*2+1 != len(q) {
		return nil, newErr(ErrInvalidPpkFormat, "ecdsa public point has odd coordinate length")
	}
	x := new(big.Int).SetBytes(q[1 : 1+coordLen])
	y := new(big.Int).SetBytes(q[1+coordLen:])

	priv := newWireReader(rec.PrivateBlob)
	d, err := priv.readMpint()
	if err != nil {
		return nil, err
	}

	dBig := new(big.Int).SetBytes(d)
	order := curve.Params().N
	if dBig.Sign() <= 0 || dBig.Cmp(order) >= 0 {
		return nil, newErr(ErrInvalidPpkFormat, "ecdsa private scalar out of range")
	}

	// Cross-check the parsed public point against the one derivable from
	// the private scalar, the same consistency check PuTTY's own key
	// loader performs before trusting an imported key.
	scalarBytes := make([]byte, (order.BitLen()+7)/8)
	dBig.FillBytes(scalarBytes)
	xC, yC := curve.ScalarBaseMult(scalarBytes)
	if x.Cmp(xC) != 0 || y.Cmp(yC) != 0 {
		return nil, newErr(ErrInvalidPpkFormat, "ecdsa public point does not match private scalar")
	}

	return &DecodedKey{
		Algorithm:  rec.Algorithm,
		Comment:    rec.Comment,
		Curve:      canonicalName,
		PublicBlob: rec.PublicBlob,
		ECDSA: &ECDSAKey{
			CurveName: curveName,
			Q:         q,
			D:         d,
		},
	}, nil
}
