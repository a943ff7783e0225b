package ppk

// DecodedKey is the tagged result of the algorithm decoders (C7). Exactly
// one of RSA, DSA, ECDSA, or Ed25519 is populated, matching rec.Algorithm.
// Integer fields are canonical big-endian unsigned byte strings with no
// leading zero; der.go re-adds a sign-extension byte where DER requires
// one.
type DecodedKey struct {
	Algorithm  string
	Comment    string
	Curve      string // "P-256" / "P-384" / "P-521", ECDSA only
	PublicBlob []byte // the original SSH-wire public blob, verbatim

	RSA     *RSAKey
	DSA     *DSAKey
	ECDSA   *ECDSAKey
	Ed25519 *Ed25519Key
}

// RSAKey holds the PKCS#1 field set. D, P, Q, IQMP come from the PPK
// private blob (in PuTTY's d,p,q,iqmp order); DP and DQ are derived.
type RSAKey struct {
	E, N, D, P, Q, IQMP, DP, DQ []byte
}

// DSAKey holds the classic FIPS 186 DSA field set.
type DSAKey struct {
	P, Q, G, Y, X []byte
}

// ECDSAKey holds the curve point and scalar. CurveName is the SSH-wire
// curve identifier (e.g. "nistp256"), not the Go elliptic.Curve name.
type ECDSAKey struct {
	CurveName string
	Q         []byte // uncompressed point: 0x04 ‖ X ‖ Y
	D         []byte
}

// Ed25519Key holds the 32-byte seed and 32-byte public key. OpenSSH's own
// private-key representation is seed‖pub; this codec keeps them separate
// so callers can build either representation.
type Ed25519Key struct {
	Pub  []byte
	Seed []byte
}

// decodeKey dispatches to the per-algorithm decoder (C7) named by
// rec.Algorithm, which has already been validated against the supported
// set during C3 parsing.
func decodeKey(rec *PpkRecord) (*DecodedKey, error) {
	switch rec.Algorithm {
	case "ssh-rsa":
		return decodeRSA(rec)
	case "ssh-dss":
		return decodeDSA(rec)
	case "ecdsa-sha2-nistp256", "ecdsa-sha2-nistp384", "ecdsa-sha2-nistp521":
		return decodeECDSA(rec)
	case "ssh-ed25519":
		return decodeEd25519(rec)
	default:
		return nil, newErr(ErrUnsupportedAlgorithm, rec.Algorithm)
	}
}

func readAlgoHeader(r *wireReader, want string) error {
	got, err := r.readString()
	if err != nil {
		return err
	}
	if got != want {
		return newErr(ErrInvalidPpkFormat, "public blob header does not match declared algorithm")
	}
	return nil
}

func requireConsumed(r *wireReader, what string) error {
	if !r.atEnd() {
		return newErr(ErrInvalidPpkFormat, what+" blob has trailing garbage")
	}
	return nil
}
