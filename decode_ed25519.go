package ppk

// decodeEd25519 implements the ssh-ed25519 algorithm decoder (C7). Public
// blob: "ssh-ed25519", A (32-byte public key). Private blob: k (32-byte
// seed).
func decodeEd25519(rec *PpkRecord) (*DecodedKey, error) {
	pub := newWireReader(rec.PublicBlob)
	if err := readAlgoHeader(pub, rec.Algorithm); err != nil {
		return nil, err
	}
	a, err := pub.readBytes()
	if err != nil {
		return nil, err
	}
	if err := requireConsumed(pub, "ssh-ed25519 public"); err != nil {
		return nil, err
	}
	if len(a) != 32 {
		return nil, newErr(ErrInvalidPpkFormat, "ed25519 public key is not 32 bytes")
	}

	priv := newWireReader(rec.PrivateBlob)
	seed, err := priv.readBytes()
	if err != nil {
		return nil, err
	}
	if len(seed) != 32 {
		return nil, newErr(ErrInvalidPpkFormat, "ed25519 private seed is not 32 bytes")
	}

	return &DecodedKey{
		Algorithm:  rec.Algorithm,
		Comment:    rec.Comment,
		PublicBlob: rec.PublicBlob,
		Ed25519: &Ed25519Key{
			Pub:  a,
			Seed: seed,
		},
	}, nil
}
