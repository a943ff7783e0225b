package ppk

// decodeDSA implements the ssh-dss algorithm decoder (C7). Public blob:
// "ssh-dss", p, q, g, y. Private blob: x.
func decodeDSA(rec *PpkRecord) (*DecodedKey, error) {
	pub := newWireReader(rec.PublicBlob)
	if err := readAlgoHeader(pub, rec.Algorithm); err != nil {
		return nil, err
	}
	p, err := pub.readMpint()
	if err != nil {
		return nil, err
	}
	q, err := pub.readMpint()
	if err != nil {
		return nil, err
	}
	g, err := pub.readMpint()
	if err != nil {
		return nil, err
	}
	y, err := pub.readMpint()
	if err != nil {
		return nil, err
	}
	if err := requireConsumed(pub, "ssh-dss public"); err != nil {
		return nil, err
	}

	priv := newWireReader(rec.PrivateBlob)
	x, err := priv.readMpint()
	if err != nil {
		return nil, err
	}

	return &DecodedKey{
		Algorithm:  rec.Algorithm,
		Comment:    rec.Comment,
		PublicBlob: rec.PublicBlob,
		DSA: &DSAKey{
			P: p, Q: q, G: g, Y: y, X: x,
		},
	}, nil
}
