package ppk

import "math/big"

// decodeRSA implements the ssh-rsa algorithm decoder (C7). Public blob:
// "ssh-rsa", e, n. Private blob: d, p, q, iqmp — PuTTY's order, which
// differs from OpenSSH's own n,e,d,iqmp,p,q wire order.
func decodeRSA(rec *PpkRecord) (*DecodedKey, error) {
	pub := newWireReader(rec.PublicBlob)
	if err := readAlgoHeader(pub, rec.Algorithm); err != nil {
		return nil, err
	}
	e, err := pub.readMpint()
	if err != nil {
		return nil, err
	}
	n, err := pub.readMpint()
	if err != nil {
		return nil, err
	}
	if err := requireConsumed(pub, "ssh-rsa public"); err != nil {
		return nil, err
	}

	priv := newWireReader(rec.PrivateBlob)
	d, err := priv.readMpint()
	if err != nil {
		return nil, err
	}
	p, err := priv.readMpint()
	if err != nil {
		return nil, err
	}
	q, err := priv.readMpint()
	if err != nil {
		return nil, err
	}
	iqmp, err := priv.readMpint()
	if err != nil {
		return nil, err
	}

	dBig := new(big.Int).SetBytes(d)
	pBig := new(big.Int).SetBytes(p)
	qBig := new(big.Int).SetBytes(q)
	pMinus1 := new(big.Int).Sub(pBig, big.NewInt(1))
	qMinus1 := new(big.Int).Sub(qBig, big.NewInt(1))
	dP := new(big.Int).Mod(dBig, pMinus1).Bytes()
	dQ := new(big.Int).Mod(dBig, qMinus1).Bytes()

	return &DecodedKey{
		Algorithm:  rec.Algorithm,
		Comment:    rec.Comment,
		PublicBlob: rec.PublicBlob,
		RSA: &RSAKey{
			E:    e,
			N:    n,
			D:    d,
			P:    p,
			Q:    q,
			IQMP: iqmp,
			DP:   dP,
			DQ:   dQ,
		},
	}, nil
}
