package ppk

import "encoding/base64"

// OutputFormat selects the private-key encoding Parse produces.
type OutputFormat string

const (
	OutputPEM     OutputFormat = "pem"
	OutputOpenSSH OutputFormat = "openssh"
)

// Default size caps for Options, matching §4.1/§4.3's "configurable cap
// (default 1 MiB)" language.
const (
	DefaultMaxFileSize  uint32 = 1 << 20
	DefaultMaxFieldSize uint32 = 1 << 20
)

// Options configures a single Parse call. The zero value is valid: it
// requests PEM output, no re-encryption, and the default size caps.
type Options struct {
	OutputFormat      OutputFormat
	Encrypt           bool
	OutputPassphrase  string
	MaxFileSizeBytes  uint32
	MaxFieldSizeBytes uint32
}

// WithDefaults returns a copy of o with zero-valued fields filled in from
// the documented defaults.
func (o Options) WithDefaults() Options {
	if o.OutputFormat == "" {
		o.OutputFormat = OutputPEM
	}
	if o.MaxFileSizeBytes == 0 {
		o.MaxFileSizeBytes = DefaultMaxFileSize
	}
	if o.MaxFieldSizeBytes == 0 {
		o.MaxFieldSizeBytes = DefaultMaxFieldSize
	}
	return o
}

// ConvertedKey is the result of a successful Parse.
type ConvertedKey struct {
	PrivateKey  string
	PublicKey   string
	Fingerprint string
	Algorithm   string
	Comment     string
	Curve       string
}

// Parse is the package's main entry point: it tokenises ppkText
// (C3), derives key material and decrypts the payload if needed (C4/C6),
// verifies the MAC (C5), decodes the algorithm-specific wire fields (C7),
// and re-encodes them as OpenSSH v1 or PEM (C8/C9), finishing with the
// SHA-256 fingerprint (C10). It holds no state between calls and is safe
// to call concurrently on independent inputs.
func Parse(ppkText string, passphrase string, opts Options) (*ConvertedKey, error) {
	opts = opts.WithDefaults()
	if opts.Encrypt && opts.OutputPassphrase == "" {
		return nil, newErr(ErrInvalidArguments, "encrypt requires a non-empty output_passphrase")
	}

	rec, err := ParseRecord([]byte(ppkText), opts.MaxFileSizeBytes, opts.MaxFieldSizeBytes)
	if err != nil {
		return nil, err
	}

	if rec.Encryption != "none" && passphrase == "" {
		return nil, newErr(ErrPassphraseRequired, "this PPK file is encrypted")
	}

	plaintext, argon2MacKey, err := decryptRecord(rec, []byte(passphrase))
	if err != nil {
		return nil, err
	}

	if err := verifyMac(rec, []byte(passphrase), plaintext, argon2MacKey); err != nil {
		return nil, err
	}

	decodeRec := &PpkRecord{
		Version:     rec.Version,
		Algorithm:   rec.Algorithm,
		Encryption:  rec.Encryption,
		Comment:     rec.Comment,
		PublicBlob:  rec.PublicBlob,
		PrivateBlob: plaintext,
		MacHex:      rec.MacHex,
		Argon2:      rec.Argon2,
	}
	dk, err := decodeKey(decodeRec)
	if err != nil {
		return nil, err
	}

	return encodeResult(dk, opts)
}

// ParsePublicOnly runs only the text-parse stage and returns the public
// half of the key without ever touching the (possibly encrypted) private
// blob — mirroring PuTTY's own willingness to hand back a public key and
// comment without a passphrase.
func ParsePublicOnly(ppkText string, opts Options) (*ConvertedKey, error) {
	opts = opts.WithDefaults()
	rec, err := ParseRecord([]byte(ppkText), opts.MaxFileSizeBytes, opts.MaxFieldSizeBytes)
	if err != nil {
		return nil, err
	}
	pubLine, err := publicKeyLine(rec.Algorithm, rec.PublicBlob, rec.Comment)
	if err != nil {
		return nil, err
	}
	return &ConvertedKey{
		PublicKey:   pubLine,
		Fingerprint: fingerprintSHA256(rec.PublicBlob),
		Algorithm:   rec.Algorithm,
		Comment:     rec.Comment,
	}, nil
}

// decryptRecord runs C4 then C6: derives cipher (and, for v3, MAC) key
// material and decrypts rec.PrivateBlob if the file is encrypted. It
// returns the plaintext private blob and, for an encrypted v3 file, the
// Argon2-derived MAC key the caller must feed into verifyMac.
func decryptRecord(rec *PpkRecord, passphrase []byte) (plaintext, argon2MacKey []byte, err error) {
	if rec.Encryption == "none" {
		return rec.PrivateBlob, nil, nil
	}
	if rec.Encryption != "aes256-cbc" {
		return nil, nil, newErr(ErrUnsupportedEncryption, rec.Encryption)
	}

	var key, iv []byte
	switch rec.Version {
	case 2:
		key, iv = deriveV2CipherMaterial(passphrase)
	case 3:
		if rec.Argon2 == nil {
			return nil, nil, newErr(ErrMissingField, "Key-Derivation header is absent")
		}
		key, iv, argon2MacKey, err = deriveV3Material(passphrase, rec.Argon2)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, newErr(ErrUnsupportedVersion, "")
	}

	plaintext, err = decryptPayload(key, iv, rec.PrivateBlob)
	if err != nil {
		return nil, nil, err
	}
	return plaintext, argon2MacKey, nil
}

// encodeResult implements C8/C9's output selection and C10's fingerprint.
// output_format="openssh" is forced for Ed25519 (which has no PEM form in
// this design) and whenever Options.Encrypt is set, since the PEM writers
// carry no defined encrypted variant.
func encodeResult(dk *DecodedKey, opts Options) (*ConvertedKey, error) {
	pubLine, err := publicKeyLine(dk.Algorithm, dk.PublicBlob, dk.Comment)
	if err != nil {
		return nil, err
	}

	format := opts.OutputFormat
	if dk.Algorithm == "ssh-ed25519" || opts.Encrypt {
		format = OutputOpenSSH
	}

	var privKey string
	switch format {
	case OutputOpenSSH:
		passphrase := ""
		if opts.Encrypt {
			passphrase = opts.OutputPassphrase
		}
		privKey, err = encodeOpenSSH(dk, passphrase)
	case OutputPEM:
		privKey, err = encodePEM(dk)
	default:
		return nil, newErr(ErrInvalidArguments, "unknown output_format")
	}
	if err != nil {
		return nil, err
	}

	return &ConvertedKey{
		PrivateKey:  privKey,
		PublicKey:   pubLine,
		Fingerprint: fingerprintSHA256(dk.PublicBlob),
		Algorithm:   dk.Algorithm,
		Comment:     dk.Comment,
		Curve:       dk.Curve,
	}, nil
}

func encodePEM(dk *DecodedKey) (string, error) {
	switch dk.Algorithm {
	case "ssh-rsa":
		return encodePEMRSA(dk.RSA), nil
	case "ssh-dss":
		return encodePEMDSA(dk.DSA), nil
	case "ecdsa-sha2-nistp256", "ecdsa-sha2-nistp384", "ecdsa-sha2-nistp521":
		return encodePEMECDSA(dk.ECDSA, dk.Curve)
	default:
		return "", newErr(ErrUnsupportedAlgorithm, dk.Algorithm)
	}
}

func publicKeyLine(algorithm string, publicBlob []byte, comment string) (string, error) {
	if len(publicBlob) == 0 {
		return "", newErr(ErrMissingField, "public_blob is empty")
	}
	return algorithm + " " + base64.StdEncoding.EncodeToString(publicBlob) + " " + comment, nil
}
