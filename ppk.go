package ppk

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxHeaderLength mirrors PuTTY's own read_header cap on a header name.
const maxHeaderLength = 39

// maxKeyBlobLines mirrors PuTTY's cap on the number of base64 body lines a
// Public-Lines/Private-Lines header may declare, defending against a
// header claiming an absurd line count before any allocation happens.
const maxKeyBlobLines = 262144 / 48

const (
	puttyHeaderPrefix = "PuTTY-User-Key-File-"
)

// Argon2Flavor names the Argon2 variant a PPK v3 file requests via its
// Key-Derivation header.
type Argon2Flavor string

const (
	Argon2i  Argon2Flavor = "Argon2i"
	Argon2d  Argon2Flavor = "Argon2d"
	Argon2id Argon2Flavor = "Argon2id"
)

// Argon2Params holds the v3-only key-derivation parameters, present on a
// PpkRecord iff version=3 and encryption != "none".
type Argon2Params struct {
	Flavor      Argon2Flavor
	MemoryKiB   uint32
	Passes      uint32
	Parallelism uint32
	Salt        []byte
}

// PpkRecord is the structured result of tokenising a PPK text container
// (C3). It is consumed by the KDF, MAC, and algorithm-decoder stages.
type PpkRecord struct {
	Version     int
	Algorithm   string
	Encryption  string
	Comment     string
	PublicBlob  []byte
	PrivateBlob []byte
	MacHex      string
	Argon2      *Argon2Params
}

type lineReader interface {
	ReadByte() (byte, error)
	UnreadByte() error
}

// readHeader reads up to the first unescaped ": " the way PuTTY's
// read_header walks a header name, rejecting embedded newlines and
// enforcing the same header-length ceiling PuTTY itself enforces.
func readHeader(r lineReader) ([]byte, error) {
	var buf []byte
	length := maxHeaderLength

	for {
		c, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if c == '\n' || c == '\r' {
			return nil, newErr(ErrInvalidPpkFormat, "unexpected newline inside header")
		}
		if c == ':' {
			c, err = r.ReadByte()
			if err != nil {
				return nil, err
			}
			if c != ' ' {
				return nil, newErr(ErrInvalidPpkFormat, fmt.Sprintf("expected space after header colon, got 0x%02x", c))
			}
			return buf, nil
		}
		if length == 0 {
			return nil, newErr(ErrInvalidPpkFormat, "header name too long")
		}
		buf = append(buf, c)
		length--
	}
}

// readBody reads to the end of the current line, accepting both LF and
// CRLF terminators, and leaves the reader positioned at the start of the
// next line (or at EOF).
func readBody(r lineReader) ([]byte, error) {
	var buf []byte
	for {
		c, err := r.ReadByte()
		if err != nil {
			return buf, nil
		}
		if c == '\r' || c == '\n' {
			c2, err2 := r.ReadByte()
			if err2 != nil {
				return buf, nil
			}
			if c2 != '\r' && c2 != '\n' {
				if err := r.UnreadByte(); err != nil {
					return nil, err
				}
			}
			return buf, nil
		}
		buf = append(buf, c)
	}
}

// readBlob reads exactly nlines base64 body lines and concatenates them
// without separators, the way Public-Lines/Private-Lines bodies are laid
// out in the file.
func readBlob(r lineReader, nlines int) ([]byte, error) {
	var buf []byte
	for i := 0; i < nlines; i++ {
		line, err := readBody(r)
		if err != nil {
			return nil, err
		}
		if len(line)%4 != 0 || len(line) > 64 {
			return nil, newErr(ErrInvalidBase64, "base64 body line has invalid length")
		}
		buf = append(buf, line...)
	}
	return buf, nil
}

// ParseRecord tokenises raw PPK text into a PpkRecord (C3), gating on
// format and size before attempting any per-header parsing.
func ParseRecord(ppkText []byte, maxFileSize, maxFieldSize uint32) (*PpkRecord, error) {
	if len(ppkText) == 0 {
		return nil, newErr(ErrInvalidInput, "empty input")
	}
	if maxFileSize == 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if maxFieldSize == 0 {
		maxFieldSize = DefaultMaxFieldSize
	}
	if uint32(len(ppkText)) > maxFileSize {
		return nil, newErr(ErrFileTooLarge, fmt.Sprintf("input is %d bytes, exceeds cap of %d", len(ppkText), maxFileSize))
	}

	if bytes.Contains(ppkText, []byte("-----BEGIN")) {
		return nil, newErr(ErrWrongFormat, "input looks like an OpenSSH or PEM key, not a PPK file")
	}
	if !bytes.Contains(ppkText, []byte(puttyHeaderPrefix)) {
		return nil, newErr(ErrInvalidPpkFormat, "missing PuTTY-User-Key-File- header")
	}

	r := bufio.NewReader(bytes.NewReader(ppkText))
	rec := &PpkRecord{}
	var argon2Memory, argon2Passes, argon2Parallelism uint32
	var argon2Flavor Argon2Flavor
	var argon2Salt []byte
	var sawArgon2Params bool

	for {
		header, err := readHeader(r)
		if err != nil {
			if err == io.EOF {
				break
			}
			if pe, ok := err.(*Error); ok {
				return nil, pe
			}
			return nil, wrapErr(ErrInvalidPpkFormat, "failed to read header", err)
		}
		h := string(header)
		body, err := readBody(r)
		if err != nil {
			return nil, wrapErr(ErrInvalidPpkFormat, fmt.Sprintf("failed to read %q body", h), err)
		}
		if uint32(len(body)) > maxFieldSize {
			return nil, newErr(ErrFieldTooLarge, fmt.Sprintf("%q value exceeds field size cap", h))
		}

		switch {
		case strings.HasPrefix(h, puttyHeaderPrefix):
			verStr := strings.TrimPrefix(h, puttyHeaderPrefix)
			ver, convErr := strconv.Atoi(verStr)
			if convErr != nil {
				return nil, wrapErr(ErrInvalidPpkFormat, fmt.Sprintf("unreadable version %q", verStr), convErr)
			}
			if ver != 2 && ver != 3 {
				return nil, newErr(ErrUnsupportedVersion, fmt.Sprintf("version=%d", ver))
			}
			rec.Version = ver
			rec.Algorithm = string(body)
		case h == "Encryption":
			enc := string(body)
			if enc != "none" && enc != "aes256-cbc" {
				return nil, newErr(ErrUnsupportedEncryption, enc)
			}
			rec.Encryption = enc
		case h == "Comment":
			rec.Comment = string(body)
		case h == "Public-Lines", h == "Private-Lines":
			n, convErr := strconv.Atoi(string(body))
			if convErr != nil || n < 0 || n >= maxKeyBlobLines {
				return nil, newErr(ErrInvalidPpkFormat, fmt.Sprintf("invalid %q line count", h))
			}
			blobLines, blobErr := readBlob(r, n)
			if blobErr != nil {
				return nil, blobErr
			}
			decoded, decErr := base64.StdEncoding.DecodeString(string(blobLines))
			if decErr != nil {
				return nil, wrapErr(ErrInvalidBase64, fmt.Sprintf("%q body is not valid base64", h), decErr)
			}
			if h == "Public-Lines" {
				rec.PublicBlob = decoded
			} else {
				rec.PrivateBlob = decoded
			}
		case h == "Private-MAC":
			if _, hexErr := hex.DecodeString(string(body)); hexErr != nil {
				return nil, wrapErr(ErrInvalidPpkFormat, "Private-MAC is not valid hex", hexErr)
			}
			rec.MacHex = string(body)
		case h == "Key-Derivation":
			switch string(body) {
			case "Argon2i":
				argon2Flavor = Argon2i
			case "Argon2d":
				argon2Flavor = Argon2d
			case "Argon2id":
				argon2Flavor = Argon2id
			default:
				return nil, newErr(ErrUnsupportedArgon2, string(body))
			}
			sawArgon2Params = true
		case h == "Argon2-Memory":
			n, convErr := strconv.ParseUint(string(body), 10, 32)
			if convErr != nil {
				return nil, wrapErr(ErrInvalidPpkFormat, "invalid Argon2-Memory", convErr)
			}
			argon2Memory = uint32(n)
		case h == "Argon2-Passes":
			n, convErr := strconv.ParseUint(string(body), 10, 32)
			if convErr != nil {
				return nil, wrapErr(ErrInvalidPpkFormat, "invalid Argon2-Passes", convErr)
			}
			argon2Passes = uint32(n)
		case h == "Argon2-Parallelism":
			n, convErr := strconv.ParseUint(string(body), 10, 32)
			if convErr != nil {
				return nil, wrapErr(ErrInvalidPpkFormat, "invalid Argon2-Parallelism", convErr)
			}
			argon2Parallelism = uint32(n)
		case h == "Argon2-Salt":
			salt, hexErr := hex.DecodeString(string(body))
			if hexErr != nil {
				return nil, wrapErr(ErrInvalidPpkFormat, "Argon2-Salt is not valid hex", hexErr)
			}
			argon2Salt = salt
		default:
			// Unknown headers are ignored rather than rejected: PuTTY itself
			// tolerates forward-compatible additions it doesn't recognise.
		}
	}

	if rec.Version == 0 {
		return nil, newErr(ErrInvalidPpkFormat, "missing PuTTY-User-Key-File- header")
	}
	if rec.Algorithm == "" || len(rec.PublicBlob) == 0 || len(rec.PrivateBlob) == 0 {
		return nil, newErr(ErrMissingField, "algorithm, public_blob, or private_blob is absent")
	}
	switch rec.Algorithm {
	case "ssh-rsa", "ssh-dss", "ecdsa-sha2-nistp256", "ecdsa-sha2-nistp384", "ecdsa-sha2-nistp521", "ssh-ed25519":
	default:
		return nil, newErr(ErrUnsupportedAlgorithm, rec.Algorithm)
	}
	if rec.Encryption == "" {
		return nil, newErr(ErrMissingField, "Encryption header is absent")
	}
	if rec.MacHex == "" {
		return nil, newErr(ErrMissingField, "Private-MAC header is absent")
	}
	if rec.Encryption == "aes256-cbc" && len(rec.PrivateBlob)%16 != 0 {
		return nil, newErr(ErrInvalidPpkFormat, "encrypted private_blob is not a multiple of the cipher block size")
	}

	if rec.Version == 3 && rec.Encryption != "none" {
		if !sawArgon2Params {
			return nil, newErr(ErrMissingField, "Key-Derivation header is absent")
		}
		if argon2Passes < 1 {
			return nil, newErr(ErrInvalidPpkFormat, "Argon2-Passes must be at least 1")
		}
		if argon2Parallelism < 1 {
			return nil, newErr(ErrInvalidPpkFormat, "Argon2-Parallelism must be at least 1")
		}
		if argon2Memory < 8*argon2Parallelism {
			return nil, newErr(ErrInvalidPpkFormat, "Argon2-Memory must be at least 8x Argon2-Parallelism")
		}
		if len(argon2Salt) == 0 {
			return nil, newErr(ErrMissingField, "Argon2-Salt header is absent")
		}
		rec.Argon2 = &Argon2Params{
			Flavor:      argon2Flavor,
			MemoryKiB:   argon2Memory,
			Passes:      argon2Passes,
			Parallelism: argon2Parallelism,
			Salt:        argon2Salt,
		}
	}

	return rec, nil
}
