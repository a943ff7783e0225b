package ppk

import "encoding/binary"

// maxWireFieldSize bounds any single length-prefixed field decoded from an
// SSH wire blob. It is distinct from Options.MaxFieldSizeBytes, which
// bounds PPK text header values; this cap exists so a corrupted or
// adversarial length prefix inside an already-decrypted blob cannot drive
// an unbounded allocation.
const maxWireFieldSize = 1 << 20

// wireReader walks a length-prefixed SSH wire blob (RFC 4251 §5: uint32,
// string, mpint) the way PuTTY's own read_blob machinery walks a PPK field,
// refusing to read past the end of the buffer or past a sane field size.
type wireReader struct {
	buf []byte
	off int
}

func newWireReader(buf []byte) *wireReader {
	return &wireReader{buf: buf}
}

func (r *wireReader) remaining() int {
	return len(r.buf) - r.off
}

// atEnd reports whether every byte of the blob has been consumed, the way
// the teacher's checkGarbage helper validated a fully-consumed private blob.
func (r *wireReader) atEnd() bool {
	return r.off == len(r.buf)
}

func (r *wireReader) readUint32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, newErr(ErrBufferUnderrun, "truncated length prefix")
	}
	v := binary.BigEndian.Uint32(r.buf[r.off : r.off+4])
	r.off += 4
	return v, nil
}

// readBytes reads a uint32-length-prefixed byte string.
func (r *wireReader) readBytes() ([]byte, error) {
	n, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	if n > maxWireFieldSize {
		return nil, newErr(ErrFieldTooLarge, "wire field exceeds maximum size")
	}
	if r.remaining() < int(n) {
		return nil, newErr(ErrBufferUnderrun, "field length exceeds remaining buffer")
	}
	b := make([]byte, n)
	copy(b, r.buf[r.off:r.off+int(n)])
	r.off += int(n)
	return b, nil
}

func (r *wireReader) readString() (string, error) {
	b, err := r.readBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readMpint reads an RFC 4251 mpint: a length-prefixed two's-complement
// big-endian integer. PuTTY and OpenSSH both encode non-negative values
// with a leading 0x00 byte whenever the high bit of the first byte would
// otherwise be set; readMpint returns the magnitude with that guard byte
// stripped, since every key field this codec decodes is non-negative.
func (r *wireReader) readMpint() ([]byte, error) {
	b, err := r.readBytes()
	if err != nil {
		return nil, err
	}
	for len(b) > 0 && b[0] == 0x00 {
		b = b[1:]
	}
	return b, nil
}

// putUint32 and putBytes are the write-side counterparts used when
// re-framing decoded fields (e.g. for MAC computation or re-encoding).
func putUint32(dst []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(dst, tmp[:]...)
}

func putBytes(dst, b []byte) []byte {
	dst = putUint32(dst, uint32(len(b)))
	return append(dst, b...)
}

func putString(dst []byte, s string) []byte {
	return putBytes(dst, []byte(s))
}

// putMpint frames a non-negative magnitude as an RFC 4251 mpint, adding the
// sign-guard byte whenever the magnitude's high bit is set.
func putMpint(dst []byte, mag []byte) []byte {
	for len(mag) > 0 && mag[0] == 0x00 {
		mag = mag[1:]
	}
	if len(mag) == 0 {
		return putBytes(dst, nil)
	}
	if mag[0]&0x80 != 0 {
		padded := make([]byte, len(mag)+1)
		copy(padded[1:], mag)
		return putBytes(dst, padded)
	}
	return putBytes(dst, mag)
}
