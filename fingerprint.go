package ppk

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// fingerprintSHA256 implements C10: "SHA256:" ‖ base64(SHA256(public_blob))
// with trailing "=" padding stripped, matching the format OpenSSH itself
// prints for ssh-keygen -l.
func fingerprintSHA256(publicBlob []byte) string {
	sum := sha256.Sum256(publicBlob)
	return "SHA256:" + strings.TrimRight(base64.StdEncoding.EncodeToString(sum[:]), "=")
}
