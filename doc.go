// Package ppk converts PuTTY private key files (PPK v2 and v3) into
// OpenSSH-compatible key material: it parses the PPK text container,
// derives symmetric key material and decrypts the private payload when
// the file is passphrase-protected, verifies the file's keyed MAC,
// decodes the per-algorithm SSH wire fields, and re-encodes the result as
// either a PEM private key or an openssh-key-v1 container.
//
// The only entry points a caller needs are Parse and ParsePublicOnly; the
// rest of the package is the machinery behind them.
package ppk
