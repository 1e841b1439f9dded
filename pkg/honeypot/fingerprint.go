package honeypot

import (
	"crypto/md5"
	"encoding/hex"
)

// PublicIdentifierFor returns the wire-level name of the visible input for the
// honeypot called name: the lowercase hex MD5 digest of its UTF-8 bytes.
// The value is stable across processes and matches markup produced by other
// md5(name) implementations of the same scheme.
func PublicIdentifierFor(name string) string {
	sum := md5.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}
