package hash

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns the hex encoded xxHash of a tree text.
// Line endings are normalized first so a file saved with CRLF endings
// fingerprints the same as its LF twin.
func Fingerprint(data []byte) string {
	h := xxhash.New()

	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			h.Write(data[start:i])
			start = i + 1
		}
	}
	h.Write(data[start:])

	return encode(h.Sum64())
}

// FingerprintString is Fingerprint for text already held as a string.
func FingerprintString(s string) string {
	return Fingerprint([]byte(s))
}

// Equal reports whether data still matches a previously taken fingerprint.
func Equal(fingerprint string, data []byte) bool {
	return fingerprint != "" && fingerprint == Fingerprint(data)
}

func encode(sum uint64) string {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, sum)
	return hex.EncodeToString(buf)
}
