package torrentfile

import "encoding/hex"

// ToHex renders b as lowercase hex, two characters per byte, no
// separators. Used to display info hashes and piece digests.
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}
