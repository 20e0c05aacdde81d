package format

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// Null is rendered in place of an absent value.
const Null = "null"

// ToText decodes b as UTF-8. Invalid sequences become U+FFFD.
// A nil slice yields Null; an empty slice yields "".
func ToText(b []byte) string {
	if b == nil {
		return Null
	}
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

// ToHex encodes b as lowercase hex pairs without separators.
// A nil slice yields Null.
func ToHex(b []byte) string {
	if b == nil {
		return Null
	}
	return hex.EncodeToString(b)
}

// ToBase64 encodes b with the standard base64 alphabet.
// A nil slice yields Null.
func ToBase64(b []byte) string {
	if b == nil {
		return Null
	}
	return base64.StdEncoding.EncodeToString(b)
}

// IsASCIIPrintable reports whether every rune of s is in 0x20..0x7E.
// The empty string is printable.
func IsASCIIPrintable(s string) bool {
	for _, r := range s {
		if r < 0x20 || r > 0x7E {
			return false
		}
	}
	return true
}

// Printable reports whether b decodes to printable ASCII.
// A nil slice is not printable.
func Printable(b []byte) bool {
	if b == nil {
		return false
	}
	return IsASCIIPrintable(ToText(b))
}
