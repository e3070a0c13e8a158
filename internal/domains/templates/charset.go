package templates

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Charset selects how text is normalized before substitution.
type Charset string

const (
	// CharsetUTF8 operates directly on decoded text.
	CharsetUTF8 Charset = "utf-8"
	// CharsetLatin1 round-trips text through ISO-8859-1. Characters outside
	// Latin-1 are replaced with '?'.
	CharsetLatin1 Charset = "latin1"
)

// ParseCharset maps a config value to a Charset
func ParseCharset(s string) (Charset, error) {
	switch s {
	case "", "utf-8", "utf8":
		return CharsetUTF8, nil
	case "latin1", "latin-1", "iso-8859-1":
		return CharsetLatin1, nil
	default:
		return "", fmt.Errorf("unsupported charset %q", s)
	}
}

// normalize round-trips s through ISO-8859-1 in Latin-1 mode. Runes outside
// the charset, including invalid UTF-8, become '?'.
func (c Charset) normalize(s string) string {
	if c != CharsetLatin1 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		enc, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			b.WriteByte('?')
			continue
		}
		b.WriteRune(charmap.ISO8859_1.DecodeByte(enc))
	}
	return b.String()
}
