package templates

import "strings"

const (
	openDelim  = "#{"
	closeDelim = '}'
)

// segment is either literal text or a placeholder reference
type segment struct {
	text        string
	placeholder bool
}

type scanState int

const (
	outside scanState = iota
	inside
)

// scan splits body into literal and placeholder segments. A placeholder starts
// at "#{" and ends at the first "}" after it. Empty names and unterminated
// openers are kept as literal text.
func scan(body string) []segment {
	var (
		segments []segment
		literal  strings.Builder
		state    = outside
		start    int // offset of the current "#{"
	)

	for i := 0; i < len(body); i++ {
		switch state {
		case outside:
			if strings.HasPrefix(body[i:], openDelim) {
				state = inside
				start = i
				i++ // skip '{'
				continue
			}
			literal.WriteByte(body[i])
		case inside:
			if body[i] != closeDelim {
				continue
			}
			name := body[start+len(openDelim) : i]
			if name == "" {
				literal.WriteString(body[start : i+1])
			} else {
				if literal.Len() > 0 {
					segments = append(segments, segment{text: literal.String()})
					literal.Reset()
				}
				segments = append(segments, segment{text: name, placeholder: true})
			}
			state = outside
		}
	}

	if state == inside {
		literal.WriteString(body[start:])
	}
	if literal.Len() > 0 {
		segments = append(segments, segment{text: literal.String()})
	}

	return segments
}

func distinctNames(segments []segment) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, s := range segments {
		if !s.placeholder {
			continue
		}
		if _, ok := seen[s.text]; ok {
			continue
		}
		seen[s.text] = struct{}{}
		names = append(names, s.text)
	}
	return names
}

// validName reports whether name matches [A-Za-z][A-Za-z0-9]*
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if i == 0 && !isLetter {
			return false
		}
		if !isLetter && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// IsRuntimeTag reports whether value is itself a placeholder span or contains
// "#{" followed later by "}". Runtime tags are substituted verbatim.
func IsRuntimeTag(value string) bool {
	open := strings.Index(value, openDelim)
	if open < 0 {
		return false
	}
	return strings.IndexByte(value[open+len(openDelim):], closeDelim) >= 0
}
