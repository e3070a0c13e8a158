package templates

import (
	"errors"
	"fmt"
	"strings"
)

// NullPolicy decides how a placeholder bound to null is rendered.
type NullPolicy string

const (
	// NullReject fails rendering with ErrNullValue.
	NullReject NullPolicy = "reject"
	// NullAsEmpty renders null bindings as an empty string.
	NullAsEmpty NullPolicy = "empty"
)

// ParseNullPolicy maps a config value to a NullPolicy
func ParseNullPolicy(s string) (NullPolicy, error) {
	switch NullPolicy(s) {
	case "", NullReject:
		return NullReject, nil
	case NullAsEmpty:
		return NullAsEmpty, nil
	default:
		return "", fmt.Errorf("unsupported null policy %q", s)
	}
}

// Renderer turns a template into message text
type Renderer interface {
	Render(t *Template) (string, error)
}

// Engine renders #{name} placeholders with the template's bindings.
type Engine struct {
	strictNames bool
	nullPolicy  NullPolicy
	charset     Charset
}

// Option configures an Engine
type Option func(*Engine)

// WithStrictNames toggles placeholder name validation
func WithStrictNames(strict bool) Option {
	return func(e *Engine) {
		e.strictNames = strict
	}
}

// WithNullPolicy sets how null bindings are handled
func WithNullPolicy(p NullPolicy) Option {
	return func(e *Engine) {
		e.nullPolicy = p
	}
}

// WithCharset sets the text normalization applied before substitution
func WithCharset(c Charset) Option {
	return func(e *Engine) {
		e.charset = c
	}
}

// Lenient accepts any non-empty placeholder name and renders nulls as "".
func Lenient() Option {
	return func(e *Engine) {
		e.strictNames = false
		e.nullPolicy = NullAsEmpty
		e.charset = CharsetUTF8
	}
}

// NewEngine creates an engine. By default names are validated, null bindings
// are rejected and text is handled as UTF-8.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		strictNames: true,
		nullPolicy:  NullReject,
		charset:     CharsetUTF8,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ Renderer = (*Engine)(nil)

// Render substitutes every placeholder in t's body in a single pass.
// All placeholders are validated before anything is substituted; on failure no
// output is returned. Substituted values are never scanned again, so a value
// such as "#{other}" appears verbatim in the result.
func (e *Engine) Render(t *Template) (string, error) {
	if t == nil {
		return "", errors.New("template is required")
	}

	body := e.charset.normalize(t.Body())
	segments := scan(body)
	names := distinctNames(segments)

	values, err := e.resolve(t, names)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.Grow(len(body))
	for _, s := range segments {
		if s.placeholder {
			out.WriteString(values[s.text])
			continue
		}
		out.WriteString(s.text)
	}

	return out.String(), nil
}

// resolve validates names against the bindings and returns the text to
// substitute for each of them.
func (e *Engine) resolve(t *Template, names []string) (map[string]string, error) {
	var invalid, null, missing []string
	values := make(map[string]string, len(names))

	for _, name := range names {
		if e.strictNames && !validName(name) {
			invalid = append(invalid, name)
		}

		v, ok := t.lookup(name)
		switch {
		case !ok:
			missing = append(missing, name)
		case !v.Valid && e.nullPolicy == NullReject:
			null = append(null, name)
		case !v.Valid:
			values[name] = ""
		case IsRuntimeTag(v.String):
			values[name] = v.String
		default:
			values[name] = e.charset.normalize(v.String)
		}
	}

	var errs []error
	if len(invalid) > 0 {
		errs = append(errs, newPlaceholderError(ErrInvalidPlaceholder, invalid))
	}
	if len(null) > 0 {
		errs = append(errs, newPlaceholderError(ErrNullValue, null))
	}
	if len(missing) > 0 {
		errs = append(errs, newPlaceholderError(ErrMissingValue, missing))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return values, nil
}
