package templates

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrMissingValue indicates referenced placeholders have no binding.
	ErrMissingValue = errors.New("missing values for placeholders")

	// ErrNullValue indicates referenced placeholders are bound to null.
	ErrNullValue = errors.New("null value not allowed for placeholders")

	// ErrInvalidPlaceholder indicates a referenced name is not [A-Za-z][A-Za-z0-9]*.
	ErrInvalidPlaceholder = errors.New("invalid placeholder format")
)

// PlaceholderError reports every placeholder that failed one validation rule.
type PlaceholderError struct {
	Kind  error
	Names []string
}

func newPlaceholderError(kind error, names []string) *PlaceholderError {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return &PlaceholderError{Kind: kind, Names: sorted}
}

func (e *PlaceholderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Names, ", "))
}

func (e *PlaceholderError) Unwrap() error {
	return e.Kind
}

// FailedPlaceholders returns the sorted, distinct names reported by every
// PlaceholderError in err's tree.
func FailedPlaceholders(err error) []string {
	seen := make(map[string]struct{})
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case nil:
		case *PlaceholderError:
			for _, n := range e.Names {
				seen[n] = struct{}{}
			}
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
