// Package path resolves dot-separated addresses against nested values,
// such as "metadata.trend" or "trust".
package path

import (
	"fmt"
	"strings"
)

// FieldReader is implemented by values that expose named fields for
// resolution. GetField returns the field value and true when the name
// is known, or false when the value has no such field.
type FieldReader interface {
	GetField(name string) (any, bool)
}

// AddressError reports the first path segment that could not be
// resolved, together with the container it was resolved against.
type AddressError struct {
	Segment   string
	Container any
}

// Error implements the error interface.
func (e *AddressError) Error() string {
	return fmt.Sprintf("cannot access %q in %T", e.Segment, e.Container)
}

// Resolve walks root one dot-separated segment at a time and returns the
// value the full path addresses. At each segment a FieldReader takes
// precedence; when the current value is not a FieldReader, or does not
// know the segment, a map[string]any entry with the segment as key is
// used instead. Any segment that neither source can satisfy stops the
// walk with an AddressError.
func Resolve(root any, path string) (any, error) {
	value := root
	for _, segment := range strings.Split(path, ".") {
		next, err := resolveSegment(value, segment)
		if err != nil {
			return nil, err
		}
		value = next
	}
	return value, nil
}

func resolveSegment(container any, segment string) (any, error) {
	if reader, ok := container.(FieldReader); ok {
		if v, found := reader.GetField(segment); found {
			return v, nil
		}
	}
	if m, ok := container.(map[string]any); ok {
		if v, found := m[segment]; found {
			return v, nil
		}
	}
	return nil, &AddressError{Segment: segment, Container: container}
}
