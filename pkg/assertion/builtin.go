package assertion

import (
	"fmt"
	"math"
	"reflect"
)

// evaluateEquals checks the observed value for strict equality
// with the expected value. Numeric values compare by magnitude
// regardless of their concrete Go type, so an int 1 from a YAML
// document equals a float64 1 from a JSON document. Booleans,
// strings and numbers never equal each other across kinds.
func evaluateEquals(
	assertion Definition,
	value any,
) (bool, string) {
	if valuesEqual(assertion.Expected, value) {
		return true, fmt.Sprintf(
			"%s: value matches %v",
			assertion.Path, assertion.Expected,
		)
	}

	return false, fmt.Sprintf(
		"%s: expected %v, got %v",
		assertion.Path, assertion.Expected, value,
	)
}

// evaluateApproximately checks that the observed numeric value is
// within an absolute tolerance of the expected numeric value. A
// non-numeric value on either side fails the assertion.
func evaluateApproximately(
	assertion Definition,
	value any,
) (bool, string) {
	actual, ok := toFloat64(value)
	if !ok {
		return false, fmt.Sprintf(
			"%s: value %v (%T) is not numeric",
			assertion.Path, value, value,
		)
	}

	expected, ok := toFloat64(assertion.Expected)
	if !ok {
		return false, fmt.Sprintf(
			"%s: expected value %v (%T) is not numeric",
			assertion.Path,
			assertion.Expected, assertion.Expected,
		)
	}

	tolerance := assertion.ToleranceOrDefault()

	if math.Abs(actual-expected) <= tolerance {
		return true, fmt.Sprintf(
			"|%v - %v| <= %v", actual, expected, tolerance,
		)
	}

	return false, fmt.Sprintf(
		"%s: expected ~%v, got %v (tolerance: %v)",
		assertion.Path, assertion.Expected, value, tolerance,
	)
}

// --- helpers ---

// valuesEqual compares two decoded document values. Numbers are
// unified to float64 before comparison; slices and maps compare
// element-wise with the same rules.
func valuesEqual(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	if e, ok := toFloat64(expected); ok {
		a, numeric := toFloat64(actual)
		return numeric && e == a
	}

	switch e := expected.(type) {
	case string:
		a, ok := actual.(string)
		return ok && e == a
	case bool:
		a, ok := actual.(bool)
		return ok && e == a
	case []any:
		a, ok := actual.([]any)
		if !ok || len(a) != len(e) {
			return false
		}
		for i := range e {
			if !valuesEqual(e[i], a[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		a, ok := actual.(map[string]any)
		if !ok || len(a) != len(e) {
			return false
		}
		for k, v := range e {
			av, exists := a[k]
			if !exists || !valuesEqual(v, av) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(expected, actual)
	}
}

// toFloat64 converts the numeric types produced by JSON and YAML
// decoding, and by subject field reads, to float64. Booleans are
// not numeric.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
