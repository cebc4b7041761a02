package assertion

import "fmt"

// AllPassComposite evaluates a set of assertions against named
// values and collapses them into a single result that passes only
// when every assertion passed.
func AllPassComposite(
	engine Engine,
	assertions []Definition,
	values map[string]any,
) Result {
	results := engine.EvaluateAll(assertions, values)

	for _, r := range results {
		if !r.Passed {
			return Result{
				Type:   "all_pass",
				Passed: false,
				Message: fmt.Sprintf(
					"assertion '%s' on path '%s' failed: %s",
					r.Type, r.Path, r.Message,
				),
			}
		}
	}

	return Result{
		Type:   "all_pass",
		Passed: true,
		Message: fmt.Sprintf(
			"all %d assertions passed", len(results),
		),
	}
}

// AnyPassComposite evaluates a set of assertions against named
// values and collapses them into a single result that passes when
// at least one assertion passed.
func AnyPassComposite(
	engine Engine,
	assertions []Definition,
	values map[string]any,
) Result {
	results := engine.EvaluateAll(assertions, values)

	for _, r := range results {
		if r.Passed {
			return Result{
				Type:   "any_pass",
				Passed: true,
				Message: fmt.Sprintf(
					"assertion '%s' on path '%s' passed",
					r.Type, r.Path,
				),
			}
		}
	}

	return Result{
		Type:   "any_pass",
		Passed: false,
		Message: fmt.Sprintf(
			"none of %d assertions passed",
			len(results),
		),
	}
}

// CompositeAllPass returns an Evaluator that runs a fixed set of
// sub-assertions against the value under evaluation and requires
// all of them to pass. It is intended for registration as a
// custom assertion type.
func CompositeAllPass(
	engine Engine,
	subAssertions []Definition,
) Evaluator {
	return func(_ Definition, value any) (bool, string) {
		values := map[string]any{}
		for _, a := range subAssertions {
			values[a.Path] = value
		}
		r := AllPassComposite(engine, subAssertions, values)
		return r.Passed, r.Message
	}
}

// CompositeAnyPass returns an Evaluator that runs a fixed set of
// sub-assertions against the value under evaluation and requires
// at least one of them to pass.
func CompositeAnyPass(
	engine Engine,
	subAssertions []Definition,
) Evaluator {
	return func(_ Definition, value any) (bool, string) {
		values := map[string]any{}
		for _, a := range subAssertions {
			values[a.Path] = value
		}
		r := AnyPassComposite(engine, subAssertions, values)
		return r.Passed, r.Message
	}
}
