package vector

import (
	"fmt"
	"os"
)

// ValidationError represents a structural issue found in a vector
// suite.
type ValidationError struct {
	Field   string
	Message string
	Index   int // -1 if not tied to a specific test
}

func (e ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("tests[%d].%s: %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a decoded suite for structural problems and
// returns all of them. A nil-length result means the suite is
// structurally sound; it does not guarantee the tests will pass.
func Validate(suite *Suite) []ValidationError {
	var errors []ValidationError

	if suite.Version == "" {
		errors = append(errors, ValidationError{
			Field: "version", Message: "version is required", Index: -1,
		})
	}
	if suite.SpecVersion == "" {
		errors = append(errors, ValidationError{
			Field: "spec_version", Message: "spec_version is required", Index: -1,
		})
	}

	ids := make(map[string]bool)
	for i, test := range suite.Tests {
		if test.ID == "" {
			errors = append(errors, ValidationError{
				Field: "id", Message: "test ID is required", Index: i,
			})
		} else if ids[test.ID] {
			errors = append(errors, ValidationError{
				Field: "id", Message: fmt.Sprintf("duplicate ID: %s", test.ID), Index: i,
			})
		} else {
			ids[test.ID] = true
		}

		if test.Name == "" {
			errors = append(errors, ValidationError{
				Field: "name", Message: "test name is required", Index: i,
			})
		}

		if test.Setup.Action != "" && test.Setup.Action != SetupInitialize {
			errors = append(errors, ValidationError{
				Field: "setup.action",
				Message: fmt.Sprintf(
					"unknown setup action: %s", test.Setup.Action,
				),
				Index: i,
			})
		}

		errors = append(errors, validateSteps(test, i)...)
		errors = append(errors, validateAssertions(test, i)...)
	}

	return errors
}

func validateSteps(test Test, index int) []ValidationError {
	var errors []ValidationError

	for s, step := range test.Steps {
		field := fmt.Sprintf("steps[%d]", s)

		switch step.Action {
		case StepProcessEvent:
			if step.Event == nil {
				errors = append(errors, ValidationError{
					Field:   field + ".event",
					Message: "process_event requires an event payload",
					Index:   index,
				})
			}
		case StepAdvanceTime:
			if step.Seconds < 0 {
				errors = append(errors, ValidationError{
					Field:   field + ".seconds",
					Message: "advance_time seconds must not be negative",
					Index:   index,
				})
			}
		case StepGetRecommendedAction:
		case "":
			errors = append(errors, ValidationError{
				Field:   field + ".action",
				Message: "step action is required",
				Index:   index,
			})
		}
		// Unknown actions are left for the runner, which fails
		// the test at execution time.
	}

	return errors
}

func validateAssertions(test Test, index int) []ValidationError {
	var errors []ValidationError

	for a, assertion := range test.Assertions {
		field := fmt.Sprintf("assertions[%d]", a)

		if assertion.Path == "" {
			errors = append(errors, ValidationError{
				Field:   field + ".path",
				Message: "assertion path is required",
				Index:   index,
			})
		}

		if assertion.Type == "" &&
			assertion.Path != ReservedActionPath {
			errors = append(errors, ValidationError{
				Field:   field + ".type",
				Message: "assertion type is required",
				Index:   index,
			})
		}

		if assertion.Tolerance != nil && *assertion.Tolerance < 0 {
			errors = append(errors, ValidationError{
				Field:   field + ".tolerance",
				Message: "tolerance must not be negative",
				Index:   index,
			})
		}
	}

	return errors
}

// ValidateFile loads a vector file and validates its structure.
// Read and parse failures are reported as validation errors so
// callers get a uniform result shape.
func ValidateFile(path string) []ValidationError {
	format, err := FormatForPath(path)
	if err != nil {
		return []ValidationError{{
			Field: "file", Message: err.Error(), Index: -1,
		}}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return []ValidationError{{
			Field: "file", Message: err.Error(), Index: -1,
		}}
	}

	suite, err := Parse(data, format)
	if err != nil {
		return []ValidationError{{
			Field: string(format), Message: err.Error(), Index: -1,
		}}
	}

	return Validate(suite)
}
