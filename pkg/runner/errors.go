package runner

import "fmt"

// UnknownActionError reports a setup or step action the
// interpreter does not recognize.
type UnknownActionError struct {
	// Scope is "setup" or "step".
	Scope string

	// Action is the unrecognized action string.
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown %s action: %q", e.Scope, e.Action)
}
