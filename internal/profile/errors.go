package profile

import "fmt"

// ValidationError reports a malformed or out-of-range user input. It always
// names the field so the operator can correct it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
