package folio

import "fmt"

// ValidationError reports a malformed or out-of-range command argument.
// The snapshot the command was applied to is returned unchanged.
type ValidationError struct {
	Op     string // command name, like "buy"
	Field  string // offending argument, like "shares"
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s %s", e.Op, e.Field, e.Reason)
}

// NotFoundError reports a command referencing a holding that does not exist.
// The snapshot the command was applied to is returned unchanged.
type NotFoundError struct {
	Op string
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no holding with id %q", e.Op, e.ID)
}

func invalid(op, field, format string, args ...any) *ValidationError {
	return &ValidationError{Op: op, Field: field, Reason: fmt.Sprintf(format, args...)}
}
