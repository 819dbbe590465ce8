package draft

import "fmt"

// User-facing gate messages.
const (
	MsgTableRequired      = "Table number is not set for a dine-in order."
	MsgMissingInformation = "Some information is missing to complete the order!"
)

// ValidationError is a recoverable gate failure shown to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
