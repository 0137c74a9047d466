package services

import "fmt"

// Outcome is the result of a write operation on a game.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeOK
	OutcomeAlreadyExists
	OutcomeNotFoundOrInactive
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeAlreadyExists:
		return "already_exists"
	case OutcomeNotFoundOrInactive:
		return "not_found_or_inactive"
	default:
		return "unknown"
	}
}

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("El campo %s es obligatorio", e.Field)
}
