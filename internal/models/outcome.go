package models

type OutcomeStatus string

const (
	OutcomeSuccess           OutcomeStatus = "success"
	OutcomeNotFound          OutcomeStatus = "not_found"
	OutcomeInvalidIdentifier OutcomeStatus = "invalid_identifier"
	OutcomeValidationError   OutcomeStatus = "validation_error"
)

// Outcome is the result of a write. Domain failures are values, not errors,
// so each transport decides how to externalize them.
type Outcome struct {
	Status  OutcomeStatus
	ID      string
	Message string
	// Fields holds per-field messages for OutcomeValidationError.
	Fields map[string]string
}

func (o Outcome) OK() bool {
	return o.Status == OutcomeSuccess
}

func Succeeded(id, message string) Outcome {
	return Outcome{Status: OutcomeSuccess, ID: id, Message: message}
}

func NotFound(id string) Outcome {
	return Outcome{Status: OutcomeNotFound, ID: id, Message: "Product not found"}
}

func InvalidIdentifier(id string) Outcome {
	return Outcome{Status: OutcomeInvalidIdentifier, ID: id, Message: "Invalid product id"}
}

func ValidationFailed(message string, fields map[string]string) Outcome {
	return Outcome{Status: OutcomeValidationError, Message: message, Fields: fields}
}

// Err converts a failed outcome into the equivalent classified error, for
// transports that surface domain failures as errors.
func (o Outcome) Err() error {
	switch o.Status {
	case OutcomeNotFound:
		return &Error{Kind: KindNotFound, Message: o.Message}
	case OutcomeInvalidIdentifier:
		return &Error{Kind: KindInvalidIdentifier, Message: o.Message}
	case OutcomeValidationError:
		return &Error{Kind: KindValidation, Message: o.Message}
	default:
		return nil
	}
}
