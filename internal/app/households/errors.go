package households

import "net/http"

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any

	// Err is the underlying cause, kept for logs. It is never rendered to clients.
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "HOUSEHOLD_NOT_FOUND"
)

// Both kinds surface as 400 to clients; they are distinguished by Code only.
func validationError(cause error) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: "invalid household payload",
		Err:     cause,
	}
}

func notFoundError(id string, cause error) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeNotFound,
		Message: "no readable household exists for the given id",
		Details: map[string]any{"householdId": id},
		Err:     cause,
	}
}
