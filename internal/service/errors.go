package service

// User-visible error categories. Handlers translate these to stable status
// codes and structured payloads; anything else is reported generically.

// ValidationError is a user-correctable input failure (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError is a business-rule rejection on existing state (409).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError is a missing-resource business failure (404).
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// UnauthorizedError is an authentication failure (401).
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }
