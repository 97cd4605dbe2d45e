package controllers

// ErrEntryNotFound is returned when an update or delete matches no entry.
var ErrEntryNotFound = &CustomError{"No entry found with the provided ID"}

// CustomError carries a message shown to API callers verbatim.
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}
