package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string
}

// Unknown is the catch-all error for storage and internal failures. Callers
// log the cause and return this so clients never see raw database errors.
var Unknown = Error{Code: 100000, Message: "Request failed"}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}
