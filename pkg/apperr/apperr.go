package apperr

import "fmt"

// Coded is implemented by every business error that has a stable,
// user-facing code. Anything else is treated as an internal failure.
type Coded interface {
	error
	Code() string
	HTTPStatus() int
}

type Error struct {
	code    string
	status  int
	message string
}

func New(code string, status int, message string) *Error {
	return &Error{code: code, status: status, message: message}
}

func (e *Error) Error() string   { return e.message }
func (e *Error) Code() string    { return e.code }
func (e *Error) HTTPStatus() int { return e.status }

// Withf returns a copy of e carrying a more specific message. The copy
// still matches e under errors.Is.
func (e *Error) Withf(format string, args ...any) error {
	return &detailed{base: e, message: fmt.Sprintf(format, args...)}
}

type detailed struct {
	base    *Error
	message string
}

func (d *detailed) Error() string        { return d.message }
func (d *detailed) Code() string         { return d.base.code }
func (d *detailed) HTTPStatus() int      { return d.base.status }
func (d *detailed) Is(target error) bool { return target == d.base }
