package errcode

import (
	"errors"
	"fmt"
)

// Code is the numeric error code returned to clients. The values are stable and must match
// the ids of the rows in the error table.
type Code int

const (
	OK                  Code = 0
	DatabaseError       Code = 1
	NotFoundError       Code = 2
	InvalidRequestError Code = 3
)

var defaultNames = map[Code]string{
	OK:                  "OK",
	DatabaseError:       "DatabaseError",
	NotFoundError:       "NotFoundError",
	InvalidRequestError: "InvalidRequestError",
}

// String returns the built-in name of the code. It is only used for logs; replies take
// their names from the Names table loaded from the database.
func (c Code) String() string {
	if name, ok := defaultNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is an error carrying the code it should be reported with.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches code to err. A nil err still produces a coded error.
func Wrap(code Code, err error) error {
	return &Error{Code: code, Err: err}
}

// Of returns the code carried by err. Nil maps to OK and errors without a code map to
// DatabaseError.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return DatabaseError
}
