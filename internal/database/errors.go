package database

import (
	"errors"
	"fmt"
)

// Common database errors that can be checked using errors.Is()
var (
	// ErrNotFound is returned when a record is not found in the database.
	ErrNotFound = errors.New("record not found")

	// ErrQueryFailed is returned when a query execution fails.
	ErrQueryFailed = errors.New("query execution failed")

	// ErrNotConnected is returned when no healthy connection is available.
	ErrNotConnected = errors.New("database not connected")
)

// DBError is a database failure annotated with the operation that caused it.
type DBError struct {
	err   error
	op    string
	query string
	// params are kept for debugging and never included in Error() output,
	// since they carry user input such as emails and phone numbers.
	params map[string]any
}

// NewDBError creates a new DBError for the given operation.
func NewDBError(err error, op string) *DBError {
	return &DBError{err: err, op: op}
}

// WithQuery adds query information to the error.
func (e *DBError) WithQuery(query string) *DBError {
	e.query = query
	return e
}

// WithParams attaches the query parameters.
func (e *DBError) WithParams(params map[string]any) *DBError {
	e.params = params
	return e
}

// Op returns the operation that failed.
func (e *DBError) Op() string { return e.op }

// Query returns the query that failed, if any.
func (e *DBError) Query() string { return e.query }

// Params returns the parameters used with the failing query.
func (e *DBError) Params() map[string]any { return e.params }

func (e *DBError) Error() string {
	msg := e.op
	if e.query != "" {
		msg = fmt.Sprintf("%s (query: %s)", msg, e.query)
	}
	if e.err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *DBError) Unwrap() error {
	return e.err
}

// WrapError annotates err with op. An existing DBError keeps its query and
// gets op prefixed to its operation.
func WrapError(err error, op string) error {
	if err == nil {
		return nil
	}
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		if dbErr.op != "" {
			op = op + ": " + dbErr.op
		}
		return &DBError{err: dbErr.err, op: op, query: dbErr.query, params: dbErr.params}
	}
	return NewDBError(err, op)
}
