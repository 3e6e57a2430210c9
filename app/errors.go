package main

import "fmt"

// Domain-specific sentinel errors, wrapped into *DatabaseError at the
// point they're detected so callers get an operation name and context
// alongside the underlying cause.
var (
	ErrInvalidDatabase    = fmt.Errorf("invalid database file")
	ErrTableNotFound      = fmt.Errorf("table not found")
	ErrIndexNotFound      = fmt.Errorf("index not found")
	ErrColumnNotFound     = fmt.Errorf("column not found")
	ErrInvalidPageType    = fmt.Errorf("invalid page type")
	ErrInsufficientData   = fmt.Errorf("insufficient data")
	ErrInvalidCellPointer = fmt.Errorf("invalid cell pointer")
	ErrInvalidVarint      = fmt.Errorf("invalid varint")
	ErrParse              = fmt.Errorf("parse error")
	ErrUnsupportedQuery   = fmt.Errorf("unsupported query")
)

// DatabaseError carries the operation that failed, the underlying cause,
// and structured context for diagnostics.
type DatabaseError struct {
	Operation string
	Err       error
	Context   map[string]interface{}
}

func (e *DatabaseError) Error() string {
	if e.Context == nil {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s: %v (context: %+v)", e.Operation, e.Err, e.Context)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// NewDatabaseError wraps err with the operation that produced it.
func NewDatabaseError(operation string, err error, context map[string]interface{}) *DatabaseError {
	return &DatabaseError{Operation: operation, Err: err, Context: context}
}
