package flux

import (
	"fmt"

	"github.com/samber/mo"
)

// Decode errors. Every one of these is fatal for the decode operation that
// produced it; the decoder never resynchronizes mid-stream.

// RowSourceError reports a failure in the underlying CSV tokenizer or its
// byte stream, as opposed to an error carried inside the payload.
type RowSourceError struct {
	Err error
}

func (e *RowSourceError) Error() string {
	return fmt.Sprintf("row source error: %v", e.Err)
}

func (e *RowSourceError) Unwrap() error {
	return e.Err
}

// MissingAnnotationError reports a header or data row seen before a
// #datatype annotation was recorded for the active table.
type MissingAnnotationError struct {
	Context string
}

func (e *MissingAnnotationError) Error() string {
	return fmt.Sprintf("missing annotation: %s", e.Context)
}

// ColumnMismatchError reports a row whose cell count disagrees with the
// active table's column count.
type ColumnMismatchError struct {
	Expected int
	Actual   int
}

func (e *ColumnMismatchError) Error() string {
	return fmt.Sprintf("column count mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// UnknownDataTypeError reports a #datatype cell outside the known external
// type vocabulary.
type UnknownDataTypeError struct {
	Text string
}

func (e *UnknownDataTypeError) Error() string {
	return fmt.Sprintf("unknown data type: %s", e.Text)
}

// ParseError reports a cell that failed type-specific coercion. Message
// names the offending raw text and the column.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse value: %s", e.Message)
}

// QueryError is an in-band failure reported by the server through an error
// table in the payload.
type QueryError struct {
	Message   string
	Reference mo.Option[string]
}

func (e *QueryError) Error() string {
	if ref, ok := e.Reference.Get(); ok {
		return fmt.Sprintf("query error: %s (reference %s)", e.Message, ref)
	}
	return fmt.Sprintf("query error: %s", e.Message)
}

// InvalidFirstCellError reports a row whose first cell was neither empty nor
// #-prefixed.
type InvalidFirstCellError struct {
	Text string
}

func (e *InvalidFirstCellError) Error() string {
	return fmt.Sprintf("invalid first cell: %s", e.Text)
}
