package pipeline

import (
	"fmt"
	"strings"
)

// FormatError reports input that could not be parsed as the declared format.
type FormatError struct {
	Format string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot parse input as %s: %v", e.Format, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// SheetNotFoundError reports a sheet selector that matches no sheet in the
// workbook.
type SheetNotFoundError struct {
	Sheet     string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found (workbook has: %s)", e.Sheet, strings.Join(e.Available, ", "))
}

// SizeAnnotationMissingError reports a variant row whose size suffix is not
// in the canonical table and whose product name carries no [S]Size= value.
type SizeAnnotationMissingError struct {
	Line int
	SKU  string
}

func (e *SizeAnnotationMissingError) Error() string {
	return fmt.Sprintf("row %d: no size for item %q: suffix not canonical and no [S]Size= annotation", e.Line, e.SKU)
}

// NoCurrentParentError reports a variant row seen before any parent row.
type NoCurrentParentError struct {
	Line int
	SKU  string
}

func (e *NoCurrentParentError) Error() string {
	return fmt.Sprintf("row %d: variant %q appears before any parent row", e.Line, e.SKU)
}

// EmptyGroupError reports a parent with zero parsed variants at completion
// time; without a seed MPN no color identifier can be derived.
type EmptyGroupError struct {
	SKU string
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("product %q has no variant rows to complete from", e.SKU)
}

// NormalizationError wraps any failure inside normalization with the source
// row it occurred on, when one is known.
type NormalizationError struct {
	Line int
	Err  error
}

func (e *NormalizationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("normalize: row %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("normalize: %v", e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }
