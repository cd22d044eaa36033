package dropdata

import "errors"

var (
	// ErrDataLoad is returned when the source table cannot be read or
	// parsed. It is surfaced to the caller unchanged and never retried
	// by the pipeline.
	ErrDataLoad = errors.New("data load error")

	// ErrColumnNotFound is returned when a required column is missing
	// from the table, or when no usable time or acceleration column
	// can be resolved even after the numeric fallback.
	ErrColumnNotFound = errors.New("column not found")

	// ErrProcessing is returned for conditions fatal to one pipeline
	// invocation: both sensors disabled, or an adjusted time axis that
	// never reaches zero.
	ErrProcessing = errors.New("data processing error")

	// ErrContract is returned for programmer errors such as mismatched
	// series lengths or a non-positive gravity constant. These are
	// signaled immediately, never silently coerced.
	ErrContract = errors.New("contract violation")
)
