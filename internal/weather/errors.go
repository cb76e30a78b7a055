package weather

import "errors"

var (
	// ErrAttributeNotFound is returned when a member name is not present on an entity.
	ErrAttributeNotFound = errors.New("attribute not found")
	// ErrIndexOutOfRange is returned when an offset lookup falls outside the stored timesteps.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrTemporalParse is returned when a date/time string does not match the canonical format.
	ErrTemporalParse = errors.New("invalid date/time format")
	// ErrTemporalNotFound is returned when a valid date/time has no exact match in a series.
	ErrTemporalNotFound = errors.New("no timestep for date/time")
	// ErrUnsupportedIndex is returned for index values that are neither offsets, strings nor times.
	ErrUnsupportedIndex = errors.New("unsupported index type")
	// ErrEmptyInstance accompanies lookup errors on series without any timesteps.
	ErrEmptyInstance = errors.New("the instance does not contain any data")
	// ErrInvalidPayload is returned when the response document has an unexpected shape.
	ErrInvalidPayload = errors.New("invalid response payload")
)

// ErrTypeMismatch is returned by typed accessors when a member holds a different kind of value.
var ErrTypeMismatch = errors.New("attribute has a different type")
