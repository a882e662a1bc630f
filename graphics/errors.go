package graphics

import "errors"

var (
	// ErrParameterNotFound is returned when no parameter has the requested name
	ErrParameterNotFound = errors.New("shader parameter not found")
	// ErrDuplicateParameter is returned by Add when the name is already taken
	ErrDuplicateParameter = errors.New("shader parameter already exists")
	// ErrTypeMismatch is returned when a value does not match the stored or declared type
	ErrTypeMismatch = errors.New("shader parameter type mismatch")
	// ErrUnsupportedType is returned for values outside the supported uniform kinds
	ErrUnsupportedType = errors.New("unsupported uniform type")
	// ErrInvalidLocation is returned when a backend has nothing bound at a location
	ErrInvalidLocation = errors.New("invalid uniform location")
)
