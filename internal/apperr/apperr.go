package apperr

import "errors"

var (
	// ErrNotFound is returned when a document id has no stored tree.
	ErrNotFound = errors.New("not found")
	// ErrElementNotFound is returned when a node id does not exist in a tree.
	ErrElementNotFound = errors.New("element not found")
	// ErrClassNotFound is returned when a class to remove is not on the element.
	ErrClassNotFound = errors.New("class not found")
	// ErrBuiltinClass is returned when a caller tries to remove a builtin class.
	ErrBuiltinClass = errors.New("builtin class")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
