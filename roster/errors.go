package roster

import "errors"

var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrClassExists     = errors.New("class already exists")
	ErrClassNotFound   = errors.New("class not found")
	ErrStudentExists   = errors.New("student already exists in class")
	ErrStudentNotFound = errors.New("student not found")
	ErrUnknownBehavior = errors.New("unknown behavior")
)
