package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidState       = errors.New("invalid state for operation")
	ErrCapacityExceeded   = errors.New("course capacity exceeded")
	ErrAlreadyEnrolled    = errors.New("already enrolled in course")
	ErrNotAssociated      = errors.New("not associated with this course")
	ErrInvalidInstructor  = errors.New("instructor must have INSTRUCTOR or ADMIN role")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrEmailTaken         = errors.New("email already taken")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account inactive")
	ErrVersionConflict    = errors.New("optimistic lock conflict")
)
