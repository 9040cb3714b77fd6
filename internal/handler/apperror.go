package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrForbidden          = &AppError{http.StatusForbidden, "FORBIDDEN", "You are not allowed to perform this action"}
	ErrTooManyRequests    = &AppError{http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidState      = &AppError{http.StatusConflict, "INVALID_STATE", "Operation not allowed in the course's current state"}
	ErrCapacityExceeded  = &AppError{http.StatusConflict, "CAPACITY_EXCEEDED", "The course is full"}
	ErrAlreadyEnrolled   = &AppError{http.StatusConflict, "ALREADY_ENROLLED", "You are already enrolled in this course"}
	ErrNotAssociated     = &AppError{http.StatusConflict, "INVALID_STATE", "You are not associated with this course"}
	ErrVersionConflict   = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Resource was modified concurrently, please retry"}
	ErrInvalidInstructor = &AppError{http.StatusBadRequest, "INVALID_INSTRUCTOR", "Instructor must be a user with the INSTRUCTOR or ADMIN role"}
	ErrEmailTaken        = &AppError{http.StatusConflict, "EMAIL_TAKEN", "Email is already taken"}
	ErrUsernameTaken     = &AppError{http.StatusConflict, "USERNAME_TAKEN", "Username is already taken"}
	ErrAccountInactive   = &AppError{http.StatusForbidden, "ACCOUNT_INACTIVE", "Your account has been deactivated"}
)
