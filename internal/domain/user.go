package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleInstructor UserRole = "INSTRUCTOR"
	UserRoleStudent    UserRole = "STUDENT"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleInstructor, UserRoleStudent:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusVerified    UserStatus = "VERIFIED"
	UserStatusNotVerified UserStatus = "NOT_VERIFIED"
	UserStatusInactive    UserStatus = "INACTIVE"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

type User struct {
	ID           uuid.UUID
	Username     string
	FullName     *string
	Email        string
	PasswordHash string
	Phone        *string
	Gender       *Gender
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Summary is the slice of a user that is embedded in course reads.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	}
}

type UserSummary struct {
	ID       uuid.UUID
	Username string
	FullName *string
	Email    string
	Role     UserRole
}
