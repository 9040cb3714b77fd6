package domain

import "github.com/google/uuid"

// CanCreateCourse reports whether a user with role may create a course of type t.
// Students are limited to individual courses.
func CanCreateCourse(role UserRole, t CourseType) bool {
	return !(role == UserRoleStudent && t == CourseTypeGroup)
}

// CanModifyCourse is the creator-only rule used by update and delete.
func CanModifyCourse(c *Course, userID uuid.UUID) bool {
	return c.IsCreator(userID)
}

// CanCancelCourse is the creator-or-admin rule used by cancel.
func CanCancelCourse(c *Course, u *User) bool {
	return c.IsCreator(u.ID) || u.IsAdmin()
}

// CanManageEnrollments covers enrollment status changes: creator, assigned
// instructor, or admin.
func CanManageEnrollments(c *Course, u *User) bool {
	return c.IsCreator(u.ID) || c.IsInstructor(u.ID) || u.IsAdmin()
}

func CanInstruct(role UserRole) bool {
	return role == UserRoleInstructor || role == UserRoleAdmin
}

// CheckJoin validates a join request against the course's current state. The
// order of checks decides which error a caller sees when several apply.
func CheckJoin(c *Course, studentID uuid.UUID) error {
	if !c.Status.IsJoinable() {
		return ErrInvalidState
	}
	if c.IsFull() {
		return ErrCapacityExceeded
	}
	if c.EnrollmentOf(studentID) != nil {
		return ErrAlreadyEnrolled
	}
	return nil
}

type CancelAction int

const (
	CancelActionNone CancelAction = iota
	CancelActionCancelCourse
	CancelActionLeave
	CancelActionDetachInstructor
)

func (a CancelAction) String() string {
	switch a {
	case CancelActionCancelCourse:
		return "course cancelled"
	case CancelActionLeave:
		return "removed from course"
	case CancelActionDetachInstructor:
		return "detached as instructor"
	default:
		return "not associated with this course"
	}
}

// ResolveCancel picks what a cancel request by u means for course c.
func ResolveCancel(c *Course, u *User) CancelAction {
	switch {
	case CanCancelCourse(c, u):
		return CancelActionCancelCourse
	case c.EnrollmentOf(u.ID) != nil:
		return CancelActionLeave
	case c.IsInstructor(u.ID):
		return CancelActionDetachInstructor
	default:
		return CancelActionNone
	}
}

// IsRelatedOrOpen reports whether course c belongs in the related-or-open
// listing for userID. It mirrors the SQL used by the course query repository.
func IsRelatedOrOpen(c *Course, userID uuid.UUID) bool {
	switch {
	case c.IsCreator(userID), c.IsInstructor(userID), c.EnrollmentOf(userID) != nil:
		return true
	case c.Type == CourseTypeGroup && len(c.Enrollments) < c.MaxStudents:
		return true
	case c.Type == CourseTypeIndividual && c.Creator.Role == UserRoleInstructor && len(c.Enrollments) == 0:
		return true
	}
	return false
}
