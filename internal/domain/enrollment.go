package domain

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus string

const (
	EnrollmentStatusWaitingForConfirmation EnrollmentStatus = "WAITING_FOR_CONFIRMATION"
	EnrollmentStatusOpenForJoining         EnrollmentStatus = "OPEN_FOR_JOINING"
	EnrollmentStatusJoined                 EnrollmentStatus = "JOINED"
	EnrollmentStatusCompleted              EnrollmentStatus = "COMPLETED"
)

func (s EnrollmentStatus) IsValid() bool {
	switch s {
	case EnrollmentStatusWaitingForConfirmation, EnrollmentStatusOpenForJoining,
		EnrollmentStatusJoined, EnrollmentStatusCompleted:
		return true
	}
	return false
}

// Enrollment links a student to a course. Rows are removed when the student
// leaves or the course is cancelled, so every stored row is active.
type Enrollment struct {
	ID          uuid.UUID
	CourseID    uuid.UUID
	StudentID   uuid.UUID
	Status      EnrollmentStatus
	JoinedAt    *time.Time
	CompletedAt *time.Time
}

// SetStatus moves the enrollment to status and stamps the matching timestamp.
func (e *Enrollment) SetStatus(status EnrollmentStatus, now time.Time) {
	e.Status = status
	switch status {
	case EnrollmentStatusJoined:
		e.JoinedAt = &now
	case EnrollmentStatusCompleted:
		e.CompletedAt = &now
	}
}
