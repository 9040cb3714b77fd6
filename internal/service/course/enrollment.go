package course

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
	"github.com/josh-kwaku/learning-backend/internal/logging"
)

func (s *Service) Enrollments(ctx context.Context, courseID uuid.UUID) ([]domain.Enrollment, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, fmt.Errorf("Enrollments: %w", err)
	}
	list, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("Enrollments: %w", err)
	}
	return list, nil
}

func (s *Service) StudentEnrollments(ctx context.Context, studentID uuid.UUID, p domain.PageRequest) (domain.Page[domain.Enrollment], error) {
	page, err := s.enrollments.ListByStudent(ctx, studentID, p)
	if err != nil {
		return page, fmt.Errorf("StudentEnrollments: %w", err)
	}
	return page, nil
}

func (s *Service) Enrollment(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	e, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Enrollment: %w", err)
	}
	return e, nil
}

// SetEnrollmentStatus moves an enrollment to status. The course creator, its
// instructor or an admin may do this.
func (s *Service) SetEnrollmentStatus(ctx context.Context, requesterID, enrollmentID uuid.UUID, status domain.EnrollmentStatus) (e *domain.Enrollment, err error) {
	defer func() { s.metrics.observe("enrollment_status", err) }()

	if !status.IsValid() {
		return nil, fmt.Errorf("SetEnrollmentStatus: status %q: %w", status, domain.ErrInvalidRequest)
	}
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("SetEnrollmentStatus: requester: %w", err)
	}

	current, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("SetEnrollmentStatus: %w", err)
	}

	// Course before enrollment, the same lock order as join and cancel.
	err = s.tx.InTx(ctx, func(tx *sql.Tx) error {
		c, err := s.courses.GetForUpdate(ctx, tx, current.CourseID)
		if err != nil {
			return err
		}
		if !domain.CanManageEnrollments(c, requester) {
			return domain.ErrForbidden
		}
		e, err = s.enrollments.GetForUpdate(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}
		e.SetStatus(status, s.now())
		return s.enrollments.UpdateStatus(ctx, tx, e)
	})
	if err != nil {
		return nil, fmt.Errorf("SetEnrollmentStatus: %w", err)
	}

	logging.FromContext(ctx).Info("enrollment status changed",
		"enrollment_id", enrollmentID,
		"course_id", e.CourseID,
		"user_id", requesterID,
		"status", status,
	)
	return e, nil
}
