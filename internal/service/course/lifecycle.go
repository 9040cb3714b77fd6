package course

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
	"github.com/josh-kwaku/learning-backend/internal/logging"
)

func validateNew(in domain.NewCourse) error {
	switch {
	case in.Title == "":
		return fmt.Errorf("title is required: %w", domain.ErrInvalidRequest)
	case !in.Type.IsValid():
		return fmt.Errorf("course type %q: %w", in.Type, domain.ErrInvalidRequest)
	case !in.Status.IsValid():
		return fmt.Errorf("course status %q: %w", in.Status, domain.ErrInvalidRequest)
	case !in.Category.IsValid():
		return fmt.Errorf("category %q: %w", in.Category, domain.ErrInvalidRequest)
	case in.MaxStudents < 1:
		return fmt.Errorf("maxStudents must be at least 1: %w", domain.ErrInvalidRequest)
	case in.DurationMinutes < 0 || in.Cost.IsNegative():
		return fmt.Errorf("duration and cost must not be negative: %w", domain.ErrInvalidRequest)
	}
	return nil
}

func validateUpdate(upd domain.CourseUpdate) error {
	switch {
	case upd.Title != nil && *upd.Title == "":
		return fmt.Errorf("title must not be empty: %w", domain.ErrInvalidRequest)
	case upd.Type != nil && !upd.Type.IsValid():
		return fmt.Errorf("course type %q: %w", *upd.Type, domain.ErrInvalidRequest)
	case upd.Status != nil && !upd.Status.IsValid():
		return fmt.Errorf("course status %q: %w", *upd.Status, domain.ErrInvalidRequest)
	case upd.Category != nil && !upd.Category.IsValid():
		return fmt.Errorf("category %q: %w", *upd.Category, domain.ErrInvalidRequest)
	case upd.MaxStudents != nil && *upd.MaxStudents < 1:
		return fmt.Errorf("maxStudents must be at least 1: %w", domain.ErrInvalidRequest)
	case upd.DurationMinutes != nil && *upd.DurationMinutes < 0:
		return fmt.Errorf("duration must not be negative: %w", domain.ErrInvalidRequest)
	case upd.Cost != nil && upd.Cost.IsNegative():
		return fmt.Errorf("cost must not be negative: %w", domain.ErrInvalidRequest)
	}
	return nil
}

// Create persists a new course owned by the requester. Students may only
// create INDIVIDUAL courses.
func (s *Service) Create(ctx context.Context, requesterID uuid.UUID, in domain.NewCourse) (c *domain.Course, err error) {
	defer func() { s.metrics.observe("create", err) }()

	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("Create: requester: %w", err)
	}

	in = in.WithDefaults()
	if err := validateNew(in); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	if !domain.CanCreateCourse(requester.Role, in.Type) {
		return nil, fmt.Errorf("Create: %s may not create %s courses: %w", requester.Role, in.Type, domain.ErrForbidden)
	}

	now := s.now()
	c = &domain.Course{
		ID:              uuid.New(),
		Title:           in.Title,
		Description:     in.Description,
		Type:            in.Type,
		Status:          in.Status,
		Category:        in.Category,
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: in.DurationMinutes,
		Cost:            in.Cost,
		MaxStudents:     in.MaxStudents,
		Creator:         requester.Summary(),
		Enrollments:     []domain.Enrollment{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.InstructorID != nil {
		if c.Instructor, err = s.resolveInstructor(ctx, *in.InstructorID); err != nil {
			return nil, fmt.Errorf("Create: %w", err)
		}
	}

	err = s.tx.InTx(ctx, func(tx *sql.Tx) error {
		return s.courses.Create(ctx, tx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	logging.FromContext(ctx).Info("course created",
		"course_id", c.ID,
		"user_id", requesterID,
		"type", c.Type,
		"max_students", c.MaxStudents,
	)
	return c, nil
}

// Update applies the present fields of upd. Only the creator may update.
func (s *Service) Update(ctx context.Context, requesterID, courseID uuid.UUID, upd domain.CourseUpdate) (c *domain.Course, err error) {
	defer func() { s.metrics.observe("update", err) }()

	if err := validateUpdate(upd); err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	var instructor *domain.UserSummary
	if upd.InstructorID != nil {
		if instructor, err = s.resolveInstructor(ctx, *upd.InstructorID); err != nil {
			return nil, fmt.Errorf("Update: %w", err)
		}
	}

	err = s.tx.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		c, err = s.courses.GetForUpdate(ctx, tx, courseID)
		if err != nil {
			return err
		}
		if !domain.CanModifyCourse(c, requesterID) {
			return domain.ErrForbidden
		}
		if upd.MaxStudents != nil && *upd.MaxStudents < len(c.Enrollments) {
			return fmt.Errorf("maxStudents %d below %d enrollments: %w",
				*upd.MaxStudents, len(c.Enrollments), domain.ErrCapacityExceeded)
		}

		upd.Apply(c)
		if instructor != nil {
			c.Instructor = instructor
		}
		c.UpdatedAt = s.now()
		return s.courses.Update(ctx, tx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	logging.FromContext(ctx).Info("course updated", "course_id", courseID, "user_id", requesterID)
	return c, nil
}

// Delete removes the course and its enrollments. Only the creator may delete.
func (s *Service) Delete(ctx context.Context, requesterID, courseID uuid.UUID) (err error) {
	defer func() { s.metrics.observe("delete", err) }()

	var removed int
	err = s.tx.InTx(ctx, func(tx *sql.Tx) error {
		c, err := s.courses.GetForUpdate(ctx, tx, courseID)
		if err != nil {
			return err
		}
		if !domain.CanModifyCourse(c, requesterID) {
			return domain.ErrForbidden
		}
		removed = len(c.Enrollments)
		return s.courses.Delete(ctx, tx, courseID)
	})
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	s.metrics.addEnrollments(-removed)
	logging.FromContext(ctx).Info("course deleted",
		"course_id", courseID,
		"user_id", requesterID,
		"enrollments_removed", removed,
	)
	return nil
}

// Join enrolls the requester. The course row is locked for the whole
// transaction and the insert itself is bounded by capacity.
func (s *Service) Join(ctx context.Context, requesterID, courseID uuid.UUID) (c *domain.Course, err error) {
	defer func() { s.metrics.observe("join", err) }()

	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, fmt.Errorf("Join: requester: %w", err)
	}

	err = s.tx.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		c, err = s.courses.GetForUpdate(ctx, tx, courseID)
		if err != nil {
			return err
		}
		if err := domain.CheckJoin(c, requesterID); err != nil {
			return err
		}

		now := s.now()
		e := domain.Enrollment{
			ID:        uuid.New(),
			CourseID:  c.ID,
			StudentID: requesterID,
			Status:    domain.EnrollmentStatusOpenForJoining,
			JoinedAt:  &now,
		}
		if err := s.enrollments.InsertIfCapacity(ctx, tx, &e); err != nil {
			return err
		}

		c.Enrollments = append(c.Enrollments, e)
		c.Status = domain.CourseStatusOpenForJoining
		c.UpdatedAt = now
		return s.courses.Update(ctx, tx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("Join: %w", err)
	}

	s.metrics.addEnrollments(1)
	logging.FromContext(ctx).Info("course joined",
		"course_id", courseID,
		"user_id", requesterID,
		"enrollments", len(c.Enrollments),
		"max_students", c.MaxStudents,
	)
	return c, nil
}

// CancelOrDetach resolves what a cancel request means for the requester:
// the creator or an admin cancels the course, an enrolled student leaves it,
// the assigned instructor detaches. Anyone else gets ErrInvalidState.
func (s *Service) CancelOrDetach(ctx context.Context, requesterID, courseID uuid.UUID) (action domain.CancelAction, err error) {
	defer func() { s.metrics.observe("cancel", err) }()

	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return domain.CancelActionNone, fmt.Errorf("CancelOrDetach: requester: %w", err)
	}

	removed := 0
	err = s.tx.InTx(ctx, func(tx *sql.Tx) error {
		c, err := s.courses.GetForUpdate(ctx, tx, courseID)
		if err != nil {
			return err
		}

		action = domain.ResolveCancel(c, requester)
		switch action {
		case domain.CancelActionCancelCourse:
			n, err := s.enrollments.DeleteByCourse(ctx, tx, c.ID)
			if err != nil {
				return err
			}
			removed = int(n)
			c.Enrollments = []domain.Enrollment{}
			c.Status = domain.CourseStatusCancelled
		case domain.CancelActionLeave:
			e := c.EnrollmentOf(requesterID)
			if err := s.enrollments.Delete(ctx, tx, e.ID); err != nil {
				return err
			}
			c.RemoveEnrollment(e.ID)
			removed = 1
		case domain.CancelActionDetachInstructor:
			c.Instructor = nil
		default:
			return fmt.Errorf("%w: %w", domain.ErrNotAssociated, domain.ErrInvalidState)
		}

		c.UpdatedAt = s.now()
		return s.courses.Update(ctx, tx, c)
	})
	if err != nil {
		return domain.CancelActionNone, fmt.Errorf("CancelOrDetach: %w", err)
	}

	s.metrics.addEnrollments(-removed)
	logging.FromContext(ctx).Info(action.String(),
		"course_id", courseID,
		"user_id", requesterID,
		"enrollments_removed", removed,
	)
	return action, nil
}
