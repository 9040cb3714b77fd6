// Package course holds the course lifecycle engine, the course query service
// and the enrollment ledger.
package course

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
)

type transactor interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type userFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type courseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Course, error)
	Create(ctx context.Context, tx *sql.Tx, c *domain.Course) error
	Update(ctx context.Context, tx *sql.Tx, c *domain.Course) error
	Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error
}

type enrollmentStore interface {
	InsertIfCapacity(ctx context.Context, tx *sql.Tx, e *domain.Enrollment) error
	Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error
	DeleteByCourse(ctx context.Context, tx *sql.Tx, courseID uuid.UUID) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Enrollment, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, e *domain.Enrollment) error
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Enrollment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, p domain.PageRequest) (domain.Page[domain.Enrollment], error)
}

type courseQueries interface {
	List(ctx context.Context, f domain.CourseFilter, p domain.PageRequest) (domain.Page[domain.Course], error)
	ListAll(ctx context.Context, f domain.CourseFilter) ([]domain.Course, error)
	RelatedOrOpen(ctx context.Context, userID uuid.UUID, p domain.PageRequest) (domain.Page[domain.Course], error)
	TopCategories(ctx context.Context, limit int) ([]domain.CategoryCount, error)
	Overview(ctx context.Context, creatorID uuid.UUID) (*domain.OverviewSummary, error)
}

type Service struct {
	tx          transactor
	users       userFinder
	courses     courseStore
	enrollments enrollmentStore
	queries     courseQueries
	metrics     *Metrics
	now         func() time.Time
}

func NewService(
	tx transactor,
	users userFinder,
	courses courseStore,
	enrollments enrollmentStore,
	queries courseQueries,
	metrics *Metrics,
) *Service {
	return &Service{
		tx:          tx,
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		queries:     queries,
		metrics:     metrics,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// resolveInstructor loads the user to assign as instructor. Only instructors
// and admins may teach.
func (s *Service) resolveInstructor(ctx context.Context, id uuid.UUID) (*domain.UserSummary, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("instructor %s: %w", id, err)
	}
	if !domain.CanInstruct(u.Role) {
		return nil, fmt.Errorf("instructor %s has role %s: %w", id, u.Role, domain.ErrInvalidInstructor)
	}
	summary := u.Summary()
	return &summary, nil
}
