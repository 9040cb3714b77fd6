package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
)

const enrollmentColumns = `id, course_id, student_id, status, joined_at, completed_at`

var enrollmentSortColumns = map[string]string{
	"createdAt":   "created_at",
	"joinedAt":    "joined_at",
	"completedAt": "completed_at",
	"status":      "status",
}

type EnrollmentRepository struct {
	db *sql.DB
}

func NewEnrollmentRepository(db *sql.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// InsertIfCapacity inserts e only while the course has a free seat and the
// student holds no enrollment on it. The capacity check and the insert are
// one statement, so concurrent joins cannot overfill the course.
func (r *EnrollmentRepository) InsertIfCapacity(ctx context.Context, tx *sql.Tx, e *domain.Enrollment) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO enrollments (id, course_id, student_id, status, joined_at, completed_at)
		SELECT $1::uuid, $2::uuid, $3::uuid, $4::varchar, $5::timestamptz, $6::timestamptz
		WHERE (SELECT COUNT(*) FROM enrollments WHERE course_id = $2)
			< (SELECT max_students FROM courses WHERE id = $2)
		ON CONFLICT (course_id, student_id) DO NOTHING`,
		e.ID, e.CourseID, e.StudentID, e.Status, e.JoinedAt, e.CompletedAt,
	)
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return fmt.Errorf("InsertIfCapacity: %w", domain.ErrAlreadyEnrolled)
		}
		return fmt.Errorf("InsertIfCapacity: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("InsertIfCapacity: rows affected: %w", err)
	}
	if rows == 1 {
		return nil
	}

	var enrolled bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2)`,
		e.CourseID, e.StudentID,
	).Scan(&enrolled)
	if err != nil {
		return fmt.Errorf("InsertIfCapacity: %w", err)
	}
	if enrolled {
		return fmt.Errorf("InsertIfCapacity: %w", domain.ErrAlreadyEnrolled)
	}
	return fmt.Errorf("InsertIfCapacity: %w", domain.ErrCapacityExceeded)
}

func (r *EnrollmentRepository) Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *EnrollmentRepository) DeleteByCourse(ctx context.Context, tx *sql.Tx, courseID uuid.UUID) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE course_id = $1`, courseID)
	if err != nil {
		return 0, fmt.Errorf("DeleteByCourse: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteByCourse: rows affected: %w", err)
	}
	return rows, nil
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id)
	e, err := scanEnrollment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return e, nil
}

func (r *EnrollmentRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Enrollment, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1 FOR UPDATE`, id)
	e, err := scanEnrollment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return e, nil
}

func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, e *domain.Enrollment) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE enrollments SET status = $1, joined_at = $2, completed_at = $3 WHERE id = $4`,
		e.Status, e.JoinedAt, e.CompletedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	return nil
}

func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE course_id = $1 ORDER BY created_at, id`, courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByCourse: %w", err)
	}
	defer rows.Close()

	enrollments := []domain.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByCourse: scan: %w", err)
		}
		enrollments = append(enrollments, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByCourse: rows: %w", err)
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, p domain.PageRequest) (domain.Page[domain.Enrollment], error) {
	page := domain.Page[domain.Enrollment]{Page: p.Page, Size: p.Size, Items: []domain.Enrollment{}}

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE student_id = $1`, studentID,
	).Scan(&page.TotalItems)
	if err != nil {
		return page, fmt.Errorf("ListByStudent: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE student_id = $1
		ORDER BY `+orderBy(enrollmentSortColumns, "created_at", p)+`, id
		LIMIT $2 OFFSET $3`,
		studentID, p.Size, p.Offset(),
	)
	if err != nil {
		return page, fmt.Errorf("ListByStudent: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return page, fmt.Errorf("ListByStudent: scan: %w", err)
		}
		page.Items = append(page.Items, *e)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("ListByStudent: rows: %w", err)
	}
	return page, nil
}

func scanEnrollment(s scanner) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := s.Scan(&e.ID, &e.CourseID, &e.StudentID, &e.Status, &e.JoinedAt, &e.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
