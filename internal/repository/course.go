package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
	"github.com/lib/pq"
)

const courseColumns = `c.id, c.title, c.description, c.course_type, c.course_status, c.category,
	c.date_time, c.duration_minutes, c.cost, c.max_students, c.version, c.created_at, c.updated_at,
	cr.id, cr.username, cr.full_name, cr.email, cr.role,
	ins.id, ins.username, ins.full_name, ins.email, ins.role`

const courseFrom = ` FROM courses c
	JOIN users cr ON cr.id = c.creator_id
	LEFT JOIN users ins ON ins.id = c.instructor_id`

type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// GetByID loads a course with its creator, instructor and enrollments.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	c, err := getCourse(ctx, r.db, `SELECT `+courseColumns+courseFrom+` WHERE c.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return c, nil
}

// GetForUpdate is GetByID with the course row locked until tx ends.
func (r *CourseRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Course, error) {
	c, err := getCourse(ctx, tx, `SELECT `+courseColumns+courseFrom+` WHERE c.id = $1 FOR UPDATE OF c`, id)
	if err != nil {
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return c, nil
}

func getCourse(ctx context.Context, q querier, query string, id uuid.UUID) (*domain.Course, error) {
	c, err := scanCourse(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := attachEnrollments(ctx, q, []*domain.Course{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CourseRepository) Create(ctx context.Context, tx *sql.Tx, c *domain.Course) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO courses (
			id, title, description, course_type, course_status, category,
			date_time, duration_minutes, cost, max_students,
			creator_id, instructor_id, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		c.ID, c.Title, c.Description, c.Type, c.Status, c.Category,
		c.ScheduledAt, c.DurationMinutes, c.Cost, c.MaxStudents,
		c.Creator.ID, instructorID(c), c.Version, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Update writes every mutable column of c guarded by its version. On success
// c.Version is advanced; a stale version yields ErrVersionConflict.
func (r *CourseRepository) Update(ctx context.Context, tx *sql.Tx, c *domain.Course) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE courses SET
			title = $1, description = $2, course_type = $3, course_status = $4, category = $5,
			date_time = $6, duration_minutes = $7, cost = $8, max_students = $9,
			instructor_id = $10, updated_at = $11, version = version + 1
		WHERE id = $12 AND version = $13`,
		c.Title, c.Description, c.Type, c.Status, c.Category,
		c.ScheduledAt, c.DurationMinutes, c.Cost, c.MaxStudents,
		instructorID(c), c.UpdatedAt, c.ID, c.Version,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Update: %w", domain.ErrVersionConflict)
	}
	c.Version++
	return nil
}

// Delete removes the course; enrollments go with it through ON DELETE CASCADE.
func (r *CourseRepository) Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
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

func instructorID(c *domain.Course) uuid.NullUUID {
	if c.Instructor == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: c.Instructor.ID, Valid: true}
}

func scanCourse(s scanner) (*domain.Course, error) {
	var (
		c           domain.Course
		insID       uuid.NullUUID
		insUsername sql.NullString
		insFullName *string
		insEmail    sql.NullString
		insRole     sql.NullString
	)
	err := s.Scan(
		&c.ID, &c.Title, &c.Description, &c.Type, &c.Status, &c.Category,
		&c.ScheduledAt, &c.DurationMinutes, &c.Cost, &c.MaxStudents, &c.Version,
		&c.CreatedAt, &c.UpdatedAt,
		&c.Creator.ID, &c.Creator.Username, &c.Creator.FullName, &c.Creator.Email, &c.Creator.Role,
		&insID, &insUsername, &insFullName, &insEmail, &insRole,
	)
	if err != nil {
		return nil, err
	}
	if insID.Valid {
		c.Instructor = &domain.UserSummary{
			ID:       insID.UUID,
			Username: insUsername.String,
			FullName: insFullName,
			Email:    insEmail.String,
			Role:     domain.UserRole(insRole.String),
		}
	}
	c.ScheduledAt = c.ScheduledAt.UTC()
	return &c, nil
}

// attachEnrollments loads the enrollments of every course in one round trip.
func attachEnrollments(ctx context.Context, q querier, courses []*domain.Course) error {
	if len(courses) == 0 {
		return nil
	}
	ids := make([]string, len(courses))
	byID := make(map[uuid.UUID]*domain.Course, len(courses))
	for i, c := range courses {
		ids[i] = c.ID.String()
		byID[c.ID] = c
		c.Enrollments = []domain.Enrollment{}
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments
		WHERE course_id = ANY($1::uuid[]) ORDER BY created_at, id`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("attachEnrollments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return fmt.Errorf("attachEnrollments: scan: %w", err)
		}
		if c, ok := byID[e.CourseID]; ok {
			c.Enrollments = append(c.Enrollments, *e)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("attachEnrollments: rows: %w", err)
	}
	return nil
}
