package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const TestPassword = "Password123"

func SeedUser(t *testing.T, db *sql.DB, username string, role domain.UserRole) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@learning.test",
		PasswordHash: string(hash),
		Role:         role,
		Status:       domain.UserStatusVerified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = db.Exec(
		`INSERT INTO users (id, username, email, password_hash, role, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// CourseOpts overrides the defaults used by SeedCourse.
type CourseOpts struct {
	Type        domain.CourseType
	Status      domain.CourseStatus
	Category    domain.CourseCategory
	MaxStudents int
	Duration    int
	ScheduledAt time.Time
	Instructor  *domain.User
}

func SeedCourse(t *testing.T, db *sql.DB, creator *domain.User, opts CourseOpts) *domain.Course {
	t.Helper()

	if opts.Type == "" {
		opts.Type = domain.CourseTypeIndividual
	}
	if opts.Status == "" {
		opts.Status = domain.CourseStatusWaitingForConfirmation
	}
	if opts.Category == "" {
		opts.Category = domain.CategoryMathematics
	}
	if opts.MaxStudents == 0 {
		opts.MaxStudents = 1
	}
	if opts.Duration == 0 {
		opts.Duration = 60
	}
	if opts.ScheduledAt.IsZero() {
		opts.ScheduledAt = time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	}

	now := time.Now().UTC()
	c := &domain.Course{
		ID:              uuid.New(),
		Title:           "Course by " + creator.Username,
		Type:            opts.Type,
		Status:          opts.Status,
		Category:        opts.Category,
		ScheduledAt:     opts.ScheduledAt,
		DurationMinutes: opts.Duration,
		Cost:            decimal.NewFromInt(10),
		MaxStudents:     opts.MaxStudents,
		Creator:         creator.Summary(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	var instructorID *uuid.UUID
	if opts.Instructor != nil {
		s := opts.Instructor.Summary()
		c.Instructor = &s
		instructorID = &opts.Instructor.ID
	}

	_, err := db.Exec(
		`INSERT INTO courses (id, title, course_type, course_status, category, date_time,
			duration_minutes, cost, max_students, creator_id, instructor_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.Title, c.Type, c.Status, c.Category, c.ScheduledAt,
		c.DurationMinutes, c.Cost, c.MaxStudents, creator.ID, instructorID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed course for %s: %v", creator.Username, err)
	}
	return c
}

func SeedEnrollment(t *testing.T, db *sql.DB, courseID, studentID uuid.UUID) *domain.Enrollment {
	t.Helper()

	now := time.Now().UTC()
	e := &domain.Enrollment{
		ID:        uuid.New(),
		CourseID:  courseID,
		StudentID: studentID,
		Status:    domain.EnrollmentStatusOpenForJoining,
		JoinedAt:  &now,
	}
	_, err := db.Exec(
		`INSERT INTO enrollments (id, course_id, student_id, status, joined_at) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.CourseID, e.StudentID, e.Status, e.JoinedAt,
	)
	if err != nil {
		t.Fatalf("seed enrollment %s/%s: %v", courseID, studentID, err)
	}
	return e
}

func CountEnrollments(t *testing.T, db *sql.DB, courseID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM enrollments WHERE course_id = $1`, courseID).Scan(&count)
	if err != nil {
		t.Fatalf("count enrollments for course %s: %v", courseID, err)
	}
	return count
}

func CourseStatus(t *testing.T, db *sql.DB, courseID uuid.UUID) domain.CourseStatus {
	t.Helper()

	var status domain.CourseStatus
	if err := db.QueryRow(`SELECT course_status FROM courses WHERE id = $1`, courseID).Scan(&status); err != nil {
		t.Fatalf("course status %s: %v", courseID, err)
	}
	return status
}
