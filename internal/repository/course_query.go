package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
)

var courseSortColumns = map[string]string{
	"createdAt":    "c.created_at",
	"updatedAt":    "c.updated_at",
	"title":        "c.title",
	"dateTime":     "c.date_time",
	"duration":     "c.duration_minutes",
	"cost":         "c.cost",
	"maxStudents":  "c.max_students",
	"courseStatus": "c.course_status",
	"courseType":   "c.course_type",
	"category":     "c.category",
}

// relatedOrOpenIDs selects, for user $1, the ids of courses they created,
// instruct or are enrolled in, plus GROUP courses with a free seat and
// INDIVIDUAL courses offered by an instructor that nobody has joined yet.
const relatedOrOpenIDs = `
	SELECT c.id FROM courses c WHERE c.creator_id = $1
	UNION
	SELECT c.id FROM courses c WHERE c.instructor_id = $1
	UNION
	SELECT e.course_id FROM enrollments e WHERE e.student_id = $1
	UNION
	SELECT c.id FROM courses c
	WHERE c.course_type = 'GROUP'
		AND (SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id) < c.max_students
	UNION
	SELECT c.id FROM courses c JOIN users u ON u.id = c.creator_id
	WHERE c.course_type = 'INDIVIDUAL'
		AND u.role = 'INSTRUCTOR'
		AND NOT EXISTS (SELECT 1 FROM enrollments e WHERE e.course_id = c.id)`

type CourseQueryRepository struct {
	db *sql.DB
}

func NewCourseQueryRepository(db *sql.DB) *CourseQueryRepository {
	return &CourseQueryRepository{db: db}
}

func (r *CourseQueryRepository) List(ctx context.Context, f domain.CourseFilter, p domain.PageRequest) (domain.Page[domain.Course], error) {
	where, args := filterClause(f)
	page, err := r.page(ctx, where, args, p)
	if err != nil {
		return page, fmt.Errorf("List: %w", err)
	}
	return page, nil
}

// ListAll is List without paging, ordered by scheduled time.
func (r *CourseQueryRepository) ListAll(ctx context.Context, f domain.CourseFilter) ([]domain.Course, error) {
	where, args := filterClause(f)
	courses, err := r.fetch(ctx,
		`SELECT `+courseColumns+courseFrom+` WHERE `+where+` ORDER BY c.date_time, c.id`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	return courses, nil
}

func (r *CourseQueryRepository) RelatedOrOpen(ctx context.Context, userID uuid.UUID, p domain.PageRequest) (domain.Page[domain.Course], error) {
	page, err := r.page(ctx, `c.id IN (`+relatedOrOpenIDs+`)`, []any{userID}, p)
	if err != nil {
		return page, fmt.Errorf("RelatedOrOpen: %w", err)
	}
	return page, nil
}

// TopCategories counts courses per category. Ties are ordered by category
// name so the result is deterministic.
func (r *CourseQueryRepository) TopCategories(ctx context.Context, limit int) ([]domain.CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, COUNT(*) AS n FROM courses
		GROUP BY category ORDER BY n DESC, category ASC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("TopCategories: %w", err)
	}
	defer rows.Close()

	counts := []domain.CategoryCount{}
	for rows.Next() {
		var cc domain.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, fmt.Errorf("TopCategories: scan: %w", err)
		}
		counts = append(counts, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("TopCategories: rows: %w", err)
	}
	return counts, nil
}

func (r *CourseQueryRepository) Overview(ctx context.Context, creatorID uuid.UUID) (*domain.OverviewSummary, error) {
	var minutes, cancelled, completed, pending int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration_minutes), 0),
			COUNT(*) FILTER (WHERE course_status = 'CANCELLED'),
			COUNT(*) FILTER (WHERE course_status = 'COMPLETED'),
			COUNT(*) FILTER (WHERE course_status = 'WAITING_FOR_CONFIRMATION')
		FROM courses WHERE creator_id = $1`, creatorID,
	).Scan(&minutes, &cancelled, &completed, &pending)
	if err != nil {
		return nil, fmt.Errorf("Overview: %w", err)
	}
	return &domain.OverviewSummary{
		TotalMinutes:     domain.Metric{Value: minutes, Unit: "Minutes"},
		CoursesCancelled: domain.Metric{Value: cancelled, Unit: "Courses"},
		CoursesCompleted: domain.Metric{Value: completed, Unit: "Courses"},
		PendingRequests:  domain.Metric{Value: pending, Unit: "Requests"},
	}, nil
}

func (r *CourseQueryRepository) page(ctx context.Context, where string, args []any, p domain.PageRequest) (domain.Page[domain.Course], error) {
	page := domain.Page[domain.Course]{Page: p.Page, Size: p.Size, Items: []domain.Course{}}

	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses c WHERE `+where, args...).Scan(&page.TotalItems)
	if err != nil {
		return page, fmt.Errorf("count: %w", err)
	}
	if page.TotalItems == 0 {
		return page, nil
	}

	n := len(args)
	query := `SELECT ` + courseColumns + courseFrom + ` WHERE ` + where +
		` ORDER BY ` + orderBy(courseSortColumns, "c.created_at", p) + `, c.id` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)

	courses, err := r.fetch(ctx, query, append(args, p.Size, p.Offset())...)
	if err != nil {
		return page, err
	}
	page.Items = courses
	return page, nil
}

func (r *CourseQueryRepository) fetch(ctx context.Context, query string, args ...any) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var ptrs []*domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ptrs = append(ptrs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	rows.Close()

	if err := attachEnrollments(ctx, r.db, ptrs); err != nil {
		return nil, err
	}
	courses := make([]domain.Course, len(ptrs))
	for i, c := range ptrs {
		courses[i] = *c
	}
	return courses, nil
}

func filterClause(f domain.CourseFilter) (string, []any) {
	conds := []string{"TRUE"}
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.CreatorID != nil {
		add("c.creator_id = $%d", *f.CreatorID)
	}
	if f.Status != nil {
		add("c.course_status = $%d", *f.Status)
	}
	if f.Type != nil {
		add("c.course_type = $%d", *f.Type)
	}
	if f.Category != nil {
		add("c.category = $%d", *f.Category)
	}
	if f.From != nil {
		add("c.date_time >= $%d", *f.From)
	}
	if f.To != nil {
		add("c.date_time < $%d", *f.To)
	}
	return strings.Join(conds, " AND "), args
}
