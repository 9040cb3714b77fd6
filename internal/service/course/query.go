package course

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"github.com/josh-kwaku/learning-backend/internal/domain"
)

const topCategoryLimit = 5

func (s *Service) Get(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	c, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return c, nil
}

func (s *Service) All(ctx context.Context, p domain.PageRequest) (domain.Page[domain.Course], error) {
	return s.list(ctx, "All", domain.CourseFilter{}, p)
}

func (s *Service) ByCreator(ctx context.Context, creatorID uuid.UUID, p domain.PageRequest) (domain.Page[domain.Course], error) {
	return s.list(ctx, "ByCreator", domain.CourseFilter{CreatorID: &creatorID}, p)
}

func (s *Service) ByStatus(ctx context.Context, status domain.CourseStatus, p domain.PageRequest) (domain.Page[domain.Course], error) {
	if !status.IsValid() {
		return domain.Page[domain.Course]{}, fmt.Errorf("ByStatus: status %q: %w", status, domain.ErrInvalidRequest)
	}
	return s.list(ctx, "ByStatus", domain.CourseFilter{Status: &status}, p)
}

func (s *Service) ByType(ctx context.Context, t domain.CourseType, p domain.PageRequest) (domain.Page[domain.Course], error) {
	if !t.IsValid() {
		return domain.Page[domain.Course]{}, fmt.Errorf("ByType: type %q: %w", t, domain.ErrInvalidRequest)
	}
	return s.list(ctx, "ByType", domain.CourseFilter{Type: &t}, p)
}

func (s *Service) ByCategory(ctx context.Context, category domain.CourseCategory, p domain.PageRequest) (domain.Page[domain.Course], error) {
	if !category.IsValid() {
		return domain.Page[domain.Course]{}, fmt.Errorf("ByCategory: category %q: %w", category, domain.ErrInvalidRequest)
	}
	return s.list(ctx, "ByCategory", domain.CourseFilter{Category: &category}, p)
}

// InRange lists courses scheduled in [start, end).
func (s *Service) InRange(ctx context.Context, start, end time.Time, p domain.PageRequest) (domain.Page[domain.Course], error) {
	if !end.After(start) {
		return domain.Page[domain.Course]{}, fmt.Errorf("InRange: end must be after start: %w", domain.ErrInvalidRequest)
	}
	return s.list(ctx, "InRange", domain.CourseFilter{From: &start, To: &end}, p)
}

// InMonth lists courses scheduled during the given calendar month in UTC.
func (s *Service) InMonth(ctx context.Context, year int, month time.Month, p domain.PageRequest) (domain.Page[domain.Course], error) {
	if month < time.January || month > time.December {
		return domain.Page[domain.Course]{}, fmt.Errorf("InMonth: month %d: %w", month, domain.ErrInvalidRequest)
	}
	start, end := monthBounds(year, month)
	return s.InRange(ctx, start, end, p)
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	day := now.With(time.Date(year, month, 15, 0, 0, 0, 0, time.UTC))
	return day.BeginningOfMonth(), day.EndOfMonth().Add(time.Nanosecond)
}

// Live returns every course currently OPEN_FOR_JOINING.
func (s *Service) Live(ctx context.Context) ([]domain.Course, error) {
	open := domain.CourseStatusOpenForJoining
	courses, err := s.queries.ListAll(ctx, domain.CourseFilter{Status: &open})
	if err != nil {
		return nil, fmt.Errorf("Live: %w", err)
	}
	return courses, nil
}

// RelatedOrOpen lists courses the user created, instructs or is enrolled in,
// plus GROUP courses with a free seat and unclaimed INDIVIDUAL offers from
// instructors. Each course appears once.
func (s *Service) RelatedOrOpen(ctx context.Context, userID uuid.UUID, p domain.PageRequest) (domain.Page[domain.Course], error) {
	page, err := s.queries.RelatedOrOpen(ctx, userID, p)
	if err != nil {
		return page, fmt.Errorf("RelatedOrOpen: %w", err)
	}
	return page, nil
}

func (s *Service) OverviewSummary(ctx context.Context, userID uuid.UUID) (*domain.OverviewSummary, error) {
	summary, err := s.queries.Overview(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("OverviewSummary: %w", err)
	}
	return summary, nil
}

func (s *Service) TopCategories(ctx context.Context) ([]domain.CategoryCount, error) {
	counts, err := s.queries.TopCategories(ctx, topCategoryLimit)
	if err != nil {
		return nil, fmt.Errorf("TopCategories: %w", err)
	}
	return counts, nil
}

func (s *Service) list(ctx context.Context, op string, f domain.CourseFilter, p domain.PageRequest) (domain.Page[domain.Course], error) {
	page, err := s.queries.List(ctx, f, p)
	if err != nil {
		return page, fmt.Errorf("%s: %w", op, err)
	}
	return page, nil
}
