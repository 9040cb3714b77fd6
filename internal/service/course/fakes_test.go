package course

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
)

var errStorage = errors.New("storage unavailable")

// memStore keeps courses and enrollments in memory and implements every
// repository interface the service needs. InTx snapshots the state and
// restores it when fn fails.
type memStore struct {
	users       map[uuid.UUID]*domain.User
	courses     map[uuid.UUID]domain.Course
	enrollments []domain.Enrollment

	failUpdate bool
}

func newMemStore(users ...*domain.User) *memStore {
	m := &memStore{
		users:   map[uuid.UUID]*domain.User{},
		courses: map[uuid.UUID]domain.Course{},
	}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memStore) InTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	courses := make(map[uuid.UUID]domain.Course, len(m.courses))
	for k, v := range m.courses {
		courses[k] = v
	}
	enrollments := append([]domain.Enrollment(nil), m.enrollments...)

	if err := fn(nil); err != nil {
		m.courses = courses
		m.enrollments = enrollments
		return err
	}
	return nil
}

// userFinder


type memUsers struct{ m *memStore }

func (u memUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if usr, ok := u.m.users[id]; ok {
		return usr, nil
	}
	return nil, domain.ErrNotFound
}

// courseStore

type memCourses struct{ m *memStore }

func (r memCourses) load(id uuid.UUID) (*domain.Course, error) {
	c, ok := r.m.courses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Enrollments = r.m.enrollmentsOf(id)
	return &c, nil
}

func (r memCourses) GetByID(_ context.Context, id uuid.UUID) (*domain.Course, error) {
	return r.load(id)
}

func (r memCourses) GetForUpdate(_ context.Context, _ *sql.Tx, id uuid.UUID) (*domain.Course, error) {
	return r.load(id)
}

func (r memCourses) Create(_ context.Context, _ *sql.Tx, c *domain.Course) error {
	stored := *c
	stored.Enrollments = nil
	r.m.courses[c.ID] = stored
	return nil
}

func (r memCourses) Update(_ context.Context, _ *sql.Tx, c *domain.Course) error {
	if r.m.failUpdate {
		return errStorage
	}
	current, ok := r.m.courses[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != c.Version {
		return domain.ErrVersionConflict
	}
	c.Version++
	stored := *c
	stored.Enrollments = nil
	r.m.courses[c.ID] = stored
	return nil
}

func (r memCourses) Delete(_ context.Context, _ *sql.Tx, id uuid.UUID) error {
	if _, ok := r.m.courses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.courses, id)
	kept := r.m.enrollments[:0]
	for _, e := range r.m.enrollments {
		if e.CourseID != id {
			kept = append(kept, e)
		}
	}
	r.m.enrollments = kept
	return nil
}

// enrollmentStore

func (m *memStore) enrollmentsOf(courseID uuid.UUID) []domain.Enrollment {
	out := []domain.Enrollment{}
	for _, e := range m.enrollments {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out
}

type memEnrollments struct{ m *memStore }

func (r memEnrollments) InsertIfCapacity(_ context.Context, _ *sql.Tx, e *domain.Enrollment) error {
	c, ok := r.m.courses[e.CourseID]
	if !ok {
		return domain.ErrNotFound
	}
	existing := r.m.enrollmentsOf(e.CourseID)
	for _, other := range existing {
		if other.StudentID == e.StudentID {
			return domain.ErrAlreadyEnrolled
		}
	}
	if len(existing) >= c.MaxStudents {
		return domain.ErrCapacityExceeded
	}
	r.m.enrollments = append(r.m.enrollments, *e)
	return nil
}

func (r memEnrollments) Delete(_ context.Context, _ *sql.Tx, id uuid.UUID) error {
	for i, e := range r.m.enrollments {
		if e.ID == id {
			r.m.enrollments = append(r.m.enrollments[:i:i], r.m.enrollments[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r memEnrollments) DeleteByCourse(_ context.Context, _ *sql.Tx, courseID uuid.UUID) (int64, error) {
	var n int64
	kept := []domain.Enrollment{}
	for _, e := range r.m.enrollments {
		if e.CourseID == courseID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	r.m.enrollments = kept
	return n, nil
}

func (r memEnrollments) GetByID(_ context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	for _, e := range r.m.enrollments {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memEnrollments) GetForUpdate(ctx context.Context, _ *sql.Tx, id uuid.UUID) (*domain.Enrollment, error) {
	return r.GetByID(ctx, id)
}

func (r memEnrollments) UpdateStatus(_ context.Context, _ *sql.Tx, e *domain.Enrollment) error {
	for i := range r.m.enrollments {
		if r.m.enrollments[i].ID == e.ID {
			r.m.enrollments[i] = *e
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r memEnrollments) ListByCourse(_ context.Context, courseID uuid.UUID) ([]domain.Enrollment, error) {
	return r.m.enrollmentsOf(courseID), nil
}

func (r memEnrollments) ListByStudent(_ context.Context, studentID uuid.UUID, p domain.PageRequest) (domain.Page[domain.Enrollment], error) {
	var all []domain.Enrollment
	for _, e := range r.m.enrollments {
		if e.StudentID == studentID {
			all = append(all, e)
		}
	}
	return paginate(all, p), nil
}

// courseQueries

type memQueries struct{ m *memStore }

func (q memQueries) all() []domain.Course {
	out := make([]domain.Course, 0, len(q.m.courses))
	for id, c := range q.m.courses {
		c.Enrollments = q.m.enrollmentsOf(id)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func matches(c domain.Course, f domain.CourseFilter) bool {
	switch {
	case f.CreatorID != nil && c.Creator.ID != *f.CreatorID:
		return false
	case f.Status != nil && c.Status != *f.Status:
		return false
	case f.Type != nil && c.Type != *f.Type:
		return false
	case f.Category != nil && c.Category != *f.Category:
		return false
	case f.From != nil && c.ScheduledAt.Before(*f.From):
		return false
	case f.To != nil && !c.ScheduledAt.Before(*f.To):
		return false
	}
	return true
}

func (q memQueries) ListAll(_ context.Context, f domain.CourseFilter) ([]domain.Course, error) {
	out := []domain.Course{}
	for _, c := range q.all() {
		if matches(c, f) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (q memQueries) List(ctx context.Context, f domain.CourseFilter, p domain.PageRequest) (domain.Page[domain.Course], error) {
	all, _ := q.ListAll(ctx, f)
	return paginate(all, p), nil
}

func (q memQueries) RelatedOrOpen(_ context.Context, userID uuid.UUID, p domain.PageRequest) (domain.Page[domain.Course], error) {
	var out []domain.Course
	for _, c := range q.all() {
		if domain.IsRelatedOrOpen(&c, userID) {
			out = append(out, c)
		}
	}
	return paginate(out, p), nil
}

func (q memQueries) TopCategories(_ context.Context, limit int) ([]domain.CategoryCount, error) {
	counts := map[domain.CourseCategory]int{}
	for _, c := range q.m.courses {
		counts[c.Category]++
	}
	out := []domain.CategoryCount{}
	for cat, n := range counts {
		out = append(out, domain.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (q memQueries) Overview(_ context.Context, creatorID uuid.UUID) (*domain.OverviewSummary, error) {
	s := &domain.OverviewSummary{
		TotalMinutes:     domain.Metric{Unit: "Minutes"},
		CoursesCancelled: domain.Metric{Unit: "Courses"},
		CoursesCompleted: domain.Metric{Unit: "Courses"},
		PendingRequests:  domain.Metric{Unit: "Requests"},
	}
	for _, c := range q.m.courses {
		if c.Creator.ID != creatorID {
			continue
		}
		s.TotalMinutes.Value += c.DurationMinutes
		switch c.Status {
		case domain.CourseStatusCancelled:
			s.CoursesCancelled.Value++
		case domain.CourseStatusCompleted:
			s.CoursesCompleted.Value++
		case domain.CourseStatusWaitingForConfirmation:
			s.PendingRequests.Value++
		}
	}
	return s, nil
}

func paginate[T any](all []T, p domain.PageRequest) domain.Page[T] {
	page := domain.Page[T]{Page: p.Page, Size: p.Size, TotalItems: len(all), Items: []T{}}
	start := p.Offset()
	if start >= len(all) {
		return page
	}
	end := start + p.Size
	if end > len(all) {
		end = len(all)
	}
	page.Items = all[start:end]
	return page
}
