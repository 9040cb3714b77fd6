package course

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/learning-backend/internal/domain"
)

func firstPage(size int) domain.PageRequest {
	return domain.PageRequest{Page: 1, Size: size, Direction: domain.SortDesc}
}

func TestRelatedOrOpen_OpenGroupCourseVisibleToStranger(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := f.create(t, f.creator, domain.NewCourse{Type: domain.CourseTypeGroup, MaxStudents: 3})
	_, err := f.svc.Join(ctx, f.a.ID, c.ID)
	require.NoError(t, err)

	page, err := f.svc.RelatedOrOpen(ctx, f.c.ID, firstPage(10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, c.ID, page.Items[0].ID)
	assert.Equal(t, 1, page.TotalItems)
}

func TestRelatedOrOpen_NoDuplicates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	// created by, instructed by and open group at once
	c := f.create(t, f.creator, domain.NewCourse{
		Type: domain.CourseTypeGroup, MaxStudents: 3, InstructorID: &f.creator.ID,
	})
	_, err := f.svc.Join(ctx, f.a.ID, c.ID)
	require.NoError(t, err)

	page, err := f.svc.RelatedOrOpen(ctx, f.creator.ID, firstPage(10))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestQueries_Filters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	june := time.Date(2026, time.June, 30, 23, 59, 0, 0, time.UTC)
	july := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

	inJune := f.create(t, f.creator, domain.NewCourse{ScheduledAt: june, Category: domain.CategoryScience})
	f.tick()
	inJuly := f.create(t, f.creator, domain.NewCourse{ScheduledAt: july, Type: domain.CourseTypeGroup, MaxStudents: 2})
	f.tick()
	f.create(t, f.a, domain.NewCourse{ScheduledAt: july})
	_, err := f.svc.Join(ctx, f.b.ID, inJuly.ID)
	require.NoError(t, err)

	page, err := f.svc.InMonth(ctx, 2026, time.June, firstPage(10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, inJune.ID, page.Items[0].ID)

	page, err = f.svc.InMonth(ctx, 2026, time.July, firstPage(10))
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	_, err = f.svc.InMonth(ctx, 2026, 13, firstPage(10))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	page, err = f.svc.ByCreator(ctx, f.creator.ID, firstPage(10))
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalItems)

	page, err = f.svc.ByCategory(ctx, domain.CategoryScience, firstPage(10))
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)

	page, err = f.svc.ByType(ctx, domain.CourseTypeGroup, firstPage(10))
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)

	page, err = f.svc.ByStatus(ctx, domain.CourseStatusWaitingForConfirmation, firstPage(10))
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalItems)

	_, err = f.svc.ByStatus(ctx, "FULL", firstPage(10))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	live, err := f.svc.Live(ctx)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, inJuly.ID, live[0].ID)

	page, err = f.svc.All(ctx, domain.PageRequest{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages())
}

func TestMonthBounds(t *testing.T) {
	start, end := monthBounds(2024, time.February)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestOverviewAndTopCategories(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.create(t, f.creator, domain.NewCourse{DurationMinutes: 30, Category: domain.CategoryArts})
	f.create(t, f.creator, domain.NewCourse{DurationMinutes: 45, Category: domain.CategoryArts, Status: domain.CourseStatusCompleted})
	cancelled := f.create(t, f.creator, domain.NewCourse{DurationMinutes: 15, Category: domain.CategoryBiology})
	_, err := f.svc.CancelOrDetach(ctx, f.creator.ID, cancelled.ID)
	require.NoError(t, err)
	f.create(t, f.a, domain.NewCourse{DurationMinutes: 600})

	summary, err := f.svc.OverviewSummary(ctx, f.creator.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Metric{Value: 90, Unit: "Minutes"}, summary.TotalMinutes)
	assert.Equal(t, 1, summary.CoursesCancelled.Value)
	assert.Equal(t, 1, summary.CoursesCompleted.Value)
	assert.Equal(t, 1, summary.PendingRequests.Value)

	top, err := f.svc.TopCategories(ctx)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, domain.CategoryCount{Category: domain.CategoryArts, Count: 2}, top[0])
	assert.Equal(t, domain.CategoryBiology, top[1].Category)
	assert.Equal(t, domain.CategoryMathematics, top[2].Category)
}

func TestEnrollmentLedger(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := f.create(t, f.creator, domain.NewCourse{Type: domain.CourseTypeGroup, MaxStudents: 3, InstructorID: &f.instructor.ID})
	joined, err := f.svc.Join(ctx, f.a.ID, c.ID)
	require.NoError(t, err)
	enrollmentID := joined.Enrollments[0].ID

	list, err := f.svc.Enrollments(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.Enrollments(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mine, err := f.svc.StudentEnrollments(ctx, f.a.ID, firstPage(10))
	require.NoError(t, err)
	assert.Equal(t, 1, mine.TotalItems)

	_, err = f.svc.SetEnrollmentStatus(ctx, f.b.ID, enrollmentID, domain.EnrollmentStatusJoined)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.SetEnrollmentStatus(ctx, f.creator.ID, enrollmentID, "DROPPED")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	f.tick()
	e, err := f.svc.SetEnrollmentStatus(ctx, f.instructor.ID, enrollmentID, domain.EnrollmentStatusJoined)
	require.NoError(t, err)
	assert.Equal(t, domain.EnrollmentStatusJoined, e.Status)
	require.NotNil(t, e.JoinedAt)
	assert.Equal(t, f.clock, *e.JoinedAt)

	f.tick()
	e, err = f.svc.SetEnrollmentStatus(ctx, f.admin.ID, enrollmentID, domain.EnrollmentStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, f.clock, *e.CompletedAt)

	stored, err := f.svc.Enrollment(ctx, enrollmentID)
	require.NoError(t, err)
	assert.Equal(t, domain.EnrollmentStatusCompleted, stored.Status)

	_, err = f.svc.Enrollment(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
