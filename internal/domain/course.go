package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CourseType string

const (
	CourseTypeIndividual CourseType = "INDIVIDUAL"
	CourseTypeGroup      CourseType = "GROUP"
)

func (t CourseType) IsValid() bool {
	return t == CourseTypeIndividual || t == CourseTypeGroup
}

// CourseStatus is the lifecycle phase of a course.
type CourseStatus string

const (
	CourseStatusScheduled              CourseStatus = "SCHEDULED"
	CourseStatusOpenForJoining         CourseStatus = "OPEN_FOR_JOINING"
	CourseStatusWaitingForConfirmation CourseStatus = "WAITING_FOR_CONFIRMATION"
	CourseStatusCompleted              CourseStatus = "COMPLETED"
	CourseStatusCancelled              CourseStatus = "CANCELLED"
)

func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseStatusScheduled, CourseStatusOpenForJoining, CourseStatusWaitingForConfirmation,
		CourseStatusCompleted, CourseStatusCancelled:
		return true
	}
	return false
}

// IsJoinable reports whether students may still join. The first join moves a
// course from WAITING_FOR_CONFIRMATION to OPEN_FOR_JOINING, and later joins
// are accepted there until capacity is reached.
func (s CourseStatus) IsJoinable() bool {
	return s == CourseStatusWaitingForConfirmation || s == CourseStatusOpenForJoining
}

type CourseCategory string

const (
	CategoryMathematics CourseCategory = "MATHEMATICS"
	CategoryScience     CourseCategory = "SCIENCE"
	CategoryLanguage    CourseCategory = "LANGUAGE"
	CategoryArts        CourseCategory = "ARTS"
	CategoryTechnology  CourseCategory = "TECHNOLOGY"
	CategoryBusiness    CourseCategory = "BUSINESS"
	CategoryHistory     CourseCategory = "HISTORY"
	CategoryLiterature  CourseCategory = "LITERATURE"
	CategoryPhysics     CourseCategory = "PHYSICS"
	CategoryChemistry   CourseCategory = "CHEMISTRY"
	CategoryBiology     CourseCategory = "BIOLOGY"
)

// Categories lists every category in declaration order.
var Categories = []CourseCategory{
	CategoryMathematics, CategoryScience, CategoryLanguage, CategoryArts, CategoryTechnology,
	CategoryBusiness, CategoryHistory, CategoryLiterature, CategoryPhysics, CategoryChemistry,
	CategoryBiology,
}

func (c CourseCategory) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

const DefaultMaxStudents = 1

type Course struct {
	ID              uuid.UUID
	Title           string
	Description     string
	Type            CourseType
	Status          CourseStatus
	Category        CourseCategory
	ScheduledAt     time.Time
	DurationMinutes int
	Cost            decimal.Decimal
	MaxStudents     int
	Creator         UserSummary
	Instructor      *UserSummary
	Enrollments     []Enrollment
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (c *Course) IsCreator(userID uuid.UUID) bool {
	return c.Creator.ID == userID
}

func (c *Course) IsInstructor(userID uuid.UUID) bool {
	return c.Instructor != nil && c.Instructor.ID == userID
}

// EnrollmentOf returns the student's enrollment on this course, or nil.
func (c *Course) EnrollmentOf(studentID uuid.UUID) *Enrollment {
	for i := range c.Enrollments {
		if c.Enrollments[i].StudentID == studentID {
			return &c.Enrollments[i]
		}
	}
	return nil
}

func (c *Course) IsFull() bool {
	return len(c.Enrollments) >= c.MaxStudents
}

func (c *Course) RemoveEnrollment(id uuid.UUID) {
	kept := c.Enrollments[:0]
	for _, e := range c.Enrollments {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	c.Enrollments = kept
}

// NewCourse describes a course to be created. Zero-valued Type, Status and
// MaxStudents fall back to INDIVIDUAL, WAITING_FOR_CONFIRMATION and 1.
type NewCourse struct {
	Title           string
	Description     string
	Type            CourseType
	Status          CourseStatus
	Category        CourseCategory
	ScheduledAt     time.Time
	DurationMinutes int
	Cost            decimal.Decimal
	MaxStudents     int
	InstructorID    *uuid.UUID
}

func (n NewCourse) WithDefaults() NewCourse {
	if n.Type == "" {
		n.Type = CourseTypeIndividual
	}
	if n.Status == "" {
		n.Status = CourseStatusWaitingForConfirmation
	}
	if n.MaxStudents == 0 {
		n.MaxStudents = DefaultMaxStudents
	}
	return n
}

// CourseUpdate carries a partial update: a nil field means "leave unchanged".
type CourseUpdate struct {
	Title           *string
	Description     *string
	Type            *CourseType
	Status          *CourseStatus
	Category        *CourseCategory
	ScheduledAt     *time.Time
	DurationMinutes *int
	Cost            *decimal.Decimal
	MaxStudents     *int
	InstructorID    *uuid.UUID
}

func (u CourseUpdate) IsEmpty() bool {
	return u == CourseUpdate{}
}

// Apply copies the present fields onto c. Instructor assignment is resolved by
// the caller because it needs a user lookup.
func (u CourseUpdate) Apply(c *Course) {
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Type != nil {
		c.Type = *u.Type
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.Category != nil {
		c.Category = *u.Category
	}
	if u.ScheduledAt != nil {
		c.ScheduledAt = *u.ScheduledAt
	}
	if u.DurationMinutes != nil {
		c.DurationMinutes = *u.DurationMinutes
	}
	if u.Cost != nil {
		c.Cost = *u.Cost
	}
	if u.MaxStudents != nil {
		c.MaxStudents = *u.MaxStudents
	}
}

type CategoryCount struct {
	Category CourseCategory
	Count    int
}

type Metric struct {
	Value int
	Unit  string
}

// OverviewSummary aggregates the courses a user created.
type OverviewSummary struct {
	TotalMinutes     Metric
	CoursesCancelled Metric
	CoursesCompleted Metric
	PendingRequests  Metric
}

// CourseFilter narrows a course listing. Nil fields do not filter. The
// scheduled-time window is [From, To).
type CourseFilter struct {
	CreatorID *uuid.UUID
	Status    *CourseStatus
	Type      *CourseType
	Category  *CourseCategory
	From      *time.Time
	To        *time.Time
}
