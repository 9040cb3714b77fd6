package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
	"github.com/shopspring/decimal"
)

type userDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  *string   `json:"fullName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Gender    *string   `json:"gender"`
	Role      string    `json:"userRole"`
	Status    string    `json:"userStatus"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserDTO(u *domain.User) userDTO {
	var gender *string
	if u.Gender != nil {
		g := string(*u.Gender)
		gender = &g
	}
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Gender:    gender,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type userSummaryDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName *string   `json:"fullName"`
	Email    string    `json:"email"`
	Role     string    `json:"userRole"`
}

func toUserSummaryDTO(u domain.UserSummary) userSummaryDTO {
	return userSummaryDTO{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}

type enrollmentDTO struct {
	ID          uuid.UUID  `json:"id"`
	CourseID    uuid.UUID  `json:"courseId"`
	StudentID   uuid.UUID  `json:"studentId"`
	Status      string     `json:"status"`
	JoinedAt    *time.Time `json:"joinedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func toEnrollmentDTO(e *domain.Enrollment) enrollmentDTO {
	return enrollmentDTO{
		ID:          e.ID,
		CourseID:    e.CourseID,
		StudentID:   e.StudentID,
		Status:      string(e.Status),
		JoinedAt:    e.JoinedAt,
		CompletedAt: e.CompletedAt,
	}
}

func toEnrollmentDTOs(list []domain.Enrollment) []enrollmentDTO {
	out := make([]enrollmentDTO, len(list))
	for i := range list {
		out[i] = toEnrollmentDTO(&list[i])
	}
	return out
}

type courseDTO struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	CourseType    string          `json:"courseType"`
	CourseStatus  string          `json:"courseStatus"`
	Category      string          `json:"category"`
	DateTime      time.Time       `json:"dateTime"`
	Duration      int             `json:"duration"`
	Cost          decimal.Decimal `json:"cost"`
	MaxStudents   int             `json:"maxStudents"`
	EnrolledCount int             `json:"enrolledCount"`
	Creator       userSummaryDTO  `json:"creator"`
	Instructor    *userSummaryDTO `json:"instructor"`
	Enrollments   []enrollmentDTO `json:"enrollments"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func toCourseDTO(c *domain.Course) courseDTO {
	dto := courseDTO{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		CourseType:    string(c.Type),
		CourseStatus:  string(c.Status),
		Category:      string(c.Category),
		DateTime:      c.ScheduledAt,
		Duration:      c.DurationMinutes,
		Cost:          c.Cost,
		MaxStudents:   c.MaxStudents,
		EnrolledCount: len(c.Enrollments),
		Creator:       toUserSummaryDTO(c.Creator),
		Enrollments:   toEnrollmentDTOs(c.Enrollments),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Instructor != nil {
		ins := toUserSummaryDTO(*c.Instructor)
		dto.Instructor = &ins
	}
	return dto
}

func toCourseDTOs(list []domain.Course) []courseDTO {
	out := make([]courseDTO, len(list))
	for i := range list {
		out[i] = toCourseDTO(&list[i])
	}
	return out
}

type coursePageDTO struct {
	Courses     []courseDTO `json:"courses"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	TotalItems  int         `json:"totalItems"`
}

func toCoursePage(p domain.Page[domain.Course]) coursePageDTO {
	return coursePageDTO{
		Courses:     toCourseDTOs(p.Items),
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages(),
		TotalItems:  p.TotalItems,
	}
}

type pageDTO[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
}

func toPage[S, T any](p domain.Page[S], conv func(*S) T) pageDTO[T] {
	items := make([]T, len(p.Items))
	for i := range p.Items {
		items[i] = conv(&p.Items[i])
	}
	return pageDTO[T]{
		Items:       items,
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages(),
		TotalItems:  p.TotalItems,
	}
}

type metricDTO struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

type overviewDTO struct {
	TotalMinutes     metricDTO `json:"totalMinutes"`
	CoursesCancelled metricDTO `json:"coursesCancelled"`
	CompletedCourses metricDTO `json:"completedCourses"`
	PendingRequests  metricDTO `json:"pendingRequests"`
}

func toOverviewDTO(s *domain.OverviewSummary) overviewDTO {
	m := func(v domain.Metric) metricDTO { return metricDTO{Value: v.Value, Unit: v.Unit} }
	return overviewDTO{
		TotalMinutes:     m(s.TotalMinutes),
		CoursesCancelled: m(s.CoursesCancelled),
		CompletedCourses: m(s.CoursesCompleted),
		PendingRequests:  m(s.PendingRequests),
	}
}

type categoryCountDTO struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
