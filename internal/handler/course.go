package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
	"github.com/shopspring/decimal"
)

type courseService interface {
	Create(ctx context.Context, requesterID uuid.UUID, in domain.NewCourse) (*domain.Course, error)
	Update(ctx context.Context, requesterID, courseID uuid.UUID, upd domain.CourseUpdate) (*domain.Course, error)
	Delete(ctx context.Context, requesterID, courseID uuid.UUID) error
	Join(ctx context.Context, requesterID, courseID uuid.UUID) (*domain.Course, error)
	CancelOrDetach(ctx context.Context, requesterID, courseID uuid.UUID) (domain.CancelAction, error)

	Get(ctx context.Context, courseID uuid.UUID) (*domain.Course, error)
	All(ctx context.Context, p domain.PageRequest) (domain.Page[domain.Course], error)
	ByCreator(ctx context.Context, creatorID uuid.UUID, p domain.PageRequest) (domain.Page[domain.Course], error)
	ByStatus(ctx context.Context, status domain.CourseStatus, p domain.PageRequest) (domain.Page[domain.Course], error)
	ByType(ctx context.Context, t domain.CourseType, p domain.PageRequest) (domain.Page[domain.Course], error)
	ByCategory(ctx context.Context, category domain.CourseCategory, p domain.PageRequest) (domain.Page[domain.Course], error)
	InRange(ctx context.Context, start, end time.Time, p domain.PageRequest) (domain.Page[domain.Course], error)
	InMonth(ctx context.Context, year int, month time.Month, p domain.PageRequest) (domain.Page[domain.Course], error)
	Live(ctx context.Context) ([]domain.Course, error)
	RelatedOrOpen(ctx context.Context, userID uuid.UUID, p domain.PageRequest) (domain.Page[domain.Course], error)
	OverviewSummary(ctx context.Context, userID uuid.UUID) (*domain.OverviewSummary, error)
	TopCategories(ctx context.Context) ([]domain.CategoryCount, error)

	Enrollments(ctx context.Context, courseID uuid.UUID) ([]domain.Enrollment, error)
}

type CourseHandler struct {
	courses courseService
	paging  Paging
}

func NewCourseHandler(courses courseService, paging Paging) *CourseHandler {
	return &CourseHandler{courses: courses, paging: paging}
}

type createCourseRequest struct {
	Title        string          `json:"title" validate:"required,max=255"`
	Description  string          `json:"description" validate:"max=5000"`
	CourseType   *string         `json:"courseType" validate:"omitempty,coursetype"`
	CourseStatus *string         `json:"courseStatus" validate:"omitempty,coursestatus"`
	Category     string          `json:"category" validate:"required,category"`
	DateTime     time.Time       `json:"dateTime" validate:"required"`
	Duration     int             `json:"duration" validate:"required,min=1"`
	Cost         decimal.Decimal `json:"cost"`
	MaxStudents  *int            `json:"maxStudents" validate:"omitempty,min=1"`
	InstructorID *uuid.UUID      `json:"instructorId"`
}

func (req createCourseRequest) toNewCourse() domain.NewCourse {
	in := domain.NewCourse{
		Title:           req.Title,
		Description:     req.Description,
		Category:        domain.CourseCategory(req.Category),
		ScheduledAt:     req.DateTime.UTC(),
		DurationMinutes: req.Duration,
		Cost:            req.Cost,
		InstructorID:    req.InstructorID,
	}
	if req.CourseType != nil {
		in.Type = domain.CourseType(*req.CourseType)
	}
	if req.CourseStatus != nil {
		in.Status = domain.CourseStatus(*req.CourseStatus)
	}
	if req.MaxStudents != nil {
		in.MaxStudents = *req.MaxStudents
	}
	return in
}

type updateCourseRequest struct {
	Title        *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Description  *string          `json:"description" validate:"omitempty,max=5000"`
	CourseType   *string          `json:"courseType" validate:"omitempty,coursetype"`
	CourseStatus *string          `json:"courseStatus" validate:"omitempty,coursestatus"`
	Category     *string          `json:"category" validate:"omitempty,category"`
	DateTime     *time.Time       `json:"dateTime"`
	Duration     *int             `json:"duration" validate:"omitempty,min=1"`
	Cost         *decimal.Decimal `json:"cost"`
	MaxStudents  *int             `json:"maxStudents" validate:"omitempty,min=1"`
	InstructorID *uuid.UUID       `json:"instructorId"`
}

func (req updateCourseRequest) toCourseUpdate() domain.CourseUpdate {
	upd := domain.CourseUpdate{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.Duration,
		Cost:            req.Cost,
		MaxStudents:     req.MaxStudents,
		InstructorID:    req.InstructorID,
	}
	if req.CourseType != nil {
		t := domain.CourseType(*req.CourseType)
		upd.Type = &t
	}
	if req.CourseStatus != nil {
		s := domain.CourseStatus(*req.CourseStatus)
		upd.Status = &s
	}
	if req.Category != nil {
		c := domain.CourseCategory(*req.Category)
		upd.Category = &c
	}
	if req.DateTime != nil {
		at := req.DateTime.UTC()
		upd.ScheduledAt = &at
	}
	return upd
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requester(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req createCourseRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	if fields := validateStruct(&req); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	course, err := h.courses.Create(r.Context(), userID, req.toNewCourse())
	if err != nil {
		fail(w, r, "failed to create course", err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toCourseDTO(course))
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requester(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	courseID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req updateCourseRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	if fields := validateStruct(&req); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	course, err := h.courses.Update(r.Context(), userID, courseID, req.toCourseUpdate())
	if err != nil {
		fail(w, r, "failed to update course", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCourseDTO(course))
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requester(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	courseID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.courses.Delete(r.Context(), userID, courseID); err != nil {
		fail(w, r, "failed to delete course", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CourseHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requester(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	courseID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	course, err := h.courses.Join(r.Context(), userID, courseID)
	if err != nil {
		fail(w, r, "failed to join course", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCourseDTO(course))
}

type cancelResponse struct {
	Message string `json:"message"`
}

// Cancel cancels the course, leaves it, or detaches the instructor depending
// on how the caller relates to it.
func (h *CourseHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requester(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	courseID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	action, err := h.courses.CancelOrDetach(r.Context(), userID, courseID)
	if err != nil {
		fail(w, r, "failed to cancel course", err)
		return
	}
	RespondSuccess(w, http.StatusOK, cancelResponse{Message: action.String()})
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	courseID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	course, err := h.courses.Get(r.Context(), courseID)
	if err != nil {
		fail(w, r, "failed to get course", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCourseDTO(course))
}

func (h *CourseHandler) All(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, func(ctx context.Context, p domain.PageRequest) (domain.Page[domain.Course], error) {
		return h.courses.All(ctx, p)
	})
}

func (h *CourseHandler) MyCourses(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requester(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	h.page(w, r, func(ctx context.Context, p domain.PageRequest) (domain.Page[domain.Course], error) {
		return h.courses.ByCreator(ctx, userID, p)
	})
}

func (h *CourseHandler) MyRelated(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requester(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	h.page(w, r, func(ctx context.Context, p domain.PageRequest) (domain.Page[domain.Course], error) {
		return h.courses.RelatedOrOpen(ctx, userID, p)
	})
}

func (h *CourseHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := domain.CourseCategory(r.PathValue("category"))
	h.page(w, r, func(ctx context.Context, p domain.PageRequest) (domain.Page[domain.Course], error) {
		return h.courses.ByCategory(ctx, category, p)
	})
}

func (h *CourseHandler) ByType(w http.ResponseWriter, r *http.Request) {
	t := domain.CourseType(r.PathValue("type"))
	h.page(w, r, func(ctx context.Context, p domain.PageRequest) (domain.Page[domain.Course], error) {
		return h.courses.ByType(ctx, t, p)
	})
}

func (h *CourseHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	status := domain.CourseStatus(r.PathValue("status"))
	h.page(w, r, func(ctx context.Context, p domain.PageRequest) (domain.Page[domain.Course], error) {
		return h.courses.ByStatus(ctx, status, p)
	})
}

func (h *CourseHandler) Month(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var fields []FieldError

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil || year < 1 || year > 9999 {
		fields = append(fields, FieldError{Field: "year", Message: "must be a valid year"})
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil || month < 1 || month > 12 {
		fields = append(fields, FieldError{Field: "month", Message: "must be between 1 and 12"})
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	h.page(w, r, func(ctx context.Context, p domain.PageRequest) (domain.Page[domain.Course], error) {
		return h.courses.InMonth(ctx, year, time.Month(month), p)
	})
}

// Range lists courses scheduled in [start, end). Both bounds are RFC 3339.
func (h *CourseHandler) Range(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var fields []FieldError

	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		fields = append(fields, FieldError{Field: "start", Message: "must be an RFC 3339 timestamp"})
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil {
		fields = append(fields, FieldError{Field: "end", Message: "must be an RFC 3339 timestamp"})
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	h.page(w, r, func(ctx context.Context, p domain.PageRequest) (domain.Page[domain.Course], error) {
		return h.courses.InRange(ctx, start.UTC(), end.UTC(), p)
	})
}

func (h *CourseHandler) Live(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.Live(r.Context())
	if err != nil {
		fail(w, r, "failed to list live courses", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCourseDTOs(courses))
}

func (h *CourseHandler) TopCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.courses.TopCategories(r.Context())
	if err != nil {
		fail(w, r, "failed to load top categories", err)
		return
	}

	out := make([]categoryCountDTO, len(counts))
	for i, c := range counts {
		out[i] = categoryCountDTO{Category: string(c.Category), Count: c.Count}
	}
	RespondSuccess(w, http.StatusOK, out)
}

func (h *CourseHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requester(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	summary, err := h.courses.OverviewSummary(r.Context(), userID)
	if err != nil {
		fail(w, r, "failed to load overview", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toOverviewDTO(summary))
}

func (h *CourseHandler) Enrollments(w http.ResponseWriter, r *http.Request) {
	courseID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	list, err := h.courses.Enrollments(r.Context(), courseID)
	if err != nil {
		fail(w, r, "failed to list enrollments", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toEnrollmentDTOs(list))
}

func (h *CourseHandler) page(w http.ResponseWriter, r *http.Request, fetch func(context.Context, domain.PageRequest) (domain.Page[domain.Course], error)) {
	p, fields := h.paging.parse(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	page, err := fetch(r.Context(), p)
	if err != nil {
		fail(w, r, "failed to list courses", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toCoursePage(page))
}
