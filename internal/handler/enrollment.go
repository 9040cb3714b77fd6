package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
)

type enrollmentService interface {
	StudentEnrollments(ctx context.Context, studentID uuid.UUID, p domain.PageRequest) (domain.Page[domain.Enrollment], error)
	Enrollment(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error)
	SetEnrollmentStatus(ctx context.Context, requesterID, enrollmentID uuid.UUID, status domain.EnrollmentStatus) (*domain.Enrollment, error)
}

type EnrollmentHandler struct {
	enrollments enrollmentService
	paging      Paging
}

func NewEnrollmentHandler(enrollments enrollmentService, paging Paging) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, paging: paging}
}

func (h *EnrollmentHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requester(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	p, fields := h.paging.parse(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	page, err := h.enrollments.StudentEnrollments(r.Context(), userID, p)
	if err != nil {
		fail(w, r, "failed to list enrollments", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toPage(page, toEnrollmentDTO))
}

func (h *EnrollmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	e, err := h.enrollments.Enrollment(r.Context(), id)
	if err != nil {
		fail(w, r, "failed to get enrollment", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toEnrollmentDTO(e))
}

type enrollmentStatusRequest struct {
	Status string `json:"status" validate:"required,enrollmentstatus"`
}

func (h *EnrollmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requester(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req enrollmentStatusRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	if fields := validateStruct(&req); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	e, err := h.enrollments.SetEnrollmentStatus(r.Context(), userID, id, domain.EnrollmentStatus(req.Status))
	if err != nil {
		fail(w, r, "failed to update enrollment", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toEnrollmentDTO(e))
}
