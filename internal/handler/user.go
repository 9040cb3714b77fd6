package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
)

type userService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, p domain.PageRequest) (domain.Page[domain.User], error)
	Deactivate(ctx context.Context, requesterID, targetID uuid.UUID) error
}

type UserHandler struct {
	users  userService
	paging Paging
}

func NewUserHandler(users userService, paging Paging) *UserHandler {
	return &UserHandler{users: users, paging: paging}
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, appErr := requester(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		fail(w, r, "failed to load profile", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toUserDTO(user))
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		fail(w, r, "failed to get user", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toUserDTO(user))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	p, fields := h.paging.parse(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	page, err := h.users.List(r.Context(), p)
	if err != nil {
		fail(w, r, "failed to list users", err)
		return
	}
	RespondSuccess(w, http.StatusOK, toPage(page, toUserDTO))
}

func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	requesterID, appErr := requester(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	targetID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.users.Deactivate(r.Context(), requesterID, targetID); err != nil {
		fail(w, r, "failed to deactivate user", err)
		return
	}
	RespondSuccess(w, http.StatusOK, map[string]string{"message": "user deactivated"})
}
