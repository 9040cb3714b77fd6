package handler

import (
	"context"
	"net/http"

	"github.com/josh-kwaku/learning-backend/internal/domain"
	"github.com/josh-kwaku/learning-backend/internal/service"
)

type authService interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
}

type AuthHandler struct {
	users authService
}

func NewAuthHandler(users authService) *AuthHandler {
	return &AuthHandler{users: users}
}

type signupRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=64,alphanum"`
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,max=128,password"`
	FullName *string `json:"fullName" validate:"omitempty,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Gender   *string `json:"gender" validate:"omitempty,gender"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

type authResponse struct {
	Token   string  `json:"token"`
	Message string  `json:"message"`
	User    userDTO `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	if fields := validateStruct(&req); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	in := service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	}
	if req.Gender != nil {
		g := domain.Gender(*req.Gender)
		in.Gender = &g
	}

	res, err := h.users.Register(r.Context(), in)
	if err != nil {
		fail(w, r, "signup failed", err)
		return
	}

	RespondSuccess(w, http.StatusCreated, authResponse{
		Token:   res.Token,
		Message: res.Message,
		User:    toUserDTO(res.User),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	if fields := validateStruct(&req); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, "login failed", err)
		return
	}

	RespondSuccess(w, http.StatusOK, authResponse{
		Token:   res.Token,
		Message: res.Message,
		User:    toUserDTO(res.User),
	})
}
