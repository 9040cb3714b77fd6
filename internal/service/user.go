package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/auth"
	"github.com/josh-kwaku/learning-backend/internal/domain"
	"github.com/josh-kwaku/learning-backend/internal/logging"
)

const (
	MsgRegistered  = "User registered successfully. Please verify your email address."
	MsgLoggedIn    = "User logged in successfully."
	MsgNotVerified = "Account not verified. Please check your email for the verification link."
)

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	List(ctx context.Context, p domain.PageRequest) (domain.Page[domain.User], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) error
}

type UserService struct {
	users     userRepo
	jwtSecret string
	jwtExpiry time.Duration
	now       func() time.Time
}

func NewUserService(users userRepo, jwtSecret string, jwtExpiry time.Duration) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName *string
	Phone    *string
	Gender   *domain.Gender
}

// AuthResult is returned by Register and Login. Token is empty when the
// account may not sign in.
type AuthResult struct {
	User    *domain.User
	Token   string
	Message string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	log := logging.FromContext(ctx)

	email := strings.TrimSpace(in.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("Register: %w", domain.ErrEmailTaken)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Register: check email: %w", err)
	}
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, fmt.Errorf("Register: %w", domain.ErrUsernameTaken)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Register: check username: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	fullName := in.FullName
	if fullName == nil {
		fullName = &in.Username
	}
	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     in.Username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Gender:       in.Gender,
		Role:         domain.UserRoleStudent,
		Status:       domain.UserStatusNotVerified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	token, err := auth.GenerateToken(user, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return &AuthResult{User: user, Token: token, Message: MsgRegistered}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Login: %w", domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("Login: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("Login: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("Login: %w", domain.ErrInvalidCredentials)
	}

	if user.Status == domain.UserStatusInactive {
		return nil, fmt.Errorf("Login: %w", domain.ErrAccountInactive)
	}

	token, err := auth.GenerateToken(user, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return nil, fmt.Errorf("Login: %w", err)
	}

	msg := MsgLoggedIn
	if user.Status == domain.UserStatusNotVerified {
		msg = MsgNotVerified
	}
	logging.FromContext(ctx).Info("user logged in", "user_id", user.ID, "status", user.Status)
	return &AuthResult{User: user, Token: token, Message: msg}, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, p domain.PageRequest) (domain.Page[domain.User], error) {
	page, err := s.users.List(ctx, p)
	if err != nil {
		return page, fmt.Errorf("List: %w", err)
	}
	return page, nil
}

// Deactivate marks a user INACTIVE. Users may deactivate themselves; admins
// may deactivate anyone.
func (s *UserService) Deactivate(ctx context.Context, requesterID, targetID uuid.UUID) error {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return fmt.Errorf("Deactivate: requester: %w", err)
	}
	if requesterID != targetID && !requester.IsAdmin() {
		return fmt.Errorf("Deactivate: %w", domain.ErrForbidden)
	}
	if err := s.users.UpdateStatus(ctx, targetID, domain.UserStatusInactive); err != nil {
		return fmt.Errorf("Deactivate: %w", err)
	}

	logging.FromContext(ctx).Info("user deactivated", "user_id", targetID, "by", requesterID)
	return nil
}

type seedUser struct {
	username string
	fullName string
	email    string
	role     domain.UserRole
}

var defaultUsers = []seedUser{
	{"admin", "Admin", "admin@learning.local", domain.UserRoleAdmin},
	{"instructor", "Instructor", "instructor@learning.local", domain.UserRoleInstructor},
	{"student", "Student", "student@learning.local", domain.UserRoleStudent},
}

// SeedDefaults creates a verified admin, instructor and student unless a user
// with the same email already exists. It returns how many were created.
func (s *UserService) SeedDefaults(ctx context.Context, password string) (int, error) {
	log := logging.FromContext(ctx)

	created := 0
	for _, d := range defaultUsers {
		_, err := s.users.GetByEmail(ctx, d.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, fmt.Errorf("SeedDefaults: %s: %w", d.email, err)
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return created, fmt.Errorf("SeedDefaults: %w", err)
		}
		fullName := d.fullName
		now := s.now()
		u := &domain.User{
			ID:           uuid.New(),
			Username:     d.username,
			FullName:     &fullName,
			Email:        d.email,
			PasswordHash: hash,
			Role:         d.role,
			Status:       domain.UserStatusVerified,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return created, fmt.Errorf("SeedDefaults: %s: %w", d.email, err)
		}
		created++
		log.Info("seeded user", "email", d.email, "role", d.role)
	}
	return created, nil
}
