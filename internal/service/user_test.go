package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/learning-backend/internal/auth"
	"github.com/josh-kwaku/learning-backend/internal/domain"
)

const testSecret = "user-service-secret"

type memUsers struct {
	byID map[uuid.UUID]*domain.User
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{byID: map[uuid.UUID]*domain.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) List(_ context.Context, p domain.PageRequest) (domain.Page[domain.User], error) {
	page := domain.Page[domain.User]{Page: p.Page, Size: p.Size, TotalItems: len(m.byID)}
	for _, u := range m.byID {
		page.Items = append(page.Items, *u)
	}
	return page, nil
}

func (m *memUsers) UpdateStatus(_ context.Context, id uuid.UUID, status domain.UserStatus) error {
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Status = status
	return nil
}

func userWith(t *testing.T, email, password string, role domain.UserRole, status domain.UserStatus) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		Username:     strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       status,
	}
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	existing := userWith(t, "taken@test.com", "Secret123", domain.UserRoleStudent, domain.UserStatusVerified)
	svc := NewUserService(newMemUsers(existing), testSecret, time.Hour)

	res, err := svc.Register(ctx, RegisterInput{Username: "newbie", Email: " newbie@test.com ", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleStudent, res.User.Role)
	assert.Equal(t, domain.UserStatusNotVerified, res.User.Status)
	assert.Equal(t, "newbie@test.com", res.User.Email)
	require.NotNil(t, res.User.FullName)
	assert.Equal(t, "newbie", *res.User.FullName)
	assert.Equal(t, MsgRegistered, res.Message)

	claims, err := auth.ValidateToken(res.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	_, err = svc.Register(ctx, RegisterInput{Username: "other", Email: "TAKEN@test.com", Password: "Secret123"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.Register(ctx, RegisterInput{Username: existing.Username, Email: "fresh@test.com", Password: "Secret123"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	verified := userWith(t, "verified@test.com", "Secret123", domain.UserRoleInstructor, domain.UserStatusVerified)
	pending := userWith(t, "pending@test.com", "Secret123", domain.UserRoleStudent, domain.UserStatusNotVerified)
	inactive := userWith(t, "inactive@test.com", "Secret123", domain.UserRoleStudent, domain.UserStatusInactive)
	svc := NewUserService(newMemUsers(verified, pending, inactive), testSecret, time.Hour)

	tests := []struct {
		name      string
		email     string
		password  string
		wantErr   error
		wantMsg   string
		wantToken bool
	}{
		{name: "verified", email: "verified@test.com", password: "Secret123", wantMsg: MsgLoggedIn, wantToken: true},
		{name: "not verified still gets token", email: "pending@test.com", password: "Secret123", wantMsg: MsgNotVerified, wantToken: true},
		{name: "inactive", email: "inactive@test.com", password: "Secret123", wantErr: domain.ErrAccountInactive},
		{name: "wrong password", email: "verified@test.com", password: "nope", wantErr: domain.ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@test.com", password: "Secret123", wantErr: domain.ErrInvalidCredentials},
		{name: "inactive with wrong password", email: "inactive@test.com", password: "nope", wantErr: domain.ErrInvalidCredentials},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.Login(ctx, tc.email, tc.password)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantMsg, res.Message)
			assert.Equal(t, tc.wantToken, res.Token != "")
		})
	}
}

func TestUserService_Deactivate(t *testing.T) {
	ctx := context.Background()
	admin := userWith(t, "admin@test.com", "Secret123", domain.UserRoleAdmin, domain.UserStatusVerified)
	alice := userWith(t, "alice@test.com", "Secret123", domain.UserRoleStudent, domain.UserStatusVerified)
	bob := userWith(t, "bob@test.com", "Secret123", domain.UserRoleStudent, domain.UserStatusVerified)
	svc := NewUserService(newMemUsers(admin, alice, bob), testSecret, time.Hour)

	err := svc.Deactivate(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, domain.UserStatusVerified, bob.Status)

	require.NoError(t, svc.Deactivate(ctx, alice.ID, alice.ID))
	assert.Equal(t, domain.UserStatusInactive, alice.Status)

	require.NoError(t, svc.Deactivate(ctx, admin.ID, bob.ID))
	assert.Equal(t, domain.UserStatusInactive, bob.Status)

	err = svc.Deactivate(ctx, admin.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_SeedDefaultsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := NewUserService(users, testSecret, time.Hour)

	n, err := svc.SeedDefaults(ctx, "Password123")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = svc.SeedDefaults(ctx, "Password123")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	admin, err := users.GetByEmail(ctx, "admin@learning.local")
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleAdmin, admin.Role)
	assert.Equal(t, domain.UserStatusVerified, admin.Status)
}
