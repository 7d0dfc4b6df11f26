package application

import (
	"context"
	"testing"
	"time"

	"bookhub/internal/pkg/database/dbtest"
	"bookhub/internal/pkg/validation"
	"bookhub/internal/service/identity/domain"
	"bookhub/internal/service/identity/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) *IdentityService {
	t.Helper()
	infrastructure.HashCost = bcrypt.MinCost
	db := dbtest.Open(t, &infrastructure.UserModel{})
	return NewIdentityService(
		infrastructure.NewGormUserRepository(db),
		infrastructure.NewBcryptHasher(),
		infrastructure.NewJWTIssuer("0123456789abcdef0123456789abcdef", "bookhub", "bookhub-web", 24*time.Hour),
		noop.NewTracerProvider().Tracer("test"),
	)
}

func register(t *testing.T, s *IdentityService, name string) *RegisterResponse {
	t.Helper()
	resp, err := s.Register(context.Background(), &RegisterRequest{
		Email: name + "@example.com", UserName: name, Password: "password1",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	s := newService(t)

	first := register(t, s, "alice")
	assert.Equal(t, "Admin", first.Role)

	second := register(t, s, "bob")
	assert.Equal(t, "User", second.Role)

	third := register(t, s, "carol")
	assert.Equal(t, "User", third.Role)
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	register(t, s, "alice")

	_, err := s.Register(ctx, &RegisterRequest{Email: "new@example.com", UserName: "alice", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrUserNameTaken)

	_, err = s.Register(ctx, &RegisterRequest{Email: "alice@example.com", UserName: "alice2", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = s.Register(ctx, &RegisterRequest{Email: "x@example.com", UserName: "x", Password: "123"})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	_, err = s.Register(ctx, &RegisterRequest{Email: "no-at-sign", UserName: "y", Password: "password1"})
	assert.ErrorIs(t, err, validation.ErrInvalid)
}

func TestLoginAndAuthenticate(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	register(t, s, "alice")

	resp, err := s.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.UserName)
	assert.Equal(t, "Admin", resp.User.Role)

	claims, err := s.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.UserID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	_, err = s.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = s.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateRoleAndListCustomers(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	register(t, s, "admin")
	register(t, s, "bob")

	updated, err := s.UpdateRole(ctx, "bob@example.com", "Staff")
	require.NoError(t, err)
	assert.Equal(t, "Staff", updated.Role)

	_, err = s.UpdateRole(ctx, "bob@example.com", "Admin")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = s.UpdateRole(ctx, "bob@example.com", "Superuser")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = s.UpdateRole(ctx, "ghost@example.com", "User")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	users, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].UserName)

	profile, err := s.Profile(ctx, updated.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Staff", profile.Role)
	assert.Zero(t, profile.CompleteOrderCount)
}
