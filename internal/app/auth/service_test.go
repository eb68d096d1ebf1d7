package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/security"
	"stayhub/internal/infra/storage/memory"
)

func newService() *Service {
	return &Service{
		Users:      memory.NewUserRepository(),
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{Cost: 4},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: time.Hour,
	}
}

func TestRegisterIssuesSession(t *testing.T) {
	s := newService()

	result, err := s.Register(context.Background(), RegisterParams{
		Email:    "Greta@Example.com",
		Name:     "Greta",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "greta@example.com", result.User.Email)
	assert.Equal(t, []domainuser.Role{domainuser.RoleGuest}, result.User.Roles)

	resolved, err := s.ResolveToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, resolved.ID)
}

func TestRegisterWithHostRole(t *testing.T) {
	s := newService()

	result, err := s.Register(context.Background(), RegisterParams{
		Email:      "hana@example.com",
		Name:       "Hana",
		Password:   "correct horse",
		WantToHost: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []domainuser.Role{domainuser.RoleGuest, domainuser.RoleHost}, result.User.Roles)
}

func TestRegisterValidation(t *testing.T) {
	s := newService()

	_, err := s.Register(context.Background(), RegisterParams{Email: "", Name: "G", Password: "correct horse"})
	assert.ErrorIs(t, err, domainuser.ErrEmailRequired)

	_, err = s.Register(context.Background(), RegisterParams{Email: "g@example.com", Name: "", Password: "correct horse"})
	assert.ErrorIs(t, err, domainuser.ErrNameRequired)

	_, err = s.Register(context.Background(), RegisterParams{Email: "g@example.com", Name: "G", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newService()

	_, err := s.Register(context.Background(), RegisterParams{Email: "g@example.com", Name: "G", Password: "correct horse"})
	require.NoError(t, err)

	_, err = s.Register(context.Background(), RegisterParams{Email: "G@EXAMPLE.COM", Name: "G2", Password: "correct horse"})
	assert.ErrorIs(t, err, domainuser.ErrEmailAlreadyUsed)
}

func TestLogin(t *testing.T) {
	s := newService()
	_, err := s.Register(context.Background(), RegisterParams{Email: "g@example.com", Name: "G", Password: "correct horse"})
	require.NoError(t, err)

	result, err := s.Login(context.Background(), LoginParams{Email: "g@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = s.Login(context.Background(), LoginParams{Email: "g@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(context.Background(), LoginParams{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	s := newService()
	result, err := s.Register(context.Background(), RegisterParams{Email: "g@example.com", Name: "G", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background(), result.Token))

	_, err = s.ResolveToken(context.Background(), result.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestResolveTokenExpiry(t *testing.T) {
	s := newService()
	s.SessionTTL = time.Nanosecond

	result, err := s.Register(context.Background(), RegisterParams{Email: "g@example.com", Name: "G", Password: "correct horse"})
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	_, err = s.ResolveToken(context.Background(), result.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}
