package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fifostock/internal/core/apperror"
	"fifostock/internal/domain/auth"
	"fifostock/internal/infrastructure/storage/memory"
)

func newService(t *testing.T) *auth.Service {
	t.Helper()
	store := memory.NewStore()
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	return auth.NewService(store.Users(), jwtService, auth.DefaultServiceConfig())
}

func TestRegister(t *testing.T) {
	svc := newService(t)

	user, err := svc.Register(context.Background(), auth.RegisterRequest{
		Username: "alice",
		Password: "correct horse",
		Email:    "alice@example.com",
		IsAdmin:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsAdmin)
	require.NotNil(t, user.Email)
	assert.Equal(t, "alice@example.com", *user.Email)
	assert.NotEqual(t, "correct horse", user.PasswordHash, "password must be hashed")
}

func TestRegister_Validation(t *testing.T) {
	svc := newService(t)

	_, err := svc.Register(context.Background(), auth.RegisterRequest{Username: "", Password: "long enough"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = svc.Register(context.Background(), auth.RegisterRequest{Username: "bob", Password: "short"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newService(t)

	_, err := svc.Register(context.Background(), auth.RegisterRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), auth.RegisterRequest{Username: "alice", Password: "battery staple"})
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestLogin(t *testing.T) {
	svc := newService(t)

	_, err := svc.Register(context.Background(), auth.RegisterRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotNil(t, result.User.LastLogin)
	assert.True(t, result.ExpiresAt.After(result.User.CreatedAt))
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newService(t)

	_, err := svc.Register(context.Background(), auth.RegisterRequest{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), auth.LoginRequest{Username: "alice", Password: "wrong"})
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := newService(t)

	// Same error as a wrong password, so usernames cannot be probed.
	_, err := svc.Login(context.Background(), auth.LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnauthorized))
}

func TestTokenRoundTrip(t *testing.T) {
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))

	token, _, err := jwtService.GenerateAccessToken("user-1", "alice", true)
	require.NoError(t, err)

	uc, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uc.UserID)
	assert.Equal(t, "alice", uc.Username)
	assert.True(t, uc.IsAdmin)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := auth.NewJWTService(auth.DefaultJWTConfig("secret-a"))
	verifier := auth.NewJWTService(auth.DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken("user-1", "alice", false)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))

	_, err := jwtService.ValidateToken("not.a.token")
	assert.Error(t, err)
}
