package app

import (
	"context"
	"testing"
	"time"

	"hostpatrol/pkg/core/config"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/security"
	"hostpatrol/system/auth/internal/model/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestApp(t *testing.T) (*App, *security.AdminAuth) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	auth := security.NewAdminAuth([]byte("test-secret"), time.Hour)
	return NewApp(config.AdminConfig{Username: "admin", PasswordHash: string(hash)}, auth), auth
}

func TestLogin(t *testing.T) {
	a, auth := newTestApp(t)

	res, err := a.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.TokenType)

	claims, err := auth.ParseToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Account)
}

func TestLogin_WrongCredentials(t *testing.T) {
	a, _ := newTestApp(t)

	for _, req := range []dto.LoginRequest{
		{Username: "admin", Password: "nope"},
		{Username: "root", Password: "s3cret"},
	} {
		_, err := a.Login(context.Background(), &req)
		require.Error(t, err)
		assert.Equal(t, "用户名或密码错误", errorc.ParseError(err).Message())
	}
}

func TestLogin_NotConfigured(t *testing.T) {
	a := NewApp(config.AdminConfig{}, security.NewAdminAuth([]byte("x"), time.Hour))
	_, err := a.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "x"})
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeConfig))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("abc")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("abc")))
}
