package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nutrisync/backend/internal/models"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return NewAuthService(db, "test-secret")
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	token, user, err := svc.Register("Dana", "dana@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Dana", user.Name)
	assert.NotEqual(t, uuid.Nil, user.ID)

	token, user2, err := svc.Login("dana@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, user2.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.Register("Dana", "dana@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Register("Other", "dana@example.com", "different")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	_, _, err := svc.Register("Dana", "dana@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login("dana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken(t *testing.T) {
	svc := newAuthService(t)
	token, user, err := svc.Register("Dana", "dana@example.com", "hunter22")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "Dana", claims.Name)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := newAuthService(t)
	token, _, err := svc.Register("Dana", "dana@example.com", "hunter22")
	require.NoError(t, err)

	other := NewAuthService(nil, "other-secret")
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetUser(t *testing.T) {
	svc := newAuthService(t)
	_, user, err := svc.Register("Dana", "dana@example.com", "hunter22")
	require.NoError(t, err)

	got, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", got.Email)

	_, err = svc.GetUser(uuid.New())
	assert.Error(t, err)
}
