package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nutrisync/backend/internal/types"
)

// MockAuthService is a mock implementation of the IAuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(name, email, password string) (string, types.User, error) {
	args := m.Called(name, email, password)
	return args.String(0), args.Get(1).(types.User), args.Error(2)
}

func (m *MockAuthService) Login(email, password string) (string, types.User, error) {
	args := m.Called(email, password)
	return args.String(0), args.Get(1).(types.User), args.Error(2)
}

func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

func (m *MockAuthService) GetUser(id uuid.UUID) (types.User, error) {
	args := m.Called(id)
	return args.Get(0).(types.User), args.Error(1)
}
