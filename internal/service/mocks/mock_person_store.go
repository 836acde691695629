package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/IHARC/STEVI-sub004/internal/models"
)

// MockPersonStore is a mock implementation of service.PersonStore
type MockPersonStore struct {
	mock.Mock
}

func (m *MockPersonStore) GetByID(ctx context.Context, personID int64) (*models.Person, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Person), args.Error(1)
}
