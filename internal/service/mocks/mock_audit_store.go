package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/IHARC/STEVI-sub004/internal/models"
)

// MockAuditStore is a mock implementation of service.AuditStore
type MockAuditStore struct {
	mock.Mock
}

func (m *MockAuditStore) Create(ctx context.Context, event *models.ConsentAuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditStore) ListByPersonID(ctx context.Context, personID int64) ([]models.ConsentAuditEvent, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConsentAuditEvent), args.Error(1)
}
