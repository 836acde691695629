package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/IHARC/STEVI-sub004/internal/models"
)

// MockOrganizationStore is a mock implementation of service.OrganizationStore
type MockOrganizationStore struct {
	mock.Mock
}

func (m *MockOrganizationStore) ListParticipating(ctx context.Context, operatorOrgID int64) ([]models.Organization, error) {
	args := m.Called(ctx, operatorOrgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Organization), args.Error(1)
}
