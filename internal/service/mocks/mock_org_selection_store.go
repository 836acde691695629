package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/IHARC/STEVI-sub004/internal/database"
	"github.com/IHARC/STEVI-sub004/internal/models"
)

// MockOrgSelectionStore is a mock implementation of service.OrgSelectionStore
type MockOrgSelectionStore struct {
	mock.Mock
}

func (m *MockOrgSelectionStore) GetByConsentID(ctx context.Context, consentID string) ([]models.ConsentOrgSelection, error) {
	args := m.Called(ctx, consentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConsentOrgSelection), args.Error(1)
}

func (m *MockOrgSelectionStore) ReplaceWithTx(ctx context.Context, tx *database.Transaction, consentID string, selections []models.ConsentOrgSelection) error {
	args := m.Called(ctx, tx, consentID, selections)
	return args.Error(0)
}
