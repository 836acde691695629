package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/IHARC/STEVI-sub004/internal/database"
	"github.com/IHARC/STEVI-sub004/internal/models"
)

// MockConsentStore is a mock implementation of service.ConsentStore
type MockConsentStore struct {
	mock.Mock
}

func (m *MockConsentStore) CreateWithTx(ctx context.Context, tx *database.Transaction, consent *models.Consent) error {
	args := m.Called(ctx, tx, consent)
	return args.Error(0)
}

func (m *MockConsentStore) GetByID(ctx context.Context, consentID string) (*models.Consent, error) {
	args := m.Called(ctx, consentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Consent), args.Error(1)
}

func (m *MockConsentStore) GetCurrentByPersonID(ctx context.Context, personID int64) (*models.Consent, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Consent), args.Error(1)
}

func (m *MockConsentStore) GetByPersonID(ctx context.Context, personID int64) ([]models.Consent, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Consent), args.Error(1)
}

func (m *MockConsentStore) UpdateDecisionWithTx(ctx context.Context, tx *database.Transaction, consent *models.Consent) error {
	args := m.Called(ctx, tx, consent)
	return args.Error(0)
}

func (m *MockConsentStore) UpdateExpiry(ctx context.Context, consentID string, expiresAt *int64, updatedAt int64) error {
	args := m.Called(ctx, consentID, expiresAt, updatedAt)
	return args.Error(0)
}

func (m *MockConsentStore) Revoke(ctx context.Context, consentID string, revokedAt int64) error {
	args := m.Called(ctx, consentID, revokedAt)
	return args.Error(0)
}
