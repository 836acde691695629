package service_test

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/IHARC/STEVI-sub004/internal/config"
	"github.com/IHARC/STEVI-sub004/internal/dao"
	"github.com/IHARC/STEVI-sub004/internal/database"
	"github.com/IHARC/STEVI-sub004/internal/models"
	"github.com/IHARC/STEVI-sub004/internal/service"
	"github.com/IHARC/STEVI-sub004/internal/service/mocks"
)

type consentFixture struct {
	consentStore   *mocks.MockConsentStore
	selectionStore *mocks.MockOrgSelectionStore
	orgStore       *mocks.MockOrganizationStore
	personStore    *mocks.MockPersonStore
	dbMock         sqlmock.Sqlmock
	service        *service.ConsentService
}

func newConsentFixture(t *testing.T) *consentFixture {
	rawDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	f := &consentFixture{
		consentStore:   &mocks.MockConsentStore{},
		selectionStore: &mocks.MockOrgSelectionStore{},
		orgStore:       &mocks.MockOrganizationStore{},
		personStore:    &mocks.MockPersonStore{},
		dbMock:         dbMock,
	}

	f.service = service.NewConsentService(
		f.consentStore,
		f.selectionStore,
		f.orgStore,
		f.personStore,
		database.NewFromSqlx(sqlx.NewDb(rawDB, "mysql"), logger),
		config.ConsentConfig{
			OperatorOrgID:       1,
			DefaultValidityDays: 365,
			RenewalDays:         365,
			PolicyVersion:       "2026-01",
		},
		logger,
	)

	return f
}

func (f *consentFixture) expectActivePerson(personID int64) {
	f.personStore.On("GetByID", mock.Anything, personID).
		Return(&models.Person{PersonID: personID, Status: models.PersonActive}, nil)
}

var staffActor = models.Actor{ID: "staff-7", Role: models.RoleStaff}

// TestSaveConsentFirstDecisionCreatesFreshRow tests that a person with no
// prior decision gets a new consent row with the default expiry, written in
// one committed transaction alongside the selection replace
func TestSaveConsentFirstDecisionCreatesFreshRow(t *testing.T) {
	f := newConsentFixture(t)
	f.expectActivePerson(42)
	f.consentStore.On("GetCurrentByPersonID", mock.Anything, int64(42)).
		Return(nil, dao.ErrConsentNotFound)

	var created *models.Consent
	f.consentStore.On("CreateWithTx", mock.Anything, mock.Anything, mock.AnythingOfType("*models.Consent")).
		Run(func(args mock.Arguments) { created = args.Get(2).(*models.Consent) }).
		Return(nil)
	f.selectionStore.On("ReplaceWithTx", mock.Anything, mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(nil)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()

	result, err := f.service.SaveConsent(
		context.Background(), 42, models.ScopeAllOrgs, nil, nil,
		staffActor, models.MethodStaffAssisted, "", "",
	)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(42), created.PersonID)
	assert.Equal(t, models.ScopeAllOrgs, created.Scope)
	assert.Equal(t, models.StatusActive, created.Status)
	assert.NotNil(t, created.ExpiresAt, "fresh consent carries the configured default expiry")
	assert.Nil(t, result.PreviousConsent)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

// TestSaveConsentUpdatesActiveRowInPlace tests that an active current row is
// rewritten rather than duplicated, and the prior state is returned as a
// snapshot for the caller's audit diff
func TestSaveConsentUpdatesActiveRowInPlace(t *testing.T) {
	f := newConsentFixture(t)
	f.expectActivePerson(42)

	previous := &models.Consent{
		ConsentID: "CONSENT-old",
		PersonID:  42,
		Scope:     models.ScopeAllOrgs,
		Status:    models.StatusActive,
		CreatedAt: 1000,
		UpdatedAt: 1000,
		Method:    models.MethodPortal,
	}
	previousSelections := []models.ConsentOrgSelection{
		{SelectionID: "SEL-old", ConsentID: "CONSENT-old", OrganizationID: 3, Allowed: false, SetAt: 1000},
	}

	f.consentStore.On("GetCurrentByPersonID", mock.Anything, int64(42)).Return(previous, nil)
	f.selectionStore.On("GetByConsentID", mock.Anything, "CONSENT-old").Return(previousSelections, nil)

	var updated *models.Consent
	f.consentStore.On("UpdateDecisionWithTx", mock.Anything, mock.Anything, mock.AnythingOfType("*models.Consent")).
		Run(func(args mock.Arguments) { updated = args.Get(2).(*models.Consent) }).
		Return(nil)

	var replaced []models.ConsentOrgSelection
	f.selectionStore.On("ReplaceWithTx", mock.Anything, mock.Anything, "CONSENT-old", mock.Anything).
		Run(func(args mock.Arguments) { replaced = args.Get(3).([]models.ConsentOrgSelection) }).
		Return(nil)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()

	result, err := f.service.SaveConsent(
		context.Background(), 42, models.ScopeSelectedOrgs, []int64{2}, []int64{3, 4},
		staffActor, models.MethodStaffAssisted, "client asked in person", "",
	)

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "CONSENT-old", updated.ConsentID, "active row is updated, not replaced")
	assert.Equal(t, models.ScopeSelectedOrgs, updated.Scope)
	assert.Len(t, replaced, 3)

	require.NotNil(t, result.PreviousConsent)
	assert.Equal(t, models.ScopeAllOrgs, result.PreviousConsent.Scope)
	assert.Equal(t, previousSelections, result.PreviousSelections)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

// TestSaveConsentAfterRevocationAppendsFreshRow tests that a revoked current
// row stays behind as history and a brand-new row is created
func TestSaveConsentAfterRevocationAppendsFreshRow(t *testing.T) {
	f := newConsentFixture(t)
	f.expectActivePerson(42)

	revokedAt := int64(2000)
	previous := &models.Consent{
		ConsentID: "CONSENT-revoked",
		PersonID:  42,
		Scope:     models.ScopeAllOrgs,
		Status:    models.StatusRevoked,
		RevokedAt: &revokedAt,
		CreatedAt: 1000,
		UpdatedAt: 2000,
		Method:    models.MethodPortal,
	}
	f.consentStore.On("GetCurrentByPersonID", mock.Anything, int64(42)).Return(previous, nil)
	f.selectionStore.On("GetByConsentID", mock.Anything, "CONSENT-revoked").
		Return([]models.ConsentOrgSelection{}, nil)

	var created *models.Consent
	f.consentStore.On("CreateWithTx", mock.Anything, mock.Anything, mock.AnythingOfType("*models.Consent")).
		Run(func(args mock.Arguments) { created = args.Get(2).(*models.Consent) }).
		Return(nil)
	f.selectionStore.On("ReplaceWithTx", mock.Anything, mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(nil)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()

	_, err := f.service.SaveConsent(
		context.Background(), 42, models.ScopeAllOrgs, nil, nil,
		staffActor, models.MethodStaffAssisted, "", "",
	)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEqual(t, "CONSENT-revoked", created.ConsentID)
	assert.Equal(t, models.StatusActive, created.Status)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

// TestSaveConsentRollsBackWhenSelectionReplaceFails tests that a failed
// selection write rolls back the consent write with it
func TestSaveConsentRollsBackWhenSelectionReplaceFails(t *testing.T) {
	f := newConsentFixture(t)
	f.expectActivePerson(42)
	f.consentStore.On("GetCurrentByPersonID", mock.Anything, int64(42)).
		Return(nil, dao.ErrConsentNotFound)
	f.consentStore.On("CreateWithTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.selectionStore.On("ReplaceWithTx", mock.Anything, mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(errors.New("disk full"))

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectRollback()

	_, err := f.service.SaveConsent(
		context.Background(), 42, models.ScopeAllOrgs, nil, nil,
		staffActor, models.MethodStaffAssisted, "", "",
	)

	require.Error(t, err)
	assert.Equal(t, service.KindStorage, service.KindOf(err))
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

// TestSaveConsentRejectsPartnerActor tests that partner accounts cannot
// change sharing preferences at all
func TestSaveConsentRejectsPartnerActor(t *testing.T) {
	f := newConsentFixture(t)

	_, err := f.service.SaveConsent(
		context.Background(), 42, models.ScopeAllOrgs, nil, nil,
		models.Actor{ID: "partner-1", Role: models.RolePartner},
		models.MethodStaffAssisted, "", "",
	)

	require.Error(t, err)
	assert.Equal(t, service.KindAuthorization, service.KindOf(err))
	f.personStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

// TestSaveConsentRejectsSelectedOrgsWithoutAllowed tests the validation that
// selected_orgs requires at least one allowed organization
func TestSaveConsentRejectsSelectedOrgsWithoutAllowed(t *testing.T) {
	f := newConsentFixture(t)

	_, err := f.service.SaveConsent(
		context.Background(), 42, models.ScopeSelectedOrgs, nil, []int64{2, 3},
		staffActor, models.MethodStaffAssisted, "", "",
	)

	require.Error(t, err)
	assert.Equal(t, service.KindValidation, service.KindOf(err))
}

// TestSaveConsentRejectsOverlappingSets tests that one org cannot be both
// allowed and blocked in the same submission
func TestSaveConsentRejectsOverlappingSets(t *testing.T) {
	f := newConsentFixture(t)

	_, err := f.service.SaveConsent(
		context.Background(), 42, models.ScopeSelectedOrgs, []int64{2, 3}, []int64{3},
		staffActor, models.MethodStaffAssisted, "", "",
	)

	require.Error(t, err)
	assert.Equal(t, service.KindValidation, service.KindOf(err))
}

// TestSaveConsentRejectsInactivePerson tests that a deactivated client record
// cannot receive new sharing decisions
func TestSaveConsentRejectsInactivePerson(t *testing.T) {
	f := newConsentFixture(t)
	f.personStore.On("GetByID", mock.Anything, int64(42)).
		Return(&models.Person{PersonID: 42, Status: models.PersonInactive}, nil)

	_, err := f.service.SaveConsent(
		context.Background(), 42, models.ScopeAllOrgs, nil, nil,
		staffActor, models.MethodStaffAssisted, "", "",
	)

	require.Error(t, err)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
	f.consentStore.AssertNotCalled(t, "CreateWithTx", mock.Anything, mock.Anything, mock.Anything)
}

// TestRevokeConsentRequiresConfirmation tests the explicit confirmation gate:
// without it no read or write happens at all
func TestRevokeConsentRequiresConfirmation(t *testing.T) {
	f := newConsentFixture(t)

	_, err := f.service.RevokeConsent(context.Background(), "CONSENT-1", false, staffActor)

	require.Error(t, err)
	assert.Equal(t, service.KindValidation, service.KindOf(err))
	f.consentStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.consentStore.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

// TestRevokeConsentMarksRevoked tests the happy path
func TestRevokeConsentMarksRevoked(t *testing.T) {
	f := newConsentFixture(t)
	f.consentStore.On("GetByID", mock.Anything, "CONSENT-1").
		Return(&models.Consent{ConsentID: "CONSENT-1", PersonID: 42, Status: models.StatusActive}, nil)
	f.consentStore.On("Revoke", mock.Anything, "CONSENT-1", mock.AnythingOfType("int64")).Return(nil)

	consent, err := f.service.RevokeConsent(context.Background(), "CONSENT-1", true, staffActor)

	require.NoError(t, err)
	assert.Equal(t, models.StatusRevoked, consent.Status)
	assert.NotNil(t, consent.RevokedAt)
}

// TestRevokeConsentAlreadyRevoked tests that revoking twice is a conflict
func TestRevokeConsentAlreadyRevoked(t *testing.T) {
	f := newConsentFixture(t)
	f.consentStore.On("GetByID", mock.Anything, "CONSENT-1").
		Return(&models.Consent{ConsentID: "CONSENT-1", PersonID: 42, Status: models.StatusRevoked}, nil)

	_, err := f.service.RevokeConsent(context.Background(), "CONSENT-1", true, staffActor)

	require.Error(t, err)
	assert.Equal(t, service.KindConflict, service.KindOf(err))
	f.consentStore.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

// TestRenewConsentTouchesOnlyExpiry tests that renewal changes the expiry and
// update timestamps and nothing else; scope and selections are untouched
func TestRenewConsentTouchesOnlyExpiry(t *testing.T) {
	f := newConsentFixture(t)
	oldExpiry := int64(5000)
	f.consentStore.On("GetByID", mock.Anything, "CONSENT-1").
		Return(&models.Consent{
			ConsentID: "CONSENT-1",
			PersonID:  42,
			Scope:     models.ScopeSelectedOrgs,
			Status:    models.StatusActive,
			ExpiresAt: &oldExpiry,
		}, nil)

	var newExpiry *int64
	f.consentStore.On("UpdateExpiry", mock.Anything, "CONSENT-1", mock.Anything, mock.AnythingOfType("int64")).
		Run(func(args mock.Arguments) {
			if v, ok := args.Get(2).(*int64); ok {
				newExpiry = v
			}
		}).
		Return(nil)

	consent, err := f.service.RenewConsent(context.Background(), "CONSENT-1", staffActor)

	require.NoError(t, err)
	require.NotNil(t, newExpiry)
	assert.Greater(t, *newExpiry, oldExpiry)
	assert.Equal(t, models.ScopeSelectedOrgs, consent.Scope, "renewal never touches scope")
	f.selectionStore.AssertNotCalled(t, "ReplaceWithTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestRenewConsentRejectsRevoked tests that a revoked consent requires a
// fresh decision rather than a renewal
func TestRenewConsentRejectsRevoked(t *testing.T) {
	f := newConsentFixture(t)
	f.consentStore.On("GetByID", mock.Anything, "CONSENT-1").
		Return(&models.Consent{ConsentID: "CONSENT-1", PersonID: 42, Status: models.StatusRevoked}, nil)

	_, err := f.service.RenewConsent(context.Background(), "CONSENT-1", staffActor)

	require.Error(t, err)
	assert.Equal(t, service.KindConflict, service.KindOf(err))
	f.consentStore.AssertNotCalled(t, "UpdateExpiry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestGetResolvedConsentPartitionsRoster tests the read path end to end:
// current consent, effective status, and the resolved partition
func TestGetResolvedConsentPartitionsRoster(t *testing.T) {
	f := newConsentFixture(t)
	f.expectActivePerson(42)
	f.consentStore.On("GetCurrentByPersonID", mock.Anything, int64(42)).
		Return(&models.Consent{
			ConsentID: "CONSENT-1",
			PersonID:  42,
			Scope:     models.ScopeSelectedOrgs,
			Status:    models.StatusActive,
		}, nil)
	f.orgStore.On("ListParticipating", mock.Anything, int64(1)).
		Return([]models.Organization{
			{OrganizationID: 2, Name: "Downtown Shelter", IsActive: true},
			{OrganizationID: 3, Name: "Harm Reduction Van", IsActive: true},
		}, nil)
	f.selectionStore.On("GetByConsentID", mock.Anything, "CONSENT-1").
		Return([]models.ConsentOrgSelection{
			{SelectionID: "SEL-1", ConsentID: "CONSENT-1", OrganizationID: 2, Allowed: true, SetAt: 100},
		}, nil)

	resolved, err := f.service.GetResolvedConsent(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, models.EffectiveActive, resolved.EffectiveStatus)
	assert.ElementsMatch(t, []int64{2}, resolved.Sharing.AllowedOrgIDs)
	assert.ElementsMatch(t, []int64{3}, resolved.Sharing.BlockedOrgIDs)
}

// TestGetResolvedConsentNoDecision tests the not-found path for a person who
// never recorded a decision
func TestGetResolvedConsentNoDecision(t *testing.T) {
	f := newConsentFixture(t)
	f.expectActivePerson(42)
	f.consentStore.On("GetCurrentByPersonID", mock.Anything, int64(42)).
		Return(nil, dao.ErrConsentNotFound)

	_, err := f.service.GetResolvedConsent(context.Background(), 42)

	require.Error(t, err)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

// TestGetConsentHistoryMarksCurrent tests that history is returned newest
// first with only the head entry carrying a resolved partition
func TestGetConsentHistoryMarksCurrent(t *testing.T) {
	f := newConsentFixture(t)
	f.personStore.On("GetByID", mock.Anything, int64(42)).
		Return(&models.Person{PersonID: 42, Status: models.PersonActive}, nil)

	revokedAt := int64(500)
	f.consentStore.On("GetByPersonID", mock.Anything, int64(42)).
		Return([]models.Consent{
			{ConsentID: "CONSENT-new", PersonID: 42, Scope: models.ScopeAllOrgs, Status: models.StatusActive, CreatedAt: 1000},
			{ConsentID: "CONSENT-old", PersonID: 42, Scope: models.ScopeNone, Status: models.StatusRevoked, RevokedAt: &revokedAt, CreatedAt: 100},
		}, nil)
	f.orgStore.On("ListParticipating", mock.Anything, int64(1)).
		Return([]models.Organization{{OrganizationID: 2, Name: "Downtown Shelter", IsActive: true}}, nil)
	f.selectionStore.On("GetByConsentID", mock.Anything, "CONSENT-new").
		Return([]models.ConsentOrgSelection{}, nil)

	entries, err := f.service.GetConsentHistory(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Current)
	assert.NotNil(t, entries[0].Sharing)
	assert.False(t, entries[1].Current)
	assert.Nil(t, entries[1].Sharing)
	assert.Equal(t, models.EffectiveRevoked, entries[1].EffectiveStatus)
}
