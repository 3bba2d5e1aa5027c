package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"Gin_postgres_redis_local_library/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type instanceStoreMock struct{ mock.Mock }

func (m *instanceStoreMock) FindInstanceByID(ctx context.Context, id string) (*models.BookInstance, error) {
	args := m.Called(ctx, id)
	bi, _ := args.Get(0).(*models.BookInstance)
	return bi, args.Error(1)
}

func (m *instanceStoreMock) SetInstanceDueBack(ctx context.Context, id string, dueBack time.Time) error {
	return m.Called(ctx, id, dueBack).Error(0)
}

const instanceID = "6f1c9a52-6a47-4c51-9b1e-8f2d3c4b5a60"

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func fixedClock() time.Time { return time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC) }

func onLoan() *models.BookInstance {
	due := day(2024, 1, 1)
	return &models.BookInstance{ID: instanceID, BookID: 1, Status: models.StatusOnLoan, DueBack: &due}
}

func newService(store InstanceStore) *RenewalService {
	return NewRenewalService(store, time.UTC).WithClock(fixedClock)
}

func TestRenewStoresValidDate(t *testing.T) {
	store := new(instanceStoreMock)
	store.On("FindInstanceByID", mock.Anything, instanceID).Return(onLoan(), nil)
	store.On("SetInstanceDueBack", mock.Anything, instanceID, day(2024, 6, 10)).Return(nil)

	bi, err := newService(store).Renew(context.Background(), instanceID, day(2024, 6, 10))
	require.NoError(t, err)
	require.NotNil(t, bi.DueBack)
	assert.Equal(t, day(2024, 6, 10), *bi.DueBack)

	store.AssertExpectations(t)
}

func TestRenewRejectsOutOfRange(t *testing.T) {
	testCases := []struct {
		name     string
		proposed time.Time
		message  string
	}{
		{"past", day(2024, 5, 1), "Invalid date - renewal in past"},
		{"yesterday", day(2024, 5, 31), "Invalid date - renewal in past"},
		{"too far ahead", day(2024, 7, 15), "Invalid date - renewal more than 4 weeks ahead"},
		{"one day past the limit", day(2024, 6, 30), "Invalid date - renewal more than 4 weeks ahead"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			store := new(instanceStoreMock)
			store.On("FindInstanceByID", mock.Anything, instanceID).Return(onLoan(), nil)

			bi, err := newService(store).Renew(context.Background(), instanceID, tt.proposed)
			require.Error(t, err)

			ve, ok := AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, RenewalDateField, ve.Field)
			assert.Equal(t, tt.message, ve.Message)

			require.NotNil(t, bi)
			assert.Equal(t, day(2024, 1, 1), *bi.DueBack)
			store.AssertNotCalled(t, "SetInstanceDueBack", mock.Anything, mock.Anything, mock.Anything)
			store.AssertExpectations(t)
		})
	}
}

func TestRenewAcceptsWholeWindow(t *testing.T) {
	today := day(2024, 6, 1)
	for offset := 0; offset <= MaxRenewalDays; offset++ {
		proposed := today.AddDate(0, 0, offset)

		store := new(instanceStoreMock)
		store.On("FindInstanceByID", mock.Anything, instanceID).Return(onLoan(), nil)
		store.On("SetInstanceDueBack", mock.Anything, instanceID, proposed).Return(nil)

		bi, err := newService(store).Renew(context.Background(), instanceID, proposed)
		require.NoError(t, err, "offset %d", offset)
		assert.Equal(t, proposed, *bi.DueBack)
		store.AssertExpectations(t)
	}
}

func TestRenewUnknownInstance(t *testing.T) {
	store := new(instanceStoreMock)
	store.On("FindInstanceByID", mock.Anything, "missing").Return(nil, ErrNotFound)

	bi, err := newService(store).Renew(context.Background(), "missing", day(2024, 6, 10))
	assert.Nil(t, bi)
	assert.True(t, errors.Is(err, ErrNotFound))
	store.AssertNotCalled(t, "SetInstanceDueBack", mock.Anything, mock.Anything, mock.Anything)
}

func TestRenewStoreFailure(t *testing.T) {
	store := new(instanceStoreMock)
	store.On("FindInstanceByID", mock.Anything, instanceID).Return(onLoan(), nil)
	store.On("SetInstanceDueBack", mock.Anything, instanceID, day(2024, 6, 10)).Return(errors.New("DB error"))

	_, err := newService(store).Renew(context.Background(), instanceID, day(2024, 6, 10))
	require.Error(t, err)
	assert.Equal(t, "Renewal failed: DB error", err.Error())
}

func TestPrepareProposesThreeWeeks(t *testing.T) {
	store := new(instanceStoreMock)
	store.On("FindInstanceByID", mock.Anything, instanceID).Return(onLoan(), nil)

	form, err := newService(store).Prepare(context.Background(), instanceID)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 22), form.RenewalDate)
	assert.Equal(t, instanceID, form.Instance.ID)
}

func TestTodayUsesLibraryZone(t *testing.T) {
	late := func() time.Time { return time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC) }
	zone := time.FixedZone("UTC+2", 2*60*60)

	svc := NewRenewalService(new(instanceStoreMock), zone).WithClock(late)
	assert.Equal(t, day(2024, 6, 2), svc.Today())
}

func TestValidateRenewalDateBounds(t *testing.T) {
	today := day(2024, 6, 1)
	assert.NoError(t, ValidateRenewalDate(today, today))
	assert.NoError(t, ValidateRenewalDate(today, day(2024, 6, 29)))
	assert.Error(t, ValidateRenewalDate(today, day(2024, 6, 30)))
	assert.Error(t, ValidateRenewalDate(today, day(2024, 5, 31)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(RenewalDateField, " 2024-06-10 ")
	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 10), d)

	_, err = ParseDate(RenewalDateField, "10/06/2024")
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Enter a valid date.", ve.Message)

	_, err = ParseDate(RenewalDateField, "")
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "This field is required.", ve.Message)
}

func TestRenewFromInput(t *testing.T) {
	store := new(instanceStoreMock)
	store.On("FindInstanceByID", mock.Anything, instanceID).Return(onLoan(), nil)
	store.On("SetInstanceDueBack", mock.Anything, instanceID, day(2024, 6, 10)).Return(nil)

	bi, err := newService(store).RenewFromInput(context.Background(), instanceID, "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 10), *bi.DueBack)
	store.AssertExpectations(t)
}

func TestRenewFromInputReportsMissingInstanceFirst(t *testing.T) {
	store := new(instanceStoreMock)
	store.On("FindInstanceByID", mock.Anything, "missing").Return(nil, ErrNotFound)

	_, err := newService(store).RenewFromInput(context.Background(), "missing", "not a date")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRenewFromInputRejectsGarbage(t *testing.T) {
	store := new(instanceStoreMock)
	store.On("FindInstanceByID", mock.Anything, instanceID).Return(onLoan(), nil)

	bi, err := newService(store).RenewFromInput(context.Background(), instanceID, "next week")
	_, ok := AsValidation(err)
	assert.True(t, ok)
	assert.Equal(t, day(2024, 1, 1), *bi.DueBack)
	store.AssertNotCalled(t, "SetInstanceDueBack", mock.Anything, mock.Anything, mock.Anything)
}
