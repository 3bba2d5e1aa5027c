package services

import (
	"context"
	"time"

	"Gin_postgres_redis_local_library/logger"
	"Gin_postgres_redis_local_library/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultRenewalDays is offered as the new due date on first display.
	DefaultRenewalDays = 21
	// MaxRenewalDays is the furthest a loan can be pushed out.
	MaxRenewalDays = 28

	RenewalDateField = "renewal_date"
)

// InstanceStore is the part of the catalog store the renewal workflow needs.
type InstanceStore interface {
	FindInstanceByID(ctx context.Context, id string) (*models.BookInstance, error)
	SetInstanceDueBack(ctx context.Context, id string, dueBack time.Time) error
}

// RenewalService extends the due date of a single book instance.
type RenewalService struct {
	store InstanceStore
	loc   *time.Location
	now   func() time.Time
}

func NewRenewalService(store InstanceStore, loc *time.Location) *RenewalService {
	if loc == nil {
		loc = time.UTC
	}
	return &RenewalService{store: store, loc: loc, now: time.Now}
}

// WithClock replaces the wall clock, mostly for tests.
func (s *RenewalService) WithClock(now func() time.Time) *RenewalService {
	s.now = now
	return s
}

// Today is the current calendar day in the library's time zone.
func (s *RenewalService) Today() time.Time { return DateOf(s.now(), s.loc) }

// RenewalForm is what the renewal page starts with.
type RenewalForm struct {
	Instance    *models.BookInstance
	RenewalDate time.Time
}

// Prepare loads the instance and proposes today + 3 weeks.
func (s *RenewalService) Prepare(ctx context.Context, instanceID string) (*RenewalForm, error) {
	bi, err := s.store.FindInstanceByID(ctx, instanceID)
	if err != nil {
		return nil, errors.Wrapf(err, "load instance %s", instanceID)
	}
	return &RenewalForm{
		Instance:    bi,
		RenewalDate: s.Today().AddDate(0, 0, DefaultRenewalDays),
	}, nil
}

// Renew validates the proposed date and stores it as the instance's due_back.
// On a validation error the loaded instance is returned untouched along with
// the error so callers can show it again.
func (s *RenewalService) Renew(ctx context.Context, instanceID string, proposed time.Time) (*models.BookInstance, error) {
	bi, err := s.store.FindInstanceByID(ctx, instanceID)
	if err != nil {
		return nil, errors.Wrapf(err, "load instance %s", instanceID)
	}
	return s.renew(ctx, bi, proposed)
}

// RenewFromInput is Renew for a submitted YYYY-MM-DD value. An unknown
// instance is reported before a malformed date.
func (s *RenewalService) RenewFromInput(ctx context.Context, instanceID, raw string) (*models.BookInstance, error) {
	bi, err := s.store.FindInstanceByID(ctx, instanceID)
	if err != nil {
		return nil, errors.Wrapf(err, "load instance %s", instanceID)
	}
	proposed, err := ParseDate(RenewalDateField, raw)
	if err != nil {
		return bi, err
	}
	return s.renew(ctx, bi, proposed)
}

func (s *RenewalService) renew(ctx context.Context, bi *models.BookInstance, proposed time.Time) (*models.BookInstance, error) {
	due := DateOf(proposed, proposed.Location())
	if err := ValidateRenewalDate(s.Today(), due); err != nil {
		return bi, err
	}

	if err := s.store.SetInstanceDueBack(ctx, bi.ID, due); err != nil {
		return bi, errors.Wrap(err, "Renewal failed")
	}
	logger.Log.WithFields(logrus.Fields{
		"instance": bi.ID,
		"dueBack":  due.Format(DateLayout),
	}).Info("loan renewed")

	bi.DueBack = &due
	return bi, nil
}

// ValidateRenewalDate accepts dates in [today, today+4 weeks].
func ValidateRenewalDate(today, proposed time.Time) error {
	if proposed.Before(today) {
		return invalid(RenewalDateField, "Invalid date - renewal in past")
	}
	if proposed.After(today.AddDate(0, 0, MaxRenewalDays)) {
		return invalid(RenewalDateField, "Invalid date - renewal more than 4 weeks ahead")
	}
	return nil
}
