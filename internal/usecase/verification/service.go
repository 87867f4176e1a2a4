// Package verification runs verification cycles: lifecycle, employee
// submissions, employee detail and the cycle compliance roll-up.
package verification

import (
	"context"
	"errors"
	"time"

	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/errs"
	"assetverify/internal/ports"
)

const (
	lifecycleLockKey     = "cycle-lifecycle"
	defaultRollupWorkers = 4
)

// Deps are the ports the service needs. Lock is optional.
type Deps struct {
	Cycles    ports.CycleRepository
	Records   ports.RecordRepository
	Assets    ports.AssetReader
	Employees ports.EmployeeReader
	UoW       ports.UnitOfWork
	Lock      ports.WriterLock
}

type Service struct {
	cycles        ports.CycleRepository
	records       ports.RecordRepository
	assets        ports.AssetReader
	employees     ports.EmployeeReader
	uow           ports.UnitOfWork
	lock          ports.WriterLock
	classifier    domainverification.Classifier
	now           func() time.Time
	rollupWorkers int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLostSentinel(sentinel string) Option {
	return func(s *Service) {
		s.classifier = domainverification.NewClassifier(sentinel)
	}
}

func WithRollupWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.rollupWorkers = n
		}
	}
}

func NewService(deps Deps, opts ...Option) *Service {
	s := &Service{
		cycles:        deps.Cycles,
		records:       deps.Records,
		assets:        deps.Assets,
		employees:     deps.Employees,
		uow:           deps.UoW,
		lock:          deps.Lock,
		classifier:    domainverification.NewClassifier(""),
		now:           time.Now,
		rollupWorkers: defaultRollupWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classifier exposes the configured classifier (lost sentinel included) to callers
// that render or pre-validate entries.
func (s *Service) Classifier() domainverification.Classifier {
	return s.classifier
}

type StartCycleInput struct {
	Title     string
	CreatedBy string
	Notes     string
}

type CloseCycleInput struct {
	CycleID  uint64
	ClosedBy string
}

// SubmitInput targets CycleID, or the active cycle when CycleID is 0.
type SubmitInput struct {
	CycleID        uint64
	EmployeeID     string
	AssetID        string
	EnteredAssetID string
	Notes          string
}

type SubmitEntry struct {
	AssetID        string
	EnteredAssetID string
	Notes          string
}

type SubmitBatchInput struct {
	CycleID    uint64
	EmployeeID string
	Entries    []SubmitEntry
}

func (s *Service) checkReady(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.cycles == nil {
		return errors.New("cycle repository is required")
	}
	if s.records == nil {
		return errors.New("record repository is required")
	}
	if s.assets == nil || s.employees == nil {
		return errors.New("inventory readers are required")
	}
	if s.uow == nil {
		return errors.New("unit of work is required")
	}
	return nil
}

func (s *Service) acquireLifecycleLock(ctx context.Context) (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	release, err := s.lock.Acquire(ctx, lifecycleLockKey)
	if err != nil {
		return nil, err
	}
	return release, nil
}

func (s *Service) nowUTC() time.Time {
	return s.now().UTC()
}
