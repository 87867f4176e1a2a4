package verification

import (
	"context"
	"errors"
	"log/slog"

	"assetverify/internal/bootstrap/logging"
	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/errs"
	"assetverify/internal/ports"
)

// StartCycle opens a new active cycle. The in-transaction check gives the
// actionable message; the storage constraint catches a racing instance.
func (s *Service) StartCycle(ctx context.Context, input StartCycleInput) (domainverification.Cycle, error) {
	if err := s.checkReady(ctx); err != nil {
		return domainverification.Cycle{}, err
	}

	cycle, err := domainverification.NewCycle(input.Title, input.Notes, input.CreatedBy, s.nowUTC())
	if err != nil {
		return domainverification.Cycle{}, err
	}

	release, err := s.acquireLifecycleLock(ctx)
	if err != nil {
		return domainverification.Cycle{}, err
	}
	defer release()

	var created domainverification.Cycle
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		active, found, err := s.cycles.GetActiveCycle(txCtx)
		if err != nil {
			return err
		}
		if err := domainverification.CheckCanStart(active, found); err != nil {
			return err
		}

		created, err = s.cycles.CreateCycle(txCtx, cycle)
		if errors.Is(err, ports.ErrActiveCycleConflict) {
			return errs.InvalidState(
				domainverification.ErrCycleAlreadyActive,
				"a verification cycle is already active; close it before starting a new one",
			)
		}
		return err
	}); err != nil {
		return domainverification.Cycle{}, err
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "verification.cycle")),
		"verification cycle started",
		slog.String("cycle", created.Ref()),
		slog.String("title", created.Title),
		slog.String("created_by", created.CreatedBy),
	)
	return created, nil
}

// CloseCycle closes an active cycle. Once it commits, submissions addressed to the
// cycle fail their guarded update.
func (s *Service) CloseCycle(ctx context.Context, input CloseCycleInput) (domainverification.Cycle, error) {
	if err := s.checkReady(ctx); err != nil {
		return domainverification.Cycle{}, err
	}
	if input.CycleID == 0 {
		return domainverification.Cycle{}, errs.Validation("cycle id is required")
	}

	release, err := s.acquireLifecycleLock(ctx)
	if err != nil {
		return domainverification.Cycle{}, err
	}
	defer release()

	var closed domainverification.Cycle
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		cycle, err := s.getCycle(txCtx, input.CycleID)
		if err != nil {
			return err
		}

		closed, err = cycle.Close(input.ClosedBy, s.nowUTC())
		if err != nil {
			return err
		}

		ok, err := s.cycles.CloseCycle(txCtx, closed.ID, closed.ClosedBy, *closed.EndDate)
		if err != nil {
			return err
		}
		if !ok {
			return errs.InvalidState(
				domainverification.ErrCycleAlreadyClosed,
				"verification cycle %s was closed concurrently",
				cycle.Ref(),
			)
		}
		return nil
	}); err != nil {
		return domainverification.Cycle{}, err
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "verification.cycle")),
		"verification cycle closed",
		slog.String("cycle", closed.Ref()),
		slog.String("closed_by", closed.ClosedBy),
	)
	return closed, nil
}

func (s *Service) GetActiveCycle(ctx context.Context) (domainverification.Cycle, bool, error) {
	if err := s.checkReady(ctx); err != nil {
		return domainverification.Cycle{}, false, err
	}
	return s.cycles.GetActiveCycle(ctx)
}

// ListCycles returns every cycle, newest start first.
func (s *Service) ListCycles(ctx context.Context) ([]domainverification.Cycle, error) {
	if err := s.checkReady(ctx); err != nil {
		return nil, err
	}
	return s.cycles.ListCycles(ctx)
}

func (s *Service) getCycle(ctx context.Context, cycleID uint64) (domainverification.Cycle, error) {
	cycle, err := s.cycles.GetCycle(ctx, cycleID)
	if errors.Is(err, ports.ErrCycleNotFound) {
		return domainverification.Cycle{}, errs.NotFound(err, "verification %s not found", domainverification.FormatCycleRef(cycleID))
	}
	return cycle, err
}

// resolveCycle picks the explicit cycle, else the active one, else the most recently
// started. found=false only when no cycle was ever started.
func (s *Service) resolveCycle(ctx context.Context, cycleID uint64) (domainverification.Cycle, bool, error) {
	if cycleID != 0 {
		cycle, err := s.getCycle(ctx, cycleID)
		if err != nil {
			return domainverification.Cycle{}, false, err
		}
		return cycle, true, nil
	}

	active, found, err := s.cycles.GetActiveCycle(ctx)
	if err != nil || found {
		return active, found, err
	}
	return s.cycles.LatestCycle(ctx)
}
