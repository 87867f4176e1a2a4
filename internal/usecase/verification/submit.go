package verification

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"assetverify/internal/bootstrap/logging"
	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/errs"
	"assetverify/internal/ports"
)

// SubmitVerification classifies one entered value and appends the record. The
// cycle must still be active when the record is written; nothing is stored on error.
func (s *Service) SubmitVerification(ctx context.Context, input SubmitInput) (domainverification.Record, error) {
	if err := s.checkReady(ctx); err != nil {
		return domainverification.Record{}, err
	}

	employeeID := strings.TrimSpace(input.EmployeeID)
	if employeeID == "" {
		return domainverification.Record{}, errs.E(errs.KindValidation, domainverification.ErrEmployeeRequired, "employee id is required")
	}
	entry := SubmitEntry{AssetID: input.AssetID, EnteredAssetID: input.EnteredAssetID, Notes: input.Notes}
	if err := validateEntry(entry); err != nil {
		return domainverification.Record{}, err
	}

	var record domainverification.Record
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		cycle, at, err := s.claimSubmission(txCtx, input.CycleID)
		if err != nil {
			return err
		}
		record, err = s.appendEntryTx(txCtx, cycle.ID, employeeID, entry, at)
		return err
	}); err != nil {
		return domainverification.Record{}, err
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "verification.submit")),
		"verification recorded",
		slog.String("cycle", domainverification.FormatCycleRef(record.CycleID)),
		slog.String("employee_id", record.EmployeeID),
		slog.String("asset_id", record.AssetID),
		slog.String("status", string(record.Status)),
	)
	return record, nil
}

// SubmitBatch records every non-blank entry of one employee in a single
// transaction; one bad entry rejects the whole batch.
func (s *Service) SubmitBatch(ctx context.Context, input SubmitBatchInput) ([]domainverification.Record, error) {
	if err := s.checkReady(ctx); err != nil {
		return nil, err
	}

	employeeID := strings.TrimSpace(input.EmployeeID)
	if employeeID == "" {
		return nil, errs.E(errs.KindValidation, domainverification.ErrEmployeeRequired, "employee id is required")
	}

	entries := make([]SubmitEntry, 0, len(input.Entries))
	for _, entry := range input.Entries {
		if strings.TrimSpace(entry.EnteredAssetID) == "" {
			continue
		}
		if err := validateEntry(entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, errs.E(errs.KindValidation, domainverification.ErrEnteredRequired, "no entered asset ids to submit")
	}

	records := make([]domainverification.Record, 0, len(entries))
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		cycle, at, err := s.claimSubmission(txCtx, input.CycleID)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			record, err := s.appendEntryTx(txCtx, cycle.ID, employeeID, entry, at)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "verification.submit")),
		"verification batch recorded",
		slog.String("cycle", domainverification.FormatCycleRef(records[0].CycleID)),
		slog.String("employee_id", employeeID),
		slog.Int("records", len(records)),
	)
	return records, nil
}

// claimSubmission resolves the target cycle and marks the submission with a
// guarded update, so a close committed first makes it fail.
func (s *Service) claimSubmission(txCtx context.Context, cycleID uint64) (domainverification.Cycle, time.Time, error) {
	var cycle domainverification.Cycle
	if cycleID == 0 {
		active, found, err := s.cycles.GetActiveCycle(txCtx)
		if err != nil {
			return domainverification.Cycle{}, time.Time{}, err
		}
		if !found {
			return domainverification.Cycle{}, time.Time{}, errs.CycleClosed(
				domainverification.ErrCycleNotActive,
				"no verification cycle is active; ask an administrator to start one",
			)
		}
		cycle = active
	} else {
		found, err := s.getCycle(txCtx, cycleID)
		if err != nil {
			return domainverification.Cycle{}, time.Time{}, err
		}
		cycle = found
	}

	if err := cycle.CheckAcceptsSubmissions(); err != nil {
		return domainverification.Cycle{}, time.Time{}, err
	}

	at := s.nowUTC()
	ok, err := s.cycles.TouchActiveCycle(txCtx, cycle.ID, at)
	if err != nil {
		return domainverification.Cycle{}, time.Time{}, err
	}
	if !ok {
		return domainverification.Cycle{}, time.Time{}, errs.CycleClosed(
			domainverification.ErrCycleNotActive,
			"verification cycle %s closed before the submission was recorded",
			cycle.Ref(),
		)
	}
	return cycle, at, nil
}

func (s *Service) appendEntryTx(txCtx context.Context, cycleID uint64, employeeID string, entry SubmitEntry, at time.Time) (domainverification.Record, error) {
	assetID := strings.TrimSpace(entry.AssetID)
	asset, err := s.assets.GetAsset(txCtx, assetID)
	if err != nil {
		if errors.Is(err, ports.ErrAssetNotFound) {
			return domainverification.Record{}, errs.Validation("asset %q does not exist in inventory", assetID)
		}
		return domainverification.Record{}, err
	}
	if asset.AssignedEmployeeID != employeeID {
		return domainverification.Record{}, errs.E(
			errs.KindValidation,
			domainverification.ErrAssetNotAssigned,
			"asset %q is not assigned to employee %q",
			asset.Tag,
			employeeID,
		)
	}

	classification := s.classifier.Classify(asset.Tag, entry.EnteredAssetID, entry.Notes)
	date := at
	return s.records.AppendRecord(txCtx, domainverification.Record{
		CycleID:          cycleID,
		EmployeeID:       employeeID,
		AssetID:          asset.Tag,
		EnteredAssetID:   classification.EnteredAssetID,
		Status:           classification.Status,
		Notes:            classification.Notes,
		VerificationDate: &date,
		IsMatch:          classification.IsMatch,
	})
}

func validateEntry(entry SubmitEntry) error {
	if strings.TrimSpace(entry.AssetID) == "" {
		return errs.E(errs.KindValidation, domainverification.ErrAssetRequired, "asset id is required")
	}
	if strings.TrimSpace(entry.EnteredAssetID) == "" {
		return errs.E(errs.KindValidation, domainverification.ErrEnteredRequired,
			"entered asset id for %q is required; enter the tag or report the asset lost", strings.TrimSpace(entry.AssetID))
	}
	return nil
}
