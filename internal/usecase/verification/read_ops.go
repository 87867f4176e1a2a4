package verification

import (
	"context"
	"errors"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"assetverify/internal/domain/inventory"
	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/errs"
	"assetverify/internal/ports"
)

// AssetLine is one assigned asset with its latest record in the cycle, or the
// implicit Pending record when nothing was submitted.
type AssetLine struct {
	Asset  inventory.Asset
	Record domainverification.Record
}

type EmployeeDetail struct {
	Employee inventory.Employee
	// Cycle is nil when no cycle was ever started.
	Cycle    *domainverification.Cycle
	Summary  domainverification.EmployeeComplianceSummary
	Assets   []AssetLine
	Sessions []domainverification.Session
}

type EmployeeRollupLine struct {
	Employee inventory.Employee
	Summary  domainverification.EmployeeComplianceSummary
}

type CycleRollup struct {
	Cycle *domainverification.Cycle
	domainverification.RollupTotals
	Employees []EmployeeRollupLine
}

// ActionItem is an unresolved (Pending or Flagged) record with its follow-up context.
type ActionItem struct {
	Record   domainverification.Record
	Asset    inventory.Asset
	Employee inventory.Employee
}

// GetEmployeeVerificationDetail returns the employee's state in cycleID, or in the
// resolved default cycle when cycleID is 0.
func (s *Service) GetEmployeeVerificationDetail(ctx context.Context, employeeID string, cycleID uint64) (EmployeeDetail, error) {
	if err := s.checkReady(ctx); err != nil {
		return EmployeeDetail{}, err
	}
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return EmployeeDetail{}, errs.E(errs.KindValidation, domainverification.ErrEmployeeRequired, "employee id is required")
	}

	assigned, err := s.assets.ListAssetsByAssignee(ctx, employeeID)
	if err != nil {
		return EmployeeDetail{}, err
	}
	employee, err := s.employees.GetEmployee(ctx, employeeID)
	switch {
	case errors.Is(err, ports.ErrEmployeeNotFound) && len(assigned) > 0:
		employee = inventory.PlaceholderEmployee(employeeID)
	case errors.Is(err, ports.ErrEmployeeNotFound):
		return EmployeeDetail{}, errs.NotFound(err, "employee %q not found", employeeID)
	case err != nil:
		return EmployeeDetail{}, err
	}

	detail := EmployeeDetail{Employee: employee}
	cycle, found, err := s.resolveCycle(ctx, cycleID)
	if err != nil {
		return EmployeeDetail{}, err
	}

	var cycleRecords []domainverification.Record
	if found {
		detail.Cycle = &cycle
		cycleRecords, err = s.records.ListEmployeeRecords(ctx, employeeID, cycle.ID)
		if err != nil {
			return EmployeeDetail{}, err
		}
	}

	latest := make(map[string]domainverification.Record, len(cycleRecords))
	for _, record := range domainverification.LatestPerAsset(cycleRecords) {
		latest[record.AssetID] = record
	}
	detail.Assets = make([]AssetLine, 0, len(assigned))
	tags := make([]string, 0, len(assigned))
	for _, asset := range assigned {
		tags = append(tags, asset.Tag)
		record, ok := latest[asset.Tag]
		if !ok {
			record = domainverification.UnsubmittedRecord(cycle.ID, employeeID, asset.Tag)
		}
		detail.Assets = append(detail.Assets, AssetLine{Asset: asset, Record: record})
	}
	detail.Summary = domainverification.Summarize(employeeID, len(assigned), domainverification.RecordsForAssets(cycleRecords, tags))

	history, err := s.records.ListEmployeeRecords(ctx, employeeID, 0)
	if err != nil {
		return EmployeeDetail{}, err
	}
	detail.Sessions = domainverification.Sessions(history)
	return detail, nil
}

// GetVerificationSummary rolls up every employee holding at least one asset. With
// no cycle ever started every such employee is Pending.
func (s *Service) GetVerificationSummary(ctx context.Context, cycleID uint64) (CycleRollup, error) {
	if err := s.checkReady(ctx); err != nil {
		return CycleRollup{}, err
	}

	cycle, found, err := s.resolveCycle(ctx, cycleID)
	if err != nil {
		return CycleRollup{}, err
	}
	assets, err := s.assets.ListAssets(ctx)
	if err != nil {
		return CycleRollup{}, err
	}
	directory, err := s.employeeDirectory(ctx)
	if err != nil {
		return CycleRollup{}, err
	}

	var records []domainverification.Record
	if found {
		records, err = s.records.ListCycleRecords(ctx, cycle.ID)
		if err != nil {
			return CycleRollup{}, err
		}
	}

	assignedTags := make(map[string][]string)
	for _, asset := range assets {
		if asset.IsAssigned() {
			assignedTags[asset.AssignedEmployeeID] = append(assignedTags[asset.AssignedEmployeeID], asset.Tag)
		}
	}
	employeeIDs := make([]string, 0, len(assignedTags))
	for employeeID := range assignedTags {
		employeeIDs = append(employeeIDs, employeeID)
	}
	sort.Strings(employeeIDs)

	recordsByEmployee := make(map[string][]domainverification.Record)
	for _, record := range records {
		recordsByEmployee[record.EmployeeID] = append(recordsByEmployee[record.EmployeeID], record)
	}

	lines := make([]EmployeeRollupLine, len(employeeIDs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.rollupWorkers)
	for i, employeeID := range employeeIDs {
		i, employeeID := i, employeeID
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			employee, ok := directory[employeeID]
			if !ok {
				employee = inventory.PlaceholderEmployee(employeeID)
			}
			lines[i] = EmployeeRollupLine{
				Employee: employee,
				Summary:  domainverification.Summarize(
					employeeID,
					len(assignedTags[employeeID]),
					domainverification.RecordsForAssets(recordsByEmployee[employeeID], assignedTags[employeeID]),
				),
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return CycleRollup{}, errs.Wrap(err, "summarize employees")
	}

	summaries := make([]domainverification.EmployeeComplianceSummary, 0, len(lines))
	for _, line := range lines {
		summaries = append(summaries, line.Summary)
	}

	rollup := CycleRollup{
		RollupTotals: domainverification.Rollup(summaries, domainverification.CountSubmitters(records)),
		Employees:    lines,
	}
	if found {
		rollup.Cycle = &cycle
	}
	return rollup, nil
}

// ListActionItems returns every unresolved effective record of the resolved cycle.
// Assets or employees missing from the snapshots render as placeholders.
func (s *Service) ListActionItems(ctx context.Context, cycleID uint64) ([]ActionItem, error) {
	if err := s.checkReady(ctx); err != nil {
		return nil, err
	}

	cycle, found, err := s.resolveCycle(ctx, cycleID)
	if err != nil || !found {
		return nil, err
	}
	records, err := s.records.ListCycleRecords(ctx, cycle.ID)
	if err != nil {
		return nil, err
	}
	assets, err := s.assets.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	directory, err := s.employeeDirectory(ctx)
	if err != nil {
		return nil, err
	}

	byTag := make(map[string]inventory.Asset, len(assets))
	for _, asset := range assets {
		byTag[asset.Tag] = asset
	}

	items := make([]ActionItem, 0)
	for _, record := range domainverification.LatestPerAsset(records) {
		if record.Status != domainverification.StatusPending && record.Status != domainverification.StatusFlagged {
			continue
		}
		asset, ok := byTag[record.AssetID]
		if !ok {
			asset = inventory.PlaceholderAsset(record.AssetID)
		}
		employee, ok := directory[record.EmployeeID]
		if !ok {
			employee = inventory.PlaceholderEmployee(record.EmployeeID)
		}
		items = append(items, ActionItem{Record: record, Asset: asset, Employee: employee})
	}
	return items, nil
}

// CycleRecordCounts counts the effective records of the resolved cycle.
func (s *Service) CycleRecordCounts(ctx context.Context, cycleID uint64) (domainverification.RecordCounts, error) {
	if err := s.checkReady(ctx); err != nil {
		return domainverification.RecordCounts{}, err
	}

	cycle, found, err := s.resolveCycle(ctx, cycleID)
	if err != nil || !found {
		return domainverification.RecordCounts{}, err
	}
	records, err := s.records.ListCycleRecords(ctx, cycle.ID)
	if err != nil {
		return domainverification.RecordCounts{}, err
	}
	return domainverification.CountRecords(records), nil
}

func (s *Service) employeeDirectory(ctx context.Context) (map[string]inventory.Employee, error) {
	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	directory := make(map[string]inventory.Employee, len(employees))
	for _, employee := range employees {
		directory[employee.EmpID] = employee
	}
	return directory, nil
}
