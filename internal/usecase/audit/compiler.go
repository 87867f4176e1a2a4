// Package audit compiles the cross-domain audit report from the inventory
// snapshots and the verification roll-up.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"assetverify/internal/bootstrap/logging"
	domainaudit "assetverify/internal/domain/audit"
	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/errs"
	"assetverify/internal/ports"
	"assetverify/internal/usecase/verification"
)

const cacheLastReportKey = "audit:last"

// VerificationSource is the slice of the verification service the report reads.
type VerificationSource interface {
	GetVerificationSummary(ctx context.Context, cycleID uint64) (verification.CycleRollup, error)
	ListActionItems(ctx context.Context, cycleID uint64) ([]verification.ActionItem, error)
	CycleRecordCounts(ctx context.Context, cycleID uint64) (domainverification.RecordCounts, error)
}

type Deps struct {
	Assets       ports.AssetReader
	Licenses     ports.LicenseReader
	Workspace    ports.WorkspaceReader
	Verification VerificationSource
	Cache        ports.Cache
}

type Compiler struct {
	assets       ports.AssetReader
	licenses     ports.LicenseReader
	workspace    ports.WorkspaceReader
	verification VerificationSource
	cache        ports.Cache
	thresholds   domainaudit.Thresholds
	now          func() time.Time
	newID        func() string
}

type Option func(*Compiler)

func WithThresholds(thresholds domainaudit.Thresholds) Option {
	return func(c *Compiler) {
		c.thresholds = thresholds
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Compiler) {
		if now != nil {
			c.now = now
		}
	}
}

func NewCompiler(deps Deps, opts ...Option) *Compiler {
	c := &Compiler{
		assets:       deps.Assets,
		licenses:     deps.Licenses,
		workspace:    deps.Workspace,
		verification: deps.Verification,
		cache:        deps.Cache,
		thresholds:   domainaudit.DefaultThresholds(),
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile builds the report. Source failures degrade their own section only, so
// Compile fails only on a missing or cancelled context.
func (c *Compiler) Compile(ctx context.Context) (Report, error) {
	if ctx == nil {
		return Report{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Report{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "audit.compiler"))
	now := c.now().UTC()
	report := Report{
		ReportID:    c.newID(),
		GeneratedAt: now,
	}
	var input domainaudit.FindingInput

	if stats, err := c.assetStats(ctx, now); err != nil {
		report.Assets.Error = sectionError(logCtx, "assets", err)
	} else {
		report.Assets.AssetStats = stats
		input.Assets = &stats
	}

	if section, stats, err := c.verificationSection(ctx); err != nil {
		report.Verification.Error = sectionError(logCtx, "verification", err)
	} else {
		report.Verification = section
		input.Verification = &stats
	}

	if stats, err := c.licenseStats(ctx, now); err != nil {
		report.Licenses.Error = sectionError(logCtx, "licenses", err)
	} else {
		report.Licenses.LicenseStats = stats
		input.Licenses = &stats
	}

	if stats, err := c.workspaceStats(ctx); err != nil {
		report.Workspace.Error = sectionError(logCtx, "workspace", err)
	} else {
		report.Workspace.WorkspaceStats = stats
		input.Workspace = &stats
	}

	report.Findings = domainaudit.Findings(input, c.thresholds)
	c.storeBestEffort(logCtx, report)

	logging.Info(logCtx, "audit report compiled",
		slog.String("report_id", report.ReportID),
		slog.Int("findings", len(report.Findings)),
	)
	return report, nil
}

// LastReport returns the most recently compiled report, if the cache still holds it.
func (c *Compiler) LastReport(ctx context.Context) (Report, bool, error) {
	if c.cache == nil {
		return Report{}, false, nil
	}
	raw, found, err := c.cache.Get(ctx, cacheLastReportKey)
	if err != nil || !found {
		return Report{}, false, err
	}

	var report Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return Report{}, false, errs.Wrap(err, "decode cached audit report")
	}
	return report, true, nil
}

func (c *Compiler) assetStats(ctx context.Context, now time.Time) (domainaudit.AssetStats, error) {
	if c.assets == nil {
		return domainaudit.AssetStats{}, errors.New("asset reader is not configured")
	}
	assets, err := c.assets.ListAssets(ctx)
	if err != nil {
		return domainaudit.AssetStats{}, err
	}
	return domainaudit.ComputeAssetStats(assets, now, c.thresholds.ExpiringWindow), nil
}

func (c *Compiler) licenseStats(ctx context.Context, now time.Time) (domainaudit.LicenseStats, error) {
	if c.licenses == nil {
		return domainaudit.LicenseStats{}, errors.New("license reader is not configured")
	}
	licenses, err := c.licenses.ListLicenses(ctx)
	if err != nil {
		return domainaudit.LicenseStats{}, err
	}
	return domainaudit.ComputeLicenseStats(licenses, now, c.thresholds.ExpiringWindow), nil
}

func (c *Compiler) workspaceStats(ctx context.Context) (domainaudit.WorkspaceStats, error) {
	if c.workspace == nil {
		return domainaudit.WorkspaceStats{}, errors.New("workspace reader is not configured")
	}
	desks, err := c.workspace.ListDesks(ctx)
	if err != nil {
		return domainaudit.WorkspaceStats{}, err
	}
	return domainaudit.ComputeWorkspaceStats(desks), nil
}

func (c *Compiler) verificationSection(ctx context.Context) (VerificationSection, domainaudit.VerificationStats, error) {
	if c.verification == nil {
		return VerificationSection{}, domainaudit.VerificationStats{}, errors.New("verification source is not configured")
	}

	rollup, err := c.verification.GetVerificationSummary(ctx, 0)
	if err != nil {
		return VerificationSection{}, domainaudit.VerificationStats{}, err
	}
	// The roll-up resolves the cycle once; counts and items read that same cycle.
	var (
		counts domainverification.RecordCounts
		items  []verification.ActionItem
	)
	if rollup.Cycle != nil {
		counts, err = c.verification.CycleRecordCounts(ctx, rollup.Cycle.ID)
		if err != nil {
			return VerificationSection{}, domainaudit.VerificationStats{}, err
		}
		items, err = c.verification.ListActionItems(ctx, rollup.Cycle.ID)
		if err != nil {
			return VerificationSection{}, domainaudit.VerificationStats{}, err
		}
	}

	section := VerificationSection{
		TotalRecords:   counts.Total,
		Verified:       counts.Verified,
		Pending:        counts.Pending,
		Flagged:        counts.Flagged,
		TotalEmployees: rollup.TotalEmployees,
		Discrepant:     rollup.Discrepant,
		SubmittedCount: rollup.SubmittedCount,
		Compliance:     make([]ComplianceRow, 0, len(rollup.Employees)),
		ActionItems:    make([]ActionItemRow, 0, len(items)),
	}
	if cycle := rollup.Cycle; cycle != nil {
		section.Cycle = &CycleSummary{
			ID:        cycle.ID,
			Title:     cycle.Title,
			Status:    string(cycle.Status),
			StartDate: cycle.StartDate,
			EndDate:   cycle.EndDate,
		}
	}
	for _, line := range rollup.Employees {
		section.Compliance = append(section.Compliance, ComplianceRow{
			EmployeeID:    line.Summary.EmployeeID,
			EmployeeName:  line.Employee.FullName,
			Department:    line.Employee.Department,
			TotalAssigned: line.Summary.TotalAssigned,
			Submitted:     line.Summary.TotalVerified,
			Matched:       line.Summary.Matched,
			Mismatched:    line.Summary.Mismatched,
			Flagged:       line.Summary.Flagged,
			OverallStatus: string(line.Summary.OverallStatus),
			Compliance:    line.Summary.Compliance,
		})
	}
	for _, item := range items {
		section.ActionItems = append(section.ActionItems, ActionItemRow{
			EmployeeID:       item.Record.EmployeeID,
			EmployeeName:     item.Employee.FullName,
			Department:       item.Employee.Department,
			AssetID:          item.Record.AssetID,
			AssetName:        item.Asset.Name,
			AssetType:        item.Asset.Type,
			EnteredAssetID:   item.Record.EnteredAssetID,
			Status:           string(item.Record.Status),
			Notes:            item.Record.Notes,
			VerificationDate: item.Record.VerificationDate,
		})
	}

	stats := domainaudit.VerificationStats{
		DiscrepantEmployees: rollup.Discrepant,
		PendingItems:        len(items),
	}
	return section, stats, nil
}

func (c *Compiler) storeBestEffort(ctx context.Context, report Report) {
	if c.cache == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err == nil {
		err = c.cache.Set(ctx, cacheLastReportKey, string(payload), 0)
	}
	if err != nil {
		logging.Warn(ctx, "cache audit report failed", slog.Any("err", errs.Loggable(err)))
	}
}

func sectionError(ctx context.Context, section string, err error) string {
	logging.Warn(ctx, "audit section degraded",
		slog.String("section", section),
		slog.Any("err", errs.Loggable(err)),
	)
	return err.Error()
}
