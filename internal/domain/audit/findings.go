package audit

import (
	"fmt"
	"sort"
	"time"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

type Area string

const (
	AreaAssets       Area = "Assets"
	AreaVerification Area = "Verification"
	AreaLicenses     Area = "Licenses"
	AreaWorkspace    Area = "Workspace"
)

type Finding struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Area     Area     `json:"area" yaml:"area"`
	Message  string   `json:"message" yaml:"message"`
}

type Thresholds struct {
	ExpiringWindow  time.Duration
	UtilizationHigh int
	UtilizationLow  int
	PendingBacklog  int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ExpiringWindow:  30 * 24 * time.Hour,
		UtilizationHigh: 90,
		UtilizationLow:  30,
		PendingBacklog:  10,
	}
}

// WindowDays is the expiring window rendered in whole days for messages.
func (t Thresholds) WindowDays() int {
	return int(t.ExpiringWindow / (24 * time.Hour))
}

// FindingInput carries the section stats; a nil section failed to compile and
// contributes no findings.
type FindingInput struct {
	Assets       *AssetStats
	Licenses     *LicenseStats
	Workspace    *WorkspaceStats
	Verification *VerificationStats
}

// Findings applies the rules and orders the result high -> medium -> low, then by
// area name. Rules emit in a fixed order and the sort is stable, so equal keys keep
// rule order.
func Findings(input FindingInput, thresholds Thresholds) []Finding {
	findings := make([]Finding, 0, 8)
	add := func(severity Severity, area Area, format string, args ...any) {
		findings = append(findings, Finding{Severity: severity, Area: area, Message: fmt.Sprintf(format, args...)})
	}
	days := thresholds.WindowDays()

	if assets := input.Assets; assets != nil {
		if assets.WarrantyExpired > 0 {
			add(SeverityHigh, AreaAssets, "%d assets have expired warranties", assets.WarrantyExpired)
		}
		if assets.WarrantyExpiring > 0 {
			add(SeverityMedium, AreaAssets, "%d assets have warranties expiring within %d days", assets.WarrantyExpiring, days)
		}
	}

	if licenses := input.Licenses; licenses != nil {
		if licenses.Expired > 0 {
			add(SeverityHigh, AreaLicenses, "%d licenses have expired", licenses.Expired)
		}
		if licenses.Expiring > 0 {
			add(SeverityMedium, AreaLicenses, "%d licenses expire within %d days", licenses.Expiring, days)
		}
	}

	if verification := input.Verification; verification != nil {
		if verification.DiscrepantEmployees > 0 {
			add(SeverityMedium, AreaVerification, "%d employees have discrepant verification results", verification.DiscrepantEmployees)
		}
		if verification.PendingItems > thresholds.PendingBacklog {
			add(SeverityLow, AreaVerification, "%d verification items are pending follow-up", verification.PendingItems)
		}
	}

	if workspace := input.Workspace; workspace != nil && workspace.TotalDesks > 0 {
		switch {
		case workspace.Utilization > thresholds.UtilizationHigh:
			add(SeverityLow, AreaWorkspace, "Workspace utilization is %d%% (above %d%%)", workspace.Utilization, thresholds.UtilizationHigh)
		case workspace.Utilization < thresholds.UtilizationLow:
			add(SeverityLow, AreaWorkspace, "Workspace utilization is %d%% (below %d%%)", workspace.Utilization, thresholds.UtilizationLow)
		}
	}

	SortFindings(findings)
	return findings
}

func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if ri, rj := findings[i].Severity.rank(), findings[j].Severity.rank(); ri != rj {
			return ri < rj
		}
		return findings[i].Area < findings[j].Area
	})
}
