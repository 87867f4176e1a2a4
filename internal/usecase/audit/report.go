package audit

import (
	"time"

	domainaudit "assetverify/internal/domain/audit"
)

// Report is one point-in-time audit. A section whose source failed carries Error
// and zero stats; the other sections are unaffected.
type Report struct {
	ReportID     string                `json:"report_id" yaml:"report_id"`
	GeneratedAt  time.Time             `json:"generated_at" yaml:"generated_at"`
	Assets       AssetsSection         `json:"assets" yaml:"assets"`
	Verification VerificationSection   `json:"verification" yaml:"verification"`
	Licenses     LicensesSection       `json:"licenses" yaml:"licenses"`
	Workspace    WorkspaceSection      `json:"workspace" yaml:"workspace"`
	Findings     []domainaudit.Finding `json:"findings" yaml:"findings"`
}

type AssetsSection struct {
	Error                  string `json:"error,omitempty" yaml:"error,omitempty"`
	domainaudit.AssetStats `yaml:",inline"`
}

type LicensesSection struct {
	Error                    string `json:"error,omitempty" yaml:"error,omitempty"`
	domainaudit.LicenseStats `yaml:",inline"`
}

type WorkspaceSection struct {
	Error                      string `json:"error,omitempty" yaml:"error,omitempty"`
	domainaudit.WorkspaceStats `yaml:",inline"`
}

type VerificationSection struct {
	Error          string          `json:"error,omitempty" yaml:"error,omitempty"`
	Cycle          *CycleSummary   `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	TotalRecords   int             `json:"total_records" yaml:"total_records"`
	Verified       int             `json:"verified" yaml:"verified"`
	Pending        int             `json:"pending" yaml:"pending"`
	Flagged        int             `json:"flagged" yaml:"flagged"`
	TotalEmployees int             `json:"total_employees" yaml:"total_employees"`
	Discrepant     int             `json:"discrepant_employees" yaml:"discrepant_employees"`
	SubmittedCount int             `json:"submitted_count" yaml:"submitted_count"`
	Compliance     []ComplianceRow `json:"compliance" yaml:"compliance"`
	ActionItems    []ActionItemRow `json:"action_items" yaml:"action_items"`
}

type CycleSummary struct {
	ID        uint64     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Status    string     `json:"status" yaml:"status"`
	StartDate time.Time  `json:"start_date" yaml:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" yaml:"end_date,omitempty"`
}

type ComplianceRow struct {
	EmployeeID    string `json:"employee_id" yaml:"employee_id"`
	EmployeeName  string `json:"employee_name" yaml:"employee_name"`
	Department    string `json:"department" yaml:"department"`
	TotalAssigned int    `json:"total_assigned" yaml:"total_assigned"`
	Submitted     int    `json:"submitted" yaml:"submitted"`
	Matched       int    `json:"matched" yaml:"matched"`
	Mismatched    int    `json:"mismatched" yaml:"mismatched"`
	Flagged       int    `json:"flagged" yaml:"flagged"`
	OverallStatus string `json:"overall_status" yaml:"overall_status"`
	Compliance    int    `json:"compliance" yaml:"compliance"`
}

type ActionItemRow struct {
	EmployeeID       string     `json:"employee_id" yaml:"employee_id"`
	EmployeeName     string     `json:"employee_name" yaml:"employee_name"`
	Department       string     `json:"department" yaml:"department"`
	AssetID          string     `json:"asset_id" yaml:"asset_id"`
	AssetName        string     `json:"asset_name" yaml:"asset_name"`
	AssetType        string     `json:"asset_type" yaml:"asset_type"`
	EnteredAssetID   string     `json:"entered_asset_id" yaml:"entered_asset_id"`
	Status           string     `json:"status" yaml:"status"`
	Notes            string     `json:"notes" yaml:"notes"`
	VerificationDate *time.Time `json:"verification_date,omitempty" yaml:"verification_date,omitempty"`
}
