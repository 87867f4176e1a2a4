package httpapi

import (
	"time"

	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/usecase/verification"
)

type startCycleRequest struct {
	Title     string `json:"title" validate:"required"`
	CreatedBy string `json:"created_by" validate:"required"`
	Notes     string `json:"notes"`
}

type closeCycleRequest struct {
	ClosedBy string `json:"closed_by" validate:"required"`
}

type submitEntryRequest struct {
	AssetID        string `json:"asset_id"`
	EnteredAssetID string `json:"entered_asset_id"`
	Notes          string `json:"notes"`
}

type submitRequest struct {
	EmployeeID string               `json:"employee_id" validate:"required"`
	Entries    []submitEntryRequest `json:"entries" validate:"required,min=1"`
}

type cycleDTO struct {
	ID        uint64     `json:"id"`
	Ref       string     `json:"ref"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Status    string     `json:"status"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedBy string     `json:"created_by"`
	ClosedBy  string     `json:"closed_by,omitempty"`
}

func toCycleDTO(cycle domainverification.Cycle) cycleDTO {
	return cycleDTO{
		ID:        cycle.ID,
		Ref:       cycle.Ref(),
		Title:     cycle.Title,
		Notes:     cycle.Notes,
		Status:    string(cycle.Status),
		StartDate: cycle.StartDate,
		EndDate:   cycle.EndDate,
		CreatedBy: cycle.CreatedBy,
		ClosedBy:  cycle.ClosedBy,
	}
}

func toCyclePtr(cycle *domainverification.Cycle) *cycleDTO {
	if cycle == nil {
		return nil
	}
	dto := toCycleDTO(*cycle)
	return &dto
}

type recordDTO struct {
	ID               uint64     `json:"id"`
	CycleID          uint64     `json:"cycle_id"`
	EmployeeID       string     `json:"employee_id"`
	AssetID          string     `json:"asset_id"`
	EnteredAssetID   string     `json:"entered_asset_id"`
	Status           string     `json:"status"`
	IsMatch          bool       `json:"is_match"`
	Notes            string     `json:"notes,omitempty"`
	VerificationDate *time.Time `json:"verification_date,omitempty"`
}

func toRecordDTO(record domainverification.Record) recordDTO {
	return recordDTO{
		ID:               record.ID,
		CycleID:          record.CycleID,
		EmployeeID:       record.EmployeeID,
		AssetID:          record.AssetID,
		EnteredAssetID:   record.EnteredAssetID,
		Status:           string(record.Status),
		IsMatch:          record.IsMatch,
		Notes:            record.Notes,
		VerificationDate: record.VerificationDate,
	}
}

type employeeDTO struct {
	EmpID      string `json:"emp_id"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
}

type complianceDTO struct {
	TotalAssigned int    `json:"total_assigned"`
	TotalVerified int    `json:"total_verified"`
	Matched       int    `json:"matched"`
	Mismatched    int    `json:"mismatched"`
	Flagged       int    `json:"flagged"`
	OverallStatus string `json:"overall_status"`
	Compliance    int    `json:"compliance"`
}

func toComplianceDTO(summary domainverification.EmployeeComplianceSummary) complianceDTO {
	return complianceDTO{
		TotalAssigned: summary.TotalAssigned,
		TotalVerified: summary.TotalVerified,
		Matched:       summary.Matched,
		Mismatched:    summary.Mismatched,
		Flagged:       summary.Flagged,
		OverallStatus: string(summary.OverallStatus),
		Compliance:    summary.Compliance,
	}
}

type assetLineDTO struct {
	AssetID string    `json:"asset_id"`
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Record  recordDTO `json:"record"`
}

type sessionDTO struct {
	CycleID     uint64    `json:"cycle_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Total       int       `json:"total"`
	Verified    int       `json:"verified"`
	Discrepant  int       `json:"discrepant"`
}

type employeeDetailDTO struct {
	Employee employeeDTO    `json:"employee"`
	Cycle    *cycleDTO      `json:"cycle,omitempty"`
	Summary  complianceDTO  `json:"summary"`
	Assets   []assetLineDTO `json:"assets"`
	Sessions []sessionDTO   `json:"sessions"`
}

func toEmployeeDetailDTO(detail verification.EmployeeDetail) employeeDetailDTO {
	out := employeeDetailDTO{
		Employee: employeeDTO{EmpID: detail.Employee.EmpID, FullName: detail.Employee.FullName, Department: detail.Employee.Department},
		Cycle:    toCyclePtr(detail.Cycle),
		Summary:  toComplianceDTO(detail.Summary),
		Assets:   make([]assetLineDTO, 0, len(detail.Assets)),
		Sessions: make([]sessionDTO, 0, len(detail.Sessions)),
	}
	for _, line := range detail.Assets {
		out.Assets = append(out.Assets, assetLineDTO{
			AssetID: line.Asset.Tag,
			Name:    line.Asset.Name,
			Type:    line.Asset.Type,
			Record:  toRecordDTO(line.Record),
		})
	}
	for _, session := range detail.Sessions {
		out.Sessions = append(out.Sessions, sessionDTO(session))
	}
	return out
}

type rollupLineDTO struct {
	Employee employeeDTO   `json:"employee"`
	Summary  complianceDTO `json:"summary"`
}

type summaryDTO struct {
	Cycle          *cycleDTO       `json:"cycle,omitempty"`
	TotalEmployees int             `json:"total_employees"`
	Verified       int             `json:"verified"`
	Discrepant     int             `json:"discrepant"`
	Pending        int             `json:"pending"`
	SubmittedCount int             `json:"submitted_count"`
	Employees      []rollupLineDTO `json:"employees"`
}

func toSummaryDTO(rollup verification.CycleRollup) summaryDTO {
	out := summaryDTO{
		Cycle:          toCyclePtr(rollup.Cycle),
		TotalEmployees: rollup.TotalEmployees,
		Verified:       rollup.Verified,
		Discrepant:     rollup.Discrepant,
		Pending:        rollup.Pending,
		SubmittedCount: rollup.SubmittedCount,
		Employees:      make([]rollupLineDTO, 0, len(rollup.Employees)),
	}
	for _, line := range rollup.Employees {
		out.Employees = append(out.Employees, rollupLineDTO{
			Employee: employeeDTO{EmpID: line.Employee.EmpID, FullName: line.Employee.FullName, Department: line.Employee.Department},
			Summary:  toComplianceDTO(line.Summary),
		})
	}
	return out
}
