package verification

import (
	"sort"
	"time"

	"assetverify/internal/domain/metric"
)

// OverallStatus is the employee-level roll-up of a cycle.
type OverallStatus string

const (
	OverallVerified   OverallStatus = "Verified"
	OverallDiscrepant OverallStatus = "Discrepant"
	OverallPending    OverallStatus = "Pending"
)

type EmployeeComplianceSummary struct {
	EmployeeID    string
	TotalAssigned int
	TotalVerified int
	Matched       int
	Mismatched    int
	Flagged       int
	OverallStatus OverallStatus
	Compliance    int
}

// LatestPerAsset keeps the newest record (highest ID) per (cycle, employee, asset) and
// returns them ordered by cycle, employee, then asset.
func LatestPerAsset(records []Record) []Record {
	type key struct {
		cycleID    uint64
		employeeID string
		assetID    string
	}

	latest := make(map[key]Record, len(records))
	for _, record := range records {
		k := key{cycleID: record.CycleID, employeeID: record.EmployeeID, assetID: record.AssetID}
		if current, ok := latest[k]; ok && current.ID >= record.ID {
			continue
		}
		latest[k] = record
	}

	out := make([]Record, 0, len(latest))
	for _, record := range latest {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CycleID != out[j].CycleID {
			return out[i].CycleID < out[j].CycleID
		}
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].AssetID < out[j].AssetID
	})
	return out
}

// RecordsForAssets keeps the records whose asset is in assetIDs. Records for assets
// reassigned away from the employee no longer count toward their summary.
func RecordsForAssets(records []Record, assetIDs []string) []Record {
	held := make(map[string]struct{}, len(assetIDs))
	for _, assetID := range assetIDs {
		held[assetID] = struct{}{}
	}
	out := make([]Record, 0, len(records))
	for _, record := range records {
		if _, ok := held[record.AssetID]; ok {
			out = append(out, record)
		}
	}
	return out
}

// Summarize rolls one employee's records for a single cycle into a compliance summary.
// totalAssigned counts assets currently assigned, independent of the cycle. Callers
// pass only records for currently assigned assets (see RecordsForAssets).
func Summarize(employeeID string, totalAssigned int, records []Record) EmployeeComplianceSummary {
	effective := LatestPerAsset(records)

	summary := EmployeeComplianceSummary{
		EmployeeID:    employeeID,
		TotalAssigned: totalAssigned,
		TotalVerified: len(effective),
	}
	for _, record := range effective {
		switch {
		case record.Status == StatusVerified:
			summary.Matched++
		case record.Status == StatusFlagged:
			summary.Flagged++
		case record.Status == StatusPending && !record.IsMatch:
			summary.Mismatched++
		}
	}

	summary.OverallStatus = DeriveOverallStatus(summary.Matched, totalAssigned, summary.Mismatched, summary.Flagged)
	summary.Compliance = metric.Percent(summary.Matched, totalAssigned)
	return summary
}

// DeriveOverallStatus: Verified iff every assigned asset matched; Discrepant when any
// submitted record mismatched or was flagged; Pending otherwise.
func DeriveOverallStatus(matched, totalAssigned, mismatched, flagged int) OverallStatus {
	if totalAssigned > 0 && matched == totalAssigned {
		return OverallVerified
	}
	if mismatched+flagged > 0 {
		return OverallDiscrepant
	}
	return OverallPending
}

// Session is one historical cycle for an employee.
type Session struct {
	CycleID     uint64
	SubmittedAt time.Time
	Total       int
	Verified    int
	Discrepant  int
}

// Sessions groups an employee's records across cycles, newest submission first.
func Sessions(records []Record) []Session {
	byCycle := make(map[uint64]*Session)
	for _, record := range LatestPerAsset(records) {
		session, ok := byCycle[record.CycleID]
		if !ok {
			session = &Session{CycleID: record.CycleID}
			byCycle[record.CycleID] = session
		}

		session.Total++
		if record.Status == StatusVerified {
			session.Verified++
		} else {
			session.Discrepant++
		}
		if record.VerificationDate != nil && record.VerificationDate.After(session.SubmittedAt) {
			session.SubmittedAt = *record.VerificationDate
		}
	}

	out := make([]Session, 0, len(byCycle))
	for _, session := range byCycle {
		out = append(out, *session)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].CycleID > out[j].CycleID
	})
	return out
}
