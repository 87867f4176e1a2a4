package verification

// RecordCounts tallies effective records of one cycle by status.
type RecordCounts struct {
	Total    int
	Verified int
	Pending  int
	Flagged  int
}

func CountRecords(records []Record) RecordCounts {
	var counts RecordCounts
	for _, record := range LatestPerAsset(records) {
		counts.Total++
		switch record.Status {
		case StatusVerified:
			counts.Verified++
		case StatusPending:
			counts.Pending++
		case StatusFlagged:
			counts.Flagged++
		}
	}
	return counts
}

// RollupTotals are the cycle-wide counts over employee summaries.
type RollupTotals struct {
	TotalEmployees int
	Verified       int
	Discrepant     int
	Pending        int
	SubmittedCount int
}

// Rollup counts overall-status buckets. Summaries with nothing assigned are skipped;
// submittedCount is passed through from CountSubmitters.
func Rollup(summaries []EmployeeComplianceSummary, submittedCount int) RollupTotals {
	totals := RollupTotals{SubmittedCount: submittedCount}
	for _, summary := range summaries {
		if summary.TotalAssigned == 0 {
			continue
		}
		totals.TotalEmployees++
		switch summary.OverallStatus {
		case OverallVerified:
			totals.Verified++
		case OverallDiscrepant:
			totals.Discrepant++
		default:
			totals.Pending++
		}
	}
	return totals
}

// CountSubmitters returns the number of distinct employees with at least one record.
func CountSubmitters(records []Record) int {
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		seen[record.EmployeeID] = struct{}{}
	}
	return len(seen)
}
