// Package audit computes the per-section statistics of the cross-domain audit
// report and derives its ranked findings.
package audit

import (
	"sort"
	"time"

	"assetverify/internal/domain/inventory"
	"assetverify/internal/domain/metric"
)

// KeyCount is one bucket of a group-by breakdown.
type KeyCount struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// CountByKey groups values and returns the buckets sorted by key. Blank keys are
// reported as "unknown".
func CountByKey(values []string) []KeyCount {
	counts := make(map[string]int, len(values))
	for _, value := range values {
		if value == "" {
			value = "unknown"
		}
		counts[value]++
	}

	out := make([]KeyCount, 0, len(counts))
	for key, count := range counts {
		out = append(out, KeyCount{Key: key, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

type AssetStats struct {
	Total            int        `json:"total" yaml:"total"`
	ByStatus         []KeyCount `json:"by_status" yaml:"by_status"`
	ByType           []KeyCount `json:"by_type" yaml:"by_type"`
	Assigned         int        `json:"assigned" yaml:"assigned"`
	Unassigned       int        `json:"unassigned" yaml:"unassigned"`
	WarrantyExpired  int        `json:"warranty_expired" yaml:"warranty_expired"`
	WarrantyExpiring int        `json:"warranty_expiring" yaml:"warranty_expiring"`
}

// ComputeAssetStats counts warranties as expired when expiry < now and as
// expiring when now <= expiry < now+window.
func ComputeAssetStats(assets []inventory.Asset, now time.Time, window time.Duration) AssetStats {
	stats := AssetStats{Total: len(assets)}
	statuses := make([]string, 0, len(assets))
	types := make([]string, 0, len(assets))
	horizon := now.Add(window)

	for _, asset := range assets {
		statuses = append(statuses, asset.Status)
		types = append(types, asset.Type)
		if asset.IsAssigned() {
			stats.Assigned++
		} else {
			stats.Unassigned++
		}
		if asset.WarrantyExpiry == nil {
			continue
		}
		switch expiry := *asset.WarrantyExpiry; {
		case expiry.Before(now):
			stats.WarrantyExpired++
		case expiry.Before(horizon):
			stats.WarrantyExpiring++
		}
	}

	stats.ByStatus = CountByKey(statuses)
	stats.ByType = CountByKey(types)
	return stats
}

type SeatUtilization struct {
	Software    string `json:"software" yaml:"software"`
	Seats       int    `json:"seats" yaml:"seats"`
	Used        int    `json:"used" yaml:"used"`
	Utilization int    `json:"utilization" yaml:"utilization"`
}

type LicenseStats struct {
	Total       int               `json:"total" yaml:"total"`
	Active      int               `json:"active" yaml:"active"`
	Expired     int               `json:"expired" yaml:"expired"`
	Expiring    int               `json:"expiring" yaml:"expiring"`
	Utilization []SeatUtilization `json:"utilization" yaml:"utilization"`
}

// ComputeLicenseStats treats a license without an expiry date as active. Expiring
// is the subset of active licenses ending within window.
func ComputeLicenseStats(licenses []inventory.License, now time.Time, window time.Duration) LicenseStats {
	stats := LicenseStats{Total: len(licenses), Utilization: make([]SeatUtilization, 0, len(licenses))}
	horizon := now.Add(window)

	for _, license := range licenses {
		switch {
		case license.ExpiryDate != nil && license.ExpiryDate.Before(now):
			stats.Expired++
		default:
			stats.Active++
			if license.ExpiryDate != nil && license.ExpiryDate.Before(horizon) {
				stats.Expiring++
			}
		}
		stats.Utilization = append(stats.Utilization, SeatUtilization{
			Software:    license.SoftwareName,
			Seats:       license.SeatsLimit,
			Used:        license.UsedSeats,
			Utilization: metric.Percent(license.UsedSeats, license.SeatsLimit),
		})
	}

	sort.SliceStable(stats.Utilization, func(i, j int) bool {
		return stats.Utilization[i].Software < stats.Utilization[j].Software
	})
	return stats
}

type WorkspaceStats struct {
	TotalDesks  int `json:"total_desks" yaml:"total_desks"`
	Occupied    int `json:"occupied" yaml:"occupied"`
	Available   int `json:"available" yaml:"available"`
	Utilization int `json:"utilization" yaml:"utilization"`
}

func ComputeWorkspaceStats(desks []inventory.Desk) WorkspaceStats {
	stats := WorkspaceStats{TotalDesks: len(desks)}
	for _, desk := range desks {
		switch desk.Status {
		case inventory.DeskOccupied:
			stats.Occupied++
		case inventory.DeskAvailable:
			stats.Available++
		}
	}
	stats.Utilization = metric.Percent(stats.Occupied, stats.TotalDesks)
	return stats
}

// VerificationStats is the slice of the verification section the findings rules read.
type VerificationStats struct {
	DiscrepantEmployees int
	PendingItems        int
}
