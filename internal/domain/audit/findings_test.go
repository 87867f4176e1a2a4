package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetverify/internal/domain/inventory"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestExpiredWarrantyRaisesHighAssetFinding(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	assets := []inventory.Asset{
		{Tag: "LAP-1", Type: "Laptop", Status: "in_use", AssignedEmployeeID: "E1", WarrantyExpiry: day(2026, 1, 1)},
		{Tag: "MON-1", Type: "Monitor", Status: "in_stock"},
	}

	stats := ComputeAssetStats(assets, now, DefaultThresholds().ExpiringWindow)
	findings := Findings(FindingInput{Assets: &stats}, DefaultThresholds())

	require.NotEmpty(t, findings)
	assert.Equal(t, Finding{Severity: SeverityHigh, Area: AreaAssets, Message: "1 assets have expired warranties"}, findings[0])
}

func TestComputeAssetStats(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	window := 30 * 24 * time.Hour
	assets := []inventory.Asset{
		{Tag: "A", Type: "Laptop", Status: "in_use", AssignedEmployeeID: "E1", WarrantyExpiry: day(2026, 10, 1)},
		{Tag: "B", Type: "Laptop", Status: "in_use", AssignedEmployeeID: "E2", WarrantyExpiry: &now},
		{Tag: "C", Type: "Monitor", Status: "repair", WarrantyExpiry: day(2026, 11, 10)},
		{Tag: "D", Type: "Monitor", Status: "", WarrantyExpiry: day(2027, 1, 1)},
		{Tag: "E", Type: "Phone", Status: "in_use"},
	}

	stats := ComputeAssetStats(assets, now, window)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Assigned)
	assert.Equal(t, 3, stats.Unassigned)
	assert.Equal(t, 1, stats.WarrantyExpired)
	assert.Equal(t, 2, stats.WarrantyExpiring, "expiry == now counts as expiring")
	assert.Equal(t, []KeyCount{{Key: "in_use", Count: 3}, {Key: "repair", Count: 1}, {Key: "unknown", Count: 1}}, stats.ByStatus)
	assert.Equal(t, []KeyCount{{Key: "Laptop", Count: 2}, {Key: "Monitor", Count: 2}, {Key: "Phone", Count: 1}}, stats.ByType)
}

func TestComputeLicenseStats(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	licenses := []inventory.License{
		{SoftwareName: "Zoom", SeatsLimit: 10, UsedSeats: 10, ExpiryDate: day(2026, 11, 1)},
		{SoftwareName: "Adobe", SeatsLimit: 3, UsedSeats: 2, ExpiryDate: day(2026, 9, 1)},
		{SoftwareName: "Jira", SeatsLimit: 0, UsedSeats: 4},
	}

	stats := ComputeLicenseStats(licenses, now, 30*24*time.Hour)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, 1, stats.Expiring)
	assert.Equal(t, []SeatUtilization{
		{Software: "Adobe", Seats: 3, Used: 2, Utilization: 67},
		{Software: "Jira", Seats: 0, Used: 4, Utilization: 0},
		{Software: "Zoom", Seats: 10, Used: 10, Utilization: 100},
	}, stats.Utilization)
}

func TestComputeWorkspaceStats(t *testing.T) {
	desks := []inventory.Desk{
		{DeskID: "1", Status: inventory.DeskOccupied},
		{DeskID: "2", Status: inventory.DeskOccupied},
		{DeskID: "3", Status: inventory.DeskAvailable},
	}

	assert.Equal(t, WorkspaceStats{TotalDesks: 3, Occupied: 2, Available: 1, Utilization: 67}, ComputeWorkspaceStats(desks))
	assert.Equal(t, WorkspaceStats{}, ComputeWorkspaceStats(nil))
}

func TestFindingsOrdering(t *testing.T) {
	input := FindingInput{
		Assets:       &AssetStats{WarrantyExpired: 2, WarrantyExpiring: 1},
		Licenses:     &LicenseStats{Expired: 1, Expiring: 3},
		Workspace:    &WorkspaceStats{TotalDesks: 10, Occupied: 2, Utilization: 20},
		Verification: &VerificationStats{DiscrepantEmployees: 4, PendingItems: 11},
	}

	got := Findings(input, DefaultThresholds())

	assert.Equal(t, []Finding{
		{Severity: SeverityHigh, Area: AreaAssets, Message: "2 assets have expired warranties"},
		{Severity: SeverityHigh, Area: AreaLicenses, Message: "1 licenses have expired"},
		{Severity: SeverityMedium, Area: AreaAssets, Message: "1 assets have warranties expiring within 30 days"},
		{Severity: SeverityMedium, Area: AreaLicenses, Message: "3 licenses expire within 30 days"},
		{Severity: SeverityMedium, Area: AreaVerification, Message: "4 employees have discrepant verification results"},
		{Severity: SeverityLow, Area: AreaVerification, Message: "11 verification items are pending follow-up"},
		{Severity: SeverityLow, Area: AreaWorkspace, Message: "Workspace utilization is 20% (below 30%)"},
	}, got)
}

func TestFindingsThresholdEdges(t *testing.T) {
	thresholds := DefaultThresholds()

	atBacklog := Findings(FindingInput{Verification: &VerificationStats{PendingItems: 10}}, thresholds)
	assert.Empty(t, atBacklog, "backlog equal to threshold is not a finding")

	inBand := Findings(FindingInput{Workspace: &WorkspaceStats{TotalDesks: 10, Occupied: 9, Utilization: 90}}, thresholds)
	assert.Empty(t, inBand)

	high := Findings(FindingInput{Workspace: &WorkspaceStats{TotalDesks: 100, Occupied: 91, Utilization: 91}}, thresholds)
	require.Len(t, high, 1)
	assert.Equal(t, "Workspace utilization is 91% (above 90%)", high[0].Message)

	noDesks := Findings(FindingInput{Workspace: &WorkspaceStats{}}, thresholds)
	assert.Empty(t, noDesks, "empty workspace is not under-utilized")
}

func TestFindingsSkipFailedSections(t *testing.T) {
	got := Findings(FindingInput{Licenses: &LicenseStats{Expired: 1}}, DefaultThresholds())
	assert.Equal(t, []Finding{{Severity: SeverityHigh, Area: AreaLicenses, Message: "1 licenses have expired"}}, got)
}

func TestFindingsDeterministic(t *testing.T) {
	input := FindingInput{
		Assets:       &AssetStats{WarrantyExpired: 1},
		Verification: &VerificationStats{DiscrepantEmployees: 1, PendingItems: 30},
	}
	assert.Equal(t, Findings(input, DefaultThresholds()), Findings(input, DefaultThresholds()))
}
