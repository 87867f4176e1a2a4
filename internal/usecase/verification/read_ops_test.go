package verification

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"assetverify/internal/domain/inventory"
	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/errs"
)

func TestVerificationSummaryScenarios(t *testing.T) {
	env := setupService(t)
	seedSnapshot(t, env)
	ctx := context.Background()
	cycleID := startCycle(t, env, "Q4")

	submit := func(employeeID, assetID, entered string) {
		t.Helper()
		if _, err := env.svc.SubmitVerification(ctx, SubmitInput{CycleID: cycleID, EmployeeID: employeeID, AssetID: assetID, EnteredAssetID: entered}); err != nil {
			t.Fatalf("SubmitVerification(%s, %s) error = %v", employeeID, assetID, err)
		}
	}
	submit("E001", "LAP-001", "LAP-001")
	submit("E001", "MON-001", "mon-001")
	submit("E001", "PHN-001", "PHN-001")
	submit("E002", "LAP-002", "LAP-002")
	submit("E002", "MON-002", "__LOST__")

	rollup, err := env.svc.GetVerificationSummary(ctx, 0)
	if err != nil {
		t.Fatalf("GetVerificationSummary() error = %v", err)
	}
	if rollup.Cycle == nil || rollup.Cycle.ID != cycleID {
		t.Fatalf("rollup cycle = %+v", rollup.Cycle)
	}

	want := domainverification.RollupTotals{TotalEmployees: 3, Verified: 1, Discrepant: 1, Pending: 1, SubmittedCount: 2}
	if diff := cmp.Diff(want, rollup.RollupTotals); diff != "" {
		t.Fatalf("rollup totals mismatch (-want +got):\n%s", diff)
	}

	byID := make(map[string]EmployeeRollupLine, len(rollup.Employees))
	for _, line := range rollup.Employees {
		byID[line.Summary.EmployeeID] = line
	}

	ada := byID["E001"].Summary
	if ada.OverallStatus != domainverification.OverallVerified || ada.Compliance != 100 {
		t.Fatalf("E001 summary = %+v", ada)
	}
	grace := byID["E002"].Summary
	if grace.Matched != 1 || grace.Flagged != 1 || grace.OverallStatus != domainverification.OverallDiscrepant || grace.Compliance != 50 {
		t.Fatalf("E002 summary = %+v", grace)
	}
	unknown := byID["E404"]
	if unknown.Employee.FullName != inventory.UnknownEmployeeName || unknown.Summary.OverallStatus != domainverification.OverallPending {
		t.Fatalf("E404 line = %+v", unknown)
	}
	if _, ok := byID["E003"]; ok {
		t.Fatalf("employee without assets included in rollup")
	}
	if rollup.Employees[0].Summary.EmployeeID != "E001" || rollup.Employees[2].Summary.EmployeeID != "E404" {
		t.Fatalf("rollup not sorted by employee id: %+v", rollup.Employees)
	}

	again, err := env.svc.GetVerificationSummary(ctx, 0)
	if err != nil {
		t.Fatalf("GetVerificationSummary(again) error = %v", err)
	}
	if diff := cmp.Diff(rollup, again); diff != "" {
		t.Fatalf("summary not idempotent (-first +second):\n%s", diff)
	}

	items, err := env.svc.ListActionItems(ctx, 0)
	if err != nil {
		t.Fatalf("ListActionItems() error = %v", err)
	}
	if len(items) != 1 || items[0].Record.AssetID != "MON-002" || items[0].Employee.FullName != "Grace Hopper" || items[0].Asset.Name != "LG 27UL" {
		t.Fatalf("ListActionItems() = %+v", items)
	}

	counts, err := env.svc.CycleRecordCounts(ctx, 0)
	if err != nil {
		t.Fatalf("CycleRecordCounts() error = %v", err)
	}
	if counts != (domainverification.RecordCounts{Total: 5, Verified: 4, Flagged: 1}) {
		t.Fatalf("CycleRecordCounts() = %+v", counts)
	}
}

func TestVerificationSummaryWithoutCycles(t *testing.T) {
	env := setupService(t)
	seedSnapshot(t, env)

	rollup, err := env.svc.GetVerificationSummary(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetVerificationSummary() error = %v", err)
	}
	if rollup.Cycle != nil {
		t.Fatalf("rollup cycle = %+v, want nil", rollup.Cycle)
	}
	if rollup.TotalEmployees != 3 || rollup.Pending != 3 || rollup.SubmittedCount != 0 {
		t.Fatalf("rollup totals = %+v", rollup.RollupTotals)
	}

	if _, err := env.svc.GetVerificationSummary(context.Background(), 77); !errs.IsKind(err, errs.KindNotFound) {
		t.Fatalf("GetVerificationSummary(missing) error = %v, want not found", err)
	}
}

func TestSummaryFallsBackToLatestClosedCycle(t *testing.T) {
	env := setupService(t)
	seedSnapshot(t, env)
	ctx := context.Background()
	cycleID := startCycle(t, env, "Q3")

	if _, err := env.svc.SubmitVerification(ctx, SubmitInput{CycleID: cycleID, EmployeeID: "E002", AssetID: "LAP-002", EnteredAssetID: "LAP-002"}); err != nil {
		t.Fatalf("SubmitVerification() error = %v", err)
	}
	if _, err := env.svc.CloseCycle(ctx, CloseCycleInput{CycleID: cycleID, ClosedBy: "admin"}); err != nil {
		t.Fatalf("CloseCycle() error = %v", err)
	}

	rollup, err := env.svc.GetVerificationSummary(ctx, 0)
	if err != nil {
		t.Fatalf("GetVerificationSummary() error = %v", err)
	}
	if rollup.Cycle == nil || rollup.Cycle.ID != cycleID || rollup.SubmittedCount != 1 {
		t.Fatalf("rollup = %+v", rollup)
	}
}

func TestEmployeeDetailLookups(t *testing.T) {
	env := setupService(t)
	seedSnapshot(t, env)
	ctx := context.Background()

	if _, err := env.svc.GetEmployeeVerificationDetail(ctx, "E999", 0); !errs.IsKind(err, errs.KindNotFound) {
		t.Fatalf("detail(unknown) error = %v, want not found", err)
	}

	detail, err := env.svc.GetEmployeeVerificationDetail(ctx, "E404", 0)
	if err != nil {
		t.Fatalf("detail(placeholder) error = %v", err)
	}
	if detail.Employee.FullName != inventory.UnknownEmployeeName || detail.Cycle != nil || len(detail.Assets) != 1 {
		t.Fatalf("detail(placeholder) = %+v", detail)
	}
	if detail.Assets[0].Record.Status != domainverification.StatusPending || detail.Assets[0].Record.Submitted() {
		t.Fatalf("unsubmitted line = %+v", detail.Assets[0].Record)
	}

	noAssets, err := env.svc.GetEmployeeVerificationDetail(ctx, "E003", 0)
	if err != nil {
		t.Fatalf("detail(no assets) error = %v", err)
	}
	if noAssets.Summary.OverallStatus != domainverification.OverallPending || noAssets.Summary.Compliance != 0 {
		t.Fatalf("detail(no assets) summary = %+v", noAssets.Summary)
	}
}

func TestEmployeeSessionsAcrossCycles(t *testing.T) {
	env := setupService(t)
	seedSnapshot(t, env)
	ctx := context.Background()

	first := startCycle(t, env, "Q3")
	if _, err := env.svc.SubmitVerification(ctx, SubmitInput{CycleID: first, EmployeeID: "E002", AssetID: "LAP-002", EnteredAssetID: "LAP-999"}); err != nil {
		t.Fatalf("SubmitVerification(Q3) error = %v", err)
	}
	if _, err := env.svc.CloseCycle(ctx, CloseCycleInput{CycleID: first, ClosedBy: "admin"}); err != nil {
		t.Fatalf("CloseCycle() error = %v", err)
	}
	second := startCycle(t, env, "Q4")
	if _, err := env.svc.SubmitBatch(ctx, SubmitBatchInput{CycleID: second, EmployeeID: "E002", Entries: []SubmitEntry{
		{AssetID: "LAP-002", EnteredAssetID: "LAP-002"},
		{AssetID: "MON-002", EnteredAssetID: "MON-002"},
	}}); err != nil {
		t.Fatalf("SubmitBatch(Q4) error = %v", err)
	}

	detail, err := env.svc.GetEmployeeVerificationDetail(ctx, "E002", 0)
	if err != nil {
		t.Fatalf("detail error = %v", err)
	}
	if detail.Cycle == nil || detail.Cycle.ID != second || detail.Summary.OverallStatus != domainverification.OverallVerified {
		t.Fatalf("detail = %+v", detail)
	}
	want := []domainverification.Session{
		{CycleID: second, Total: 2, Verified: 2},
		{CycleID: first, Total: 1, Discrepant: 1},
	}
	if diff := cmp.Diff(want, detail.Sessions, cmpopts.IgnoreFields(domainverification.Session{}, "SubmittedAt")); diff != "" {
		t.Fatalf("sessions mismatch (-want +got):\n%s", diff)
	}

	old, err := env.svc.GetEmployeeVerificationDetail(ctx, "E002", first)
	if err != nil {
		t.Fatalf("detail(first) error = %v", err)
	}
	if old.Summary.Mismatched != 1 || old.Summary.OverallStatus != domainverification.OverallDiscrepant {
		t.Fatalf("detail(first) summary = %+v", old.Summary)
	}
}

func TestReassignedAssetRecordsDoNotCountForFormerHolder(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	initial := inventory.Snapshot{
		Assets: []inventory.Asset{
			{Tag: "LAP-001", Name: "ThinkPad X1", Type: "Laptop", AssignedEmployeeID: "E001", Status: "in_use"},
		},
		Employees: []inventory.Employee{
			{EmpID: "E001", FullName: "Ada Lovelace", IsActive: true},
			{EmpID: "E002", FullName: "Grace Hopper", IsActive: true},
		},
	}
	if err := env.inventory.ReplaceSnapshot(ctx, initial); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	cycleID := startCycle(t, env, "Q4")
	if _, err := env.svc.SubmitVerification(ctx, SubmitInput{CycleID: cycleID, EmployeeID: "E001", AssetID: "LAP-001", EnteredAssetID: "LAP-001"}); err != nil {
		t.Fatalf("SubmitVerification() error = %v", err)
	}

	reassigned := inventory.Snapshot{
		Assets: []inventory.Asset{
			{Tag: "LAP-001", Name: "ThinkPad X1", Type: "Laptop", AssignedEmployeeID: "E002", Status: "in_use"},
			{Tag: "MON-001", Name: "Dell U2723", Type: "Monitor", AssignedEmployeeID: "E001", Status: "in_use"},
		},
		Employees: initial.Employees,
	}
	if err := env.inventory.ReplaceSnapshot(ctx, reassigned); err != nil {
		t.Fatalf("reassign snapshot: %v", err)
	}

	detail, err := env.svc.GetEmployeeVerificationDetail(ctx, "E001", cycleID)
	if err != nil {
		t.Fatalf("GetEmployeeVerificationDetail() error = %v", err)
	}
	if len(detail.Assets) != 1 || detail.Assets[0].Asset.Tag != "MON-001" || detail.Assets[0].Record.Submitted() {
		t.Fatalf("detail assets = %+v", detail.Assets)
	}
	want := domainverification.EmployeeComplianceSummary{
		EmployeeID:    "E001",
		TotalAssigned: 1,
		OverallStatus: domainverification.OverallPending,
	}
	if diff := cmp.Diff(want, detail.Summary); diff != "" {
		t.Fatalf("detail summary mismatch (-want +got):\n%s", diff)
	}

	rollup, err := env.svc.GetVerificationSummary(ctx, cycleID)
	if err != nil {
		t.Fatalf("GetVerificationSummary() error = %v", err)
	}
	if rollup.Verified != 0 || rollup.Pending != 2 {
		t.Fatalf("rollup totals = %+v, want both employees pending", rollup.RollupTotals)
	}
	for _, line := range rollup.Employees {
		if line.Summary.Matched != 0 || line.Summary.Compliance != 0 {
			t.Fatalf("rollup line %s = %+v", line.Summary.EmployeeID, line.Summary)
		}
	}
}
