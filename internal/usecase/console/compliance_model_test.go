package console

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"assetverify/internal/domain/inventory"
	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/usecase/verification"
)

type fakeSource struct {
	rollup       verification.CycleRollup
	rollupErr    error
	detailCalls  []string
	detailCycles []uint64
}

func (f *fakeSource) GetVerificationSummary(context.Context, uint64) (verification.CycleRollup, error) {
	return f.rollup, f.rollupErr
}

func (f *fakeSource) GetEmployeeVerificationDetail(_ context.Context, employeeID string, cycleID uint64) (verification.EmployeeDetail, error) {
	f.detailCalls = append(f.detailCalls, employeeID)
	f.detailCycles = append(f.detailCycles, cycleID)
	return verification.EmployeeDetail{
		Employee: inventory.Employee{EmpID: employeeID, FullName: "Name " + employeeID},
		Assets: []verification.AssetLine{{
			Asset:  inventory.Asset{Tag: "LAP-" + employeeID, Name: "Laptop"},
			Record: domainverification.Record{Status: domainverification.StatusVerified, EnteredAssetID: "LAP-" + employeeID},
		}},
	}, nil
}

func line(id string, status domainverification.OverallStatus) verification.EmployeeRollupLine {
	return verification.EmployeeRollupLine{
		Employee: inventory.Employee{EmpID: id, FullName: "Name " + id},
		Summary:  domainverification.EmployeeComplianceSummary{EmployeeID: id, TotalAssigned: 2, OverallStatus: status},
	}
}

func newFixture() *fakeSource {
	return &fakeSource{rollup: verification.CycleRollup{
		Cycle:        &domainverification.Cycle{ID: 7, Title: "Q4", Status: domainverification.CycleActive},
		RollupTotals: domainverification.RollupTotals{TotalEmployees: 3, Verified: 1, Discrepant: 1, Pending: 1},
		Employees: []verification.EmployeeRollupLine{
			line("E001", domainverification.OverallVerified),
			line("E002", domainverification.OverallDiscrepant),
			line("E003", domainverification.OverallPending),
		},
	}}
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, model tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	next, _ := model.Update(cmd())
	return next
}

func TestComplianceModelLoadsRollupAndDetail(t *testing.T) {
	source := newFixture()
	model := NewComplianceModel(context.Background(), source, Options{})
	m := model.(*complianceModel)

	next, cmd := m.Update(m.loadRollupCmd()())
	next = run(t, next, cmd)

	view := next.View()
	for _, want := range []string{"cycle#7", "E001", "E002", "Name E001", "LAP-E001", "employees=3"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q:\n%s", want, view)
		}
	}
	if len(source.detailCycles) != 1 || source.detailCycles[0] != 7 {
		t.Fatalf("detail cycles = %v, want [7]", source.detailCycles)
	}
}

func TestComplianceModelNavigation(t *testing.T) {
	source := newFixture()
	m := NewComplianceModel(context.Background(), source, Options{}).(*complianceModel)
	next, cmd := m.Update(m.loadRollupCmd()())
	next = run(t, next, cmd)

	next, cmd = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	next = run(t, next, cmd)
	if m.selectedIndex != 1 || !m.hasDetail || m.detail.Employee.EmpID != "E002" {
		t.Fatalf("after down: index=%d detail=%+v", m.selectedIndex, m.detail.Employee)
	}

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyUp})
	if _, cmd = next.Update(tea.KeyMsg{Type: tea.KeyUp}); cmd != nil {
		t.Fatalf("moving above the first row should be a no-op")
	}
	if m.selectedIndex != 0 {
		t.Fatalf("selectedIndex = %d, want 0", m.selectedIndex)
	}
}

func TestComplianceModelIgnoresStaleDetail(t *testing.T) {
	source := newFixture()
	m := NewComplianceModel(context.Background(), source, Options{}).(*complianceModel)
	m.Update(m.loadRollupCmd()())

	m.Update(detailLoadedMsg{employeeID: "E003", detail: verification.EmployeeDetail{}})
	if m.hasDetail {
		t.Fatalf("detail for an unselected employee was applied")
	}
}

func TestComplianceModelFilter(t *testing.T) {
	source := newFixture()
	m := NewComplianceModel(context.Background(), source, Options{StatusFilter: "discrepant"}).(*complianceModel)
	m.Update(m.loadRollupCmd()())

	if len(m.lines) != 1 || m.lines[0].Summary.EmployeeID != "E002" {
		t.Fatalf("filtered lines = %+v", m.lines)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if m.statusFilter != string(domainverification.OverallPending) {
		t.Fatalf("statusFilter = %q, want Pending", m.statusFilter)
	}
	if len(m.lines) != 1 || m.lines[0].Summary.EmployeeID != "E003" {
		t.Fatalf("filtered lines = %+v", m.lines)
	}
}

func TestComplianceModelRefreshFailureKeepsRows(t *testing.T) {
	source := newFixture()
	m := NewComplianceModel(context.Background(), source, Options{}).(*complianceModel)
	m.Update(m.loadRollupCmd()())

	m.Update(rollupLoadedMsg{err: errors.New("database is locked")})
	if len(m.lines) != 3 || !strings.Contains(m.status, "database is locked") {
		t.Fatalf("lines=%d status=%q", len(m.lines), m.status)
	}
}

func TestNormalizeStatusFilter(t *testing.T) {
	cases := map[string]string{"": "", "verified": "Verified", " PENDING ": "Pending", "bogus": ""}
	for input, want := range cases {
		if got := normalizeStatusFilter(input); got != want {
			t.Fatalf("normalizeStatusFilter(%q) = %q, want %q", input, got, want)
		}
	}
}
