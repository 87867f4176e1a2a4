// Package console renders the interactive compliance view over the verification
// roll-up.
package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/usecase/verification"
)

const maxShownSessions = 3

// Source is the slice of the verification service the console reads.
type Source interface {
	GetVerificationSummary(ctx context.Context, cycleID uint64) (verification.CycleRollup, error)
	GetEmployeeVerificationDetail(ctx context.Context, employeeID string, cycleID uint64) (verification.EmployeeDetail, error)
}

type Options struct {
	CycleID         uint64
	StatusFilter    string
	RefreshInterval time.Duration
}

type complianceModel struct {
	ctx             context.Context
	source          Source
	cycleID         uint64
	statusFilter    string
	refreshInterval time.Duration

	rollup        verification.CycleRollup
	lines         []verification.EmployeeRollupLine
	selectedIndex int
	detail        verification.EmployeeDetail
	hasDetail     bool
	status        string
}

type rollupLoadedMsg struct {
	rollup verification.CycleRollup
	err    error
}

type detailLoadedMsg struct {
	employeeID string
	detail     verification.EmployeeDetail
	err        error
}

type tickMsg struct{}

func NewComplianceModel(ctx context.Context, source Source, options Options) tea.Model {
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &complianceModel{
		ctx:             ctx,
		source:          source,
		cycleID:         options.CycleID,
		statusFilter:    normalizeStatusFilter(options.StatusFilter),
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *complianceModel) Init() tea.Cmd {
	return tea.Batch(m.loadRollupCmd(), m.tickCmd())
}

func (m *complianceModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadRollupCmd(), m.tickCmd())
	case rollupLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.rollup = msg.rollup
		m.lines = filterLines(msg.rollup.Employees, m.statusFilter)
		if len(m.lines) == 0 {
			m.selectedIndex = 0
			m.hasDetail = false
			m.status = "no employees with assigned assets"
			return m, nil
		}
		if m.selectedIndex >= len(m.lines) {
			m.selectedIndex = len(m.lines) - 1
		}
		if m.selectedIndex < 0 {
			m.selectedIndex = 0
		}
		m.status = fmt.Sprintf("refreshed, %d employees", len(m.lines))
		return m, m.loadSelectedDetailCmd()
	case detailLoadedMsg:
		selected, ok := m.selectedLine()
		if !ok || selected.Summary.EmployeeID != msg.employeeID {
			return m, nil
		}
		if msg.err != nil {
			m.hasDetail = false
			m.status = "detail failed: " + msg.err.Error()
			return m, nil
		}
		m.detail = msg.detail
		m.hasDetail = true
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g", "r":
			m.status = "refreshing"
			return m, m.loadRollupCmd()
		case "f":
			m.statusFilter = nextStatusFilter(m.statusFilter)
			m.selectedIndex = 0
			m.lines = filterLines(m.rollup.Employees, m.statusFilter)
			m.hasDetail = false
			return m, m.loadSelectedDetailCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.lines)-1 {
				m.selectedIndex++
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *complianceModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Asset Verification Compliance"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"cycle=%s filter=%s refresh=%s",
		cycleLabel(m.rollup.Cycle),
		firstNonEmpty(m.statusFilter, "all"),
		m.refreshInterval,
	)))
	builder.WriteString("\n")
	totals := m.rollup.RollupTotals
	builder.WriteString(fmt.Sprintf(
		"employees=%d verified=%d discrepant=%d pending=%d submitted=%d\n\n",
		totals.TotalEmployees, totals.Verified, totals.Discrepant, totals.Pending, totals.SubmittedCount,
	))

	builder.WriteString(sectionStyle.Render("Employees"))
	builder.WriteString("\n")
	if len(m.lines) == 0 {
		builder.WriteString(dimStyle.Render("- none"))
		builder.WriteString("\n\n")
	} else {
		for index, line := range m.lines {
			row := fmt.Sprintf(
				"%-8s %-24s %-12s %3d%% %d/%d",
				line.Summary.EmployeeID,
				line.Employee.FullName,
				line.Summary.OverallStatus,
				line.Summary.Compliance,
				line.Summary.Matched,
				line.Summary.TotalAssigned,
			)
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + row))
			} else {
				builder.WriteString("  " + row)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Detail"))
	builder.WriteString("\n")
	if !m.hasDetail {
		builder.WriteString(dimStyle.Render("- no detail"))
		builder.WriteString("\n\n")
	} else {
		builder.WriteString(fmt.Sprintf("Employee: %s (%s) %s\n", m.detail.Employee.FullName, m.detail.Employee.EmpID, firstNonEmpty(m.detail.Employee.Department, "-")))
		for _, asset := range m.detail.Assets {
			entered := firstNonEmpty(asset.Record.EnteredAssetID, "-")
			builder.WriteString(fmt.Sprintf("- %s %s [%s] entered=%s %s\n",
				asset.Asset.Tag, asset.Asset.Name, asset.Record.Status, entered, asset.Record.Notes))
		}
		sessions := m.detail.Sessions
		if len(sessions) > maxShownSessions {
			sessions = sessions[:maxShownSessions]
		}
		if len(sessions) > 0 {
			builder.WriteString("Sessions:\n")
			for _, session := range sessions {
				builder.WriteString(fmt.Sprintf("- %s %s verified=%d/%d discrepant=%d\n",
					domainverification.FormatCycleRef(session.CycleID),
					session.SubmittedAt.Format(time.DateTime),
					session.Verified, session.Total, session.Discrepant))
			}
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(dimStyle.Render("Keys: up/k down/j move  g refresh  f filter  q quit"))
	return builder.String()
}

func (m *complianceModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *complianceModel) loadRollupCmd() tea.Cmd {
	return func() tea.Msg {
		rollup, err := m.source.GetVerificationSummary(m.ctx, m.cycleID)
		return rollupLoadedMsg{rollup: rollup, err: err}
	}
}

func (m *complianceModel) loadSelectedDetailCmd() tea.Cmd {
	selected, ok := m.selectedLine()
	if !ok {
		return nil
	}
	employeeID := selected.Summary.EmployeeID
	cycleID := m.cycleID
	if cycleID == 0 && m.rollup.Cycle != nil {
		cycleID = m.rollup.Cycle.ID
	}
	return func() tea.Msg {
		detail, err := m.source.GetEmployeeVerificationDetail(m.ctx, employeeID, cycleID)
		return detailLoadedMsg{employeeID: employeeID, detail: detail, err: err}
	}
}

func (m *complianceModel) selectedLine() (verification.EmployeeRollupLine, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.lines) {
		return verification.EmployeeRollupLine{}, false
	}
	return m.lines[m.selectedIndex], true
}

var statusFilters = []string{
	"",
	string(domainverification.OverallDiscrepant),
	string(domainverification.OverallPending),
	string(domainverification.OverallVerified),
}

func normalizeStatusFilter(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, filter := range statusFilters {
		if strings.EqualFold(raw, filter) {
			return filter
		}
	}
	return ""
}

func nextStatusFilter(current string) string {
	for index, filter := range statusFilters {
		if filter == current {
			return statusFilters[(index+1)%len(statusFilters)]
		}
	}
	return ""
}

func filterLines(lines []verification.EmployeeRollupLine, status string) []verification.EmployeeRollupLine {
	if status == "" {
		return lines
	}
	out := make([]verification.EmployeeRollupLine, 0, len(lines))
	for _, line := range lines {
		if string(line.Summary.OverallStatus) == status {
			out = append(out, line)
		}
	}
	return out
}

func cycleLabel(cycle *domainverification.Cycle) string {
	if cycle == nil {
		return "none"
	}
	return fmt.Sprintf("%s %q (%s)", cycle.Ref(), cycle.Title, cycle.Status)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
