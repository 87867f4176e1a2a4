package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	domainaudit "assetverify/internal/domain/audit"
	"assetverify/internal/errs"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(raw string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(raw))); format {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return format, nil
	default:
		return "", errs.Validation("unsupported report format %q (want text, json or yaml)", raw)
	}
}

func Write(w io.Writer, report Report, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return writeText(w, report)
	}
}

var (
	reportTitleStyle   = lipgloss.NewStyle().Bold(true)
	reportSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	reportDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	severityStyles     = map[domainaudit.Severity]lipgloss.Style{
		domainaudit.SeverityHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		domainaudit.SeverityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		domainaudit.SeverityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

func newReportTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func metricsTable(pairs ...string) *table.Table {
	t := newReportTable("METRIC", "VALUE")
	for i := 0; i+1 < len(pairs); i += 2 {
		t.Row(pairs[i], pairs[i+1])
	}
	return t
}

func writeText(w io.Writer, report Report) error {
	p := &printer{w: w}
	p.println(reportTitleStyle.Render(fmt.Sprintf("Audit report %s", report.ReportID)))
	p.println(reportDimStyle.Render("generated " + report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))

	p.section("Assets")
	if report.Assets.Error != "" {
		p.unavailable(report.Assets.Error)
	} else {
		a := report.Assets
		p.println(metricsTable(
			"total", strconv.Itoa(a.Total),
			"assigned", strconv.Itoa(a.Assigned),
			"unassigned", strconv.Itoa(a.Unassigned),
			"warranty expired", strconv.Itoa(a.WarrantyExpired),
			"warranty expiring", strconv.Itoa(a.WarrantyExpiring),
			"by status", joinCounts(a.ByStatus),
			"by type", joinCounts(a.ByType),
		).String())
	}

	p.section("Verification")
	if v := report.Verification; v.Error != "" {
		p.unavailable(v.Error)
	} else {
		if v.Cycle != nil {
			p.println(fmt.Sprintf("cycle#%d %q (%s)", v.Cycle.ID, v.Cycle.Title, v.Cycle.Status))
		} else {
			p.println(reportDimStyle.Render("no cycle"))
		}
		p.println(metricsTable(
			"records", strconv.Itoa(v.TotalRecords),
			"verified", strconv.Itoa(v.Verified),
			"pending", strconv.Itoa(v.Pending),
			"flagged", strconv.Itoa(v.Flagged),
			"employees", strconv.Itoa(v.TotalEmployees),
			"discrepant", strconv.Itoa(v.Discrepant),
			"submitted", strconv.Itoa(v.SubmittedCount),
		).String())

		if len(v.Compliance) > 0 {
			rows := newReportTable("EMPLOYEE", "NAME", "DEPARTMENT", "ASSIGNED", "MATCHED", "MISMATCHED", "FLAGGED", "STATUS", "COMPLIANCE")
			for _, row := range v.Compliance {
				rows.Row(row.EmployeeID, row.EmployeeName, row.Department,
					strconv.Itoa(row.TotalAssigned), strconv.Itoa(row.Matched), strconv.Itoa(row.Mismatched), strconv.Itoa(row.Flagged),
					row.OverallStatus, strconv.Itoa(row.Compliance)+"%")
			}
			p.println(rows.String())
		}
		if len(v.ActionItems) > 0 {
			p.println(reportSectionStyle.Render("Action items"))
			rows := newReportTable("STATUS", "EMPLOYEE", "ASSET", "NAME", "ENTERED", "NOTES")
			for _, item := range v.ActionItems {
				rows.Row(item.Status, item.EmployeeName, item.AssetID, item.AssetName, item.EnteredAssetID, item.Notes)
			}
			p.println(rows.String())
		}
	}

	p.section("Licenses")
	if report.Licenses.Error != "" {
		p.unavailable(report.Licenses.Error)
	} else {
		l := report.Licenses
		p.println(metricsTable(
			"total", strconv.Itoa(l.Total),
			"active", strconv.Itoa(l.Active),
			"expired", strconv.Itoa(l.Expired),
			"expiring", strconv.Itoa(l.Expiring),
		).String())
		if len(l.Utilization) > 0 {
			rows := newReportTable("SOFTWARE", "USED", "SEATS", "UTILIZATION")
			for _, seat := range l.Utilization {
				rows.Row(seat.Software, strconv.Itoa(seat.Used), strconv.Itoa(seat.Seats), strconv.Itoa(seat.Utilization)+"%")
			}
			p.println(rows.String())
		}
	}

	p.section("Workspace")
	if report.Workspace.Error != "" {
		p.unavailable(report.Workspace.Error)
	} else {
		ws := report.Workspace
		p.println(metricsTable(
			"desks", strconv.Itoa(ws.TotalDesks),
			"occupied", strconv.Itoa(ws.Occupied),
			"available", strconv.Itoa(ws.Available),
			"utilization", strconv.Itoa(ws.Utilization)+"%",
		).String())
	}

	p.section("Findings")
	if len(report.Findings) == 0 {
		p.println(reportDimStyle.Render("none"))
		return p.err
	}
	rows := newReportTable("SEVERITY", "AREA", "FINDING")
	for _, finding := range report.Findings {
		severity := strings.ToUpper(string(finding.Severity))
		if style, ok := severityStyles[finding.Severity]; ok {
			severity = style.Render(severity)
		}
		rows.Row(severity, string(finding.Area), finding.Message)
	}
	p.println(rows.String())
	return p.err
}

func joinCounts(counts []domainaudit.KeyCount) string {
	if len(counts) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s=%d", c.Key, c.Count))
	}
	return strings.Join(parts, " ")
}

// printer keeps the first write error so the text renderer reads linearly.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) println(line string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, line)
}

func (p *printer) section(title string) {
	p.println("")
	p.println(reportSectionStyle.Render(title))
}

func (p *printer) unavailable(reason string) {
	p.println(reportDimStyle.Render("unavailable: " + reason))
}
