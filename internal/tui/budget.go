package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/agbru/fibseq/internal/format"
	"github.com/agbru/fibseq/internal/generator"
)

const (
	budgetLabelWidth = 10
	minGaugeWidth    = 8
	// warnFraction is the share of a budget above which its gauge turns
	// to the warning color.
	warnFraction = 0.8
)

// BudgetModel shows how much of the time and memory budgets the run has
// consumed, the memory history and the system load.
type BudgetModel struct {
	budget    generator.Budget
	probeName string

	progress float64
	eta      time.Duration

	usage    uint64
	peak     uint64
	probeErr error
	history  *usageHistory

	cpuPercent float64
	memPercent float64

	width  int
	height int
}

// NewBudgetModel creates the budget panel for one run.
func NewBudgetModel(b generator.Budget, probeName string) BudgetModel {
	return BudgetModel{
		budget:    b,
		probeName: probeName,
		history:   newUsageHistory(32),
	}
}

// SetSize updates dimensions and resizes the memory history to the
// sparkline width.
func (m *BudgetModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.history.setLimit(m.gaugeWidth())
}

// UpdateProgress records the completed fraction and ETA.
func (m *BudgetModel) UpdateProgress(progress float64, eta time.Duration) {
	m.progress = progress
	m.eta = eta
}

// UpdateUsage records one probe sample. A failed sample keeps the last
// known usage.
func (m *BudgetModel) UpdateUsage(usage uint64, err error) {
	m.probeErr = err
	if err != nil {
		return
	}
	m.usage = usage
	m.peak = max(m.peak, usage)
	m.history.add(usage)
}

// UpdateSys records a system-wide snapshot.
func (m *BudgetModel) UpdateSys(cpuPercent, memPercent float64) {
	m.cpuPercent = cpuPercent
	m.memPercent = memPercent
}

// Reset clears everything except the budget and the size.
func (m *BudgetModel) Reset() {
	m.progress, m.eta = 0, 0
	m.usage, m.peak, m.probeErr = 0, 0, nil
	m.history.reset()
}

// MemoryFraction returns usage over the ceiling, or 0 without a ceiling.
func (m BudgetModel) MemoryFraction() float64 {
	if m.budget.MaxMemory == 0 {
		return 0
	}
	return float64(m.usage) / float64(m.budget.MaxMemory)
}

func (m BudgetModel) gaugeWidth() int {
	// borders, label, and room for the figures printed after the bar
	return max(m.width-2-budgetLabelWidth-24, minGaugeWidth)
}

// View renders the panel. elapsed is the time since the run started.
func (m BudgetModel) View(elapsed time.Duration) string {
	gw := m.gaugeWidth()
	rows := []string{
		row("Progress", format.FormatProgressBarWithETA(m.progress, m.eta, gw)),
		row("Time", m.timeGauge(elapsed, gw)),
		row("Memory", m.memoryGauge(gw)),
		row("History", sparklineStyle.Render(m.history.render(m.budget.MaxMemory))),
		row("System", fmt.Sprintf("CPU %s  RAM %s",
			valueStyle.Render(fmt.Sprintf("%.1f%%", m.cpuPercent)),
			valueStyle.Render(fmt.Sprintf("%.1f%%", m.memPercent)))),
	}

	style := panelStyle.Width(max(m.width-2, 0))
	if m.height > 2 {
		style = style.Height(m.height - 2)
	}
	return style.Render(strings.Join(rows, "\n"))
}

func (m BudgetModel) timeGauge(elapsed time.Duration, width int) string {
	if m.budget.Timeout <= 0 {
		return fmt.Sprintf("%s %s", format.FormatExecutionDuration(elapsed), dimStyle.Render("(no deadline)"))
	}
	frac := float64(elapsed) / float64(m.budget.Timeout)
	return fmt.Sprintf("%s %s / %s",
		gauge(frac, width),
		format.FormatExecutionDuration(elapsed),
		format.FormatExecutionDuration(m.budget.Timeout))
}

func (m BudgetModel) memoryGauge(width int) string {
	if m.probeErr != nil {
		return skippedStyle.Render("probe " + m.probeName + ": " + m.probeErr.Error())
	}
	if m.budget.MaxMemory == 0 {
		return fmt.Sprintf("%s %s", humanize.IBytes(m.usage),
			dimStyle.Render(fmt.Sprintf("(peak %s, %s, no ceiling)", humanize.IBytes(m.peak), m.probeName)))
	}
	return fmt.Sprintf("%s %s / %s",
		gauge(m.MemoryFraction(), width),
		humanize.IBytes(m.usage),
		format.FormatBytes(m.budget.MaxMemory))
}

func gauge(frac float64, width int) string {
	style := gaugeStyle
	if frac >= warnFraction {
		style = gaugeWarnStyle
	}
	return style.Render(format.ProgressBar(frac, width))
}

func row(label, value string) string {
	cell := labelStyle.Render(fmt.Sprintf(" %-*s", budgetLabelWidth-1, label))
	if w := lipgloss.Width(cell); w < budgetLabelWidth {
		cell += strings.Repeat(" ", budgetLabelWidth-w)
	}
	return cell + value
}
