package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/fibseq/internal/format"
	"github.com/agbru/fibseq/internal/generator"
)

// TermsModel lists the handled indices in a scrollable viewport.
type TermsModel struct {
	lines    []string
	terms    int
	skipped  int
	viewport viewport.Model
	follow   bool
}

// NewTermsModel creates an empty terms panel.
func NewTermsModel() TermsModel {
	return TermsModel{viewport: viewport.New(0, 0), follow: true}
}

// SetSize updates dimensions, borders included.
func (m *TermsModel) SetSize(w, h int) {
	m.viewport.Width = max(w-2, 0)
	m.viewport.Height = max(h-2, 0)
	m.refresh()
}

// Add appends one progress update.
func (m *TermsModel) Add(u generator.ProgressUpdate) {
	if u.Skipped {
		m.skipped++
		m.lines = append(m.lines, fmt.Sprintf("%s %s",
			indexStyle.Render(fmt.Sprintf("F(%d)", u.Index)),
			skippedStyle.Render("skipped: overflow")))
	} else {
		m.terms++
		m.lines = append(m.lines, formatTermLine(u.Index, u.Term))
	}
	m.refresh()
}

// SetResult replaces the streamed lines with the final result. Updates
// dropped by the non-blocking progress channel reappear here.
func (m *TermsModel) SetResult(r generator.Range, res generator.Result) {
	m.lines = m.lines[:0]
	m.terms, m.skipped = 0, 0
	for _, e := range res.Entries(r) {
		m.Add(generator.ProgressUpdate{Index: e.Index, Term: e.Term, Skipped: e.Skipped})
	}
}

// Reset clears the panel.
func (m *TermsModel) Reset() {
	m.lines = nil
	m.terms, m.skipped = 0, 0
	m.follow = true
	m.refresh()
}

// Counts returns the number of committed and skipped indices shown.
func (m TermsModel) Counts() (terms, skipped int) {
	return m.terms, m.skipped
}

// Update forwards scroll keys to the viewport. Scrolling up stops the
// panel from following new terms until the bottom is reached again.
func (m *TermsModel) Update(msg tea.Msg) {
	m.viewport, _ = m.viewport.Update(msg)
	m.follow = m.viewport.AtBottom()
}

// View renders the panel.
func (m TermsModel) View() string {
	return panelStyle.Render(m.viewport.View())
}

func (m *TermsModel) refresh() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func formatTermLine(index uint64, term uint64) string {
	return fmt.Sprintf("%s %s",
		indexStyle.Render(fmt.Sprintf("F(%d) =", index)),
		termStyle.Render(format.FormatTerm(term)))
}
