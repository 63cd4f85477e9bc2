package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/fibseq/internal/generator"
)

func TestBudgetModel_UpdateUsage(t *testing.T) {
	m := NewBudgetModel(generator.Budget{Timeout: time.Second, MaxMemory: 1000}, "heap")
	m.SetSize(80, 9)

	m.UpdateUsage(250, nil)
	m.UpdateUsage(800, nil)

	if got := m.MemoryFraction(); got != 0.8 {
		t.Errorf("MemoryFraction() = %v, want 0.8", got)
	}
	if got := m.history.render(m.budget.MaxMemory); got != "▂▆" {
		t.Errorf("history = %q, want %q", got, "▂▆")
	}
}

func TestBudgetModel_UpdateUsage_ErrorKeepsLastValue(t *testing.T) {
	m := NewBudgetModel(generator.Budget{MaxMemory: 1000}, "rss")
	m.SetSize(80, 9)

	m.UpdateUsage(500, nil)
	m.UpdateUsage(0, errors.New("no such process"))

	if m.usage != 500 {
		t.Errorf("usage = %d, want 500", m.usage)
	}
	if view := m.View(0); !strings.Contains(view, "no such process") {
		t.Errorf("view should report the probe error:\n%s", view)
	}
}

func TestBudgetModel_NoCeilingScalesToPeak(t *testing.T) {
	m := NewBudgetModel(generator.Budget{}, "heap")
	m.SetSize(80, 9)

	m.UpdateUsage(400, nil)
	m.UpdateUsage(200, nil)

	if m.MemoryFraction() != 0 {
		t.Error("MemoryFraction must be 0 without a ceiling")
	}
	if got := m.history.render(m.budget.MaxMemory); got != "█▄" {
		t.Errorf("history = %q, want %q", got, "█▄")
	}
	view := m.View(1500 * time.Millisecond)
	if !strings.Contains(view, "no deadline") || !strings.Contains(view, "no ceiling") {
		t.Errorf("view should describe disabled budgets:\n%s", view)
	}
}

func TestBudgetModel_ViewShowsLimits(t *testing.T) {
	m := NewBudgetModel(generator.Budget{Timeout: 2 * time.Second, MaxMemory: 64 << 20}, "heap")
	m.SetSize(100, 9)
	m.UpdateProgress(0.5, time.Second)
	m.UpdateUsage(16<<20, nil)
	m.UpdateSys(12.5, 40)

	view := m.View(time.Second)
	for _, want := range []string{"Progress", "50.0%", "64 MiB", "16 MiB", "12.5%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q:\n%s", want, view)
		}
	}
}

func TestBudgetModel_Reset(t *testing.T) {
	m := NewBudgetModel(generator.Budget{MaxMemory: 10}, "heap")
	m.UpdateUsage(5, nil)
	m.UpdateProgress(0.4, time.Second)
	m.Reset()

	if m.usage != 0 || m.peak != 0 || m.progress != 0 || m.history.len() != 0 {
		t.Errorf("Reset left state behind: %+v", m)
	}
}
