// Package tui renders a live view of a running benchmark: a rolling
// latency graph for the dispatching facade next to the math/big
// reference, updating as samples arrive.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/bigmod"
	"github.com/san-kum/bigmod/internal/bench"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	badStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	borderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

// keep the last N samples on screen
const window = 120

type sampleMsg bench.Sample

type doneMsg struct {
	result *bench.Result
	err    error
}

type model struct {
	opts    bench.Options
	samples chan bench.Sample
	done    chan doneMsg
	cancel  context.CancelFunc

	facadeUs []float64
	refUs    []float64
	count    int
	result   *bench.Result
	err      error
	width    int
	finished bool
}

// Run executes the benchmark under a live bubbletea view and returns the
// final result once the run completes or the user quits.
func Run(opts bench.Options) (*bench.Result, error) {
	ctx, cancel := context.WithCancel(context.Background())
	m := &model{
		opts:    opts,
		samples: make(chan bench.Sample, 64),
		done:    make(chan doneMsg, 1),
		cancel:  cancel,
		width:   80,
	}
	opts.OnSample = func(s bench.Sample) { m.samples <- s }

	go func() {
		result, err := bench.Run(ctx, opts)
		close(m.samples)
		m.done <- doneMsg{result: result, err: err}
	}()

	final, err := tea.NewProgram(m).Run()
	cancel()
	if err != nil {
		return nil, err
	}
	fm := final.(*model)
	if fm.err != nil && !errors.Is(fm.err, context.Canceled) {
		return fm.result, fm.err
	}
	return fm.result, nil
}

func (m *model) Init() tea.Cmd {
	return m.nextSample()
}

func (m *model) nextSample() tea.Cmd {
	return func() tea.Msg {
		if s, ok := <-m.samples; ok {
			return sampleMsg(s)
		}
		return <-m.done
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case sampleMsg:
		m.count++
		m.facadeUs = append(m.facadeUs, float64(msg.Facade.Microseconds()))
		m.refUs = append(m.refUs, float64(msg.Reference.Microseconds()))
		if len(m.facadeUs) > window {
			m.facadeUs = m.facadeUs[1:]
			m.refUs = m.refUs[1:]
		}
		return m, m.nextSample()
	case doneMsg:
		m.result = msg.result
		m.err = msg.err
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder

	backend := "software"
	if bigmod.IsAccelerated() {
		backend = fmt.Sprintf("native v%d", bigmod.BackendVersion())
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("bigmod bench: %s (%d bit)", m.opts.Mode, m.opts.Bits)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("   backend: %s\n\n", backend)))

	if len(m.facadeUs) >= 2 {
		graphWidth := m.width - 12
		if graphWidth < 20 {
			graphWidth = 20
		}
		graph := asciigraph.Plot(m.facadeUs,
			asciigraph.Height(8),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("facade latency (µs)"))
		b.WriteString(borderStyle.Render(graph))
		b.WriteString("\n")
	}

	b.WriteString(statStyle.Render(fmt.Sprintf("samples: %d/%d", m.count, m.opts.Runs)))
	if n := len(m.facadeUs); n > 0 {
		b.WriteString(statStyle.Render(fmt.Sprintf("   last: %.0fµs facade / %.0fµs reference",
			m.facadeUs[n-1], m.refUs[n-1])))
	}
	b.WriteString("\n")
	if m.result != nil {
		if m.result.Mismatches == 0 {
			b.WriteString(okStyle.Render("all results agree"))
		} else {
			b.WriteString(badStyle.Render(fmt.Sprintf("%d MISMATCHES", m.result.Mismatches)))
		}
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("q to quit"))
	b.WriteString("\n")
	return b.String()
}
