package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PointMsg reports one completed sweep grid point.
type PointMsg struct {
	Param  string
	Index  int
	Total  int
	Value  float64
	Rate   float64
	Failed bool
}

// DoneMsg signals sweep completion.
type DoneMsg struct {
	Err error
}

// SweepModel is a bubbletea model showing live sweep progress: a progress
// bar, a sparkline of the final rates collected so far and failure counts.
type SweepModel struct {
	param    string
	total    int
	done     int
	failed   int
	rates    []float64
	lastVal  float64
	err      error
	finished bool
	msgs     <-chan tea.Msg
}

// NewSweepModel builds a live view fed by msgs. The sweep itself runs in a
// separate goroutine and publishes PointMsg/DoneMsg on the channel.
func NewSweepModel(param string, total int, msgs <-chan tea.Msg) SweepModel {
	return SweepModel{
		param: param,
		total: total,
		rates: make([]float64, 0, total),
		msgs:  msgs,
	}
}

func (m SweepModel) listen() tea.Cmd {
	return func() tea.Msg { return <-m.msgs }
}

func (m SweepModel) Init() tea.Cmd {
	return m.listen()
}

func (m SweepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case PointMsg:
		m.done++
		m.lastVal = msg.Value
		if msg.Failed {
			m.failed++
		} else {
			m.rates = append(m.rates, msg.Rate)
		}
		return m, m.listen()
	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m SweepModel) View() string {
	var s strings.Builder
	s.WriteString(HeaderStyle.Render("SWEEP "+strings.ToUpper(m.param)) + "\n")

	status := StatusRunning.Render("RUNNING")
	if m.finished {
		status = StatusDone.Render("DONE")
		if m.err != nil {
			status = ErrorStyle.Render("ABORTED: " + m.err.Error())
		}
	}
	s.WriteString(status + "\n\n")

	frac := 0.0
	if m.total > 0 {
		frac = float64(m.done) / float64(m.total)
	}
	s.WriteString(ProgressBar(frac, 40) + fmt.Sprintf("  %d/%d\n\n", m.done, m.total))

	if len(m.rates) > 1 {
		s.WriteString(LabelStyle.Render("final rate") + Sparkline(m.rates, 40) + "\n")
	}
	s.WriteString(LabelStyle.Render("last value") + ValueStyle.Render(fmt.Sprintf("%.6g", m.lastVal)) + "\n")
	if m.failed > 0 {
		s.WriteString(LabelStyle.Render("failed") + ErrorStyle.Render(fmt.Sprintf("%d", m.failed)) + "\n")
	}

	s.WriteString(HelpStyle.Render("q: quit"))
	return s.String()
}
