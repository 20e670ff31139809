// Package tui is the interactive practice console.
package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/curbz/rt-trainer/internal/phraseology"
	"github.com/curbz/rt-trainer/internal/scenario"
	"github.com/curbz/rt-trainer/internal/world"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	pilotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	atcStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// Model is the bubbletea model of one practice flight.
type Model struct {
	session *scenario.Session
	grammar *phraseology.Grammar
	data    scenario.StatusData
	facts   world.Facts

	input    textinput.Model
	vp       viewport.Model
	lines    []string
	width    int
	height   int
	showHint bool
}

func New(session *scenario.Session, data scenario.StatusData) (Model, error) {
	g, err := phraseology.DefaultGrammar()
	if err != nil {
		return Model{}, err
	}
	facts, err := session.Generator().Facts(data.Seed)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "transmit..."
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Focus()

	m := Model{
		session: session,
		grammar: g,
		data:    data,
		facts:   facts,
		input:   ti,
		vp:      viewport.New(0, 0),
	}
	m.lines = append(m.lines, fmt.Sprintf("Departing %s (%s) for %s (%s), %d nm. Call %s on %s.",
		facts.Start.Name, facts.Start.ICAO, facts.Destination.Name, facts.Destination.ICAO, facts.DistanceNM,
		data.CurrentState.CurrentTarget.Callsign, phraseology.FormatFrequency(data.CurrentState.CurrentTarget.Frequency)))
	return m, nil
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - 4
		m.vp.Width = msg.Width
		m.resize()
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.showHint = !m.showHint
			m.resize()
			return m, nil
		case tea.KeyEnter:
			raw := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if raw == "" {
				return m, nil
			}
			if err := m.transmit(raw); err != nil {
				m.lines = append(m.lines, errorStyle.Render("error: "+err.Error()))
			}
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) transmit(raw string) error {
	turn, err := m.session.Step(m.data, raw)
	if err != nil {
		return err
	}
	m.data.CurrentState = turn.State
	m.lines = append(m.lines, pilotStyle.Render("PILOT: ")+raw)
	m.lines = append(m.lines, turnLines(turn)...)
	return nil
}

func turnLines(turn scenario.Turn) []string {
	var out []string
	if turn.Error != nil {
		out = append(out, errorStyle.Render(fmt.Sprintf("  [%s] %s", turn.Error.Kind, turn.Error.Detail)))
	}
	if turn.Reply != nil {
		out = append(out, atcStyle.Render(strings.ToUpper(turn.Reply.Station)+": ")+turn.Reply.Written)
	}
	if turn.State.Terminal() {
		out = append(out, headerStyle.Render("Flight complete. Esc to quit."))
	}
	return out
}

func (m *Model) resize() {
	h := m.height - lipgloss.Height(m.header()) - lipgloss.Height(m.footer()) - 2
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
}

func (m *Model) refresh() {
	var lines []string
	for _, l := range m.lines {
		if m.vp.Width > 0 {
			l = wordwrap.String(l, m.vp.Width)
		}
		lines = append(lines, l)
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	m.vp.GotoBottom()
}

func (m Model) header() string {
	st := m.data.CurrentState
	return headerStyle.Render(fmt.Sprintf("%s  %s  %s %s  squawk %04d",
		phraseology.SpokenCallsign(st), st.Key(), st.CurrentTarget.Callsign,
		phraseology.FormatFrequency(st.CurrentTarget.Frequency), st.CurrentTransponderFrequency))
}

// Hint is a correct transmission for the current stage.
func (m Model) Hint() string {
	ex, ok := m.grammar.Example(m.data.CurrentState.Key(), m.data.CurrentState, m.facts)
	if !ok {
		return "no call expected"
	}
	return ex
}

func (m Model) footer() string {
	help := hintStyle.Render("enter transmit • tab hint • esc quit")
	if m.showHint {
		return hintStyle.Render("try: "+m.Hint()) + "\n" + help
	}
	return help
}

func (m Model) View() string {
	divider := strings.Repeat("─", max(m.width, 1))
	return strings.Join([]string{
		m.header(),
		divider,
		m.vp.View(),
		divider,
		m.input.View(),
		m.footer(),
	}, "\n")
}

// Data returns the checkpoint as of the last turn.
func (m Model) Data() scenario.StatusData {
	return m.data
}

// Run starts the full-screen console.
func Run(session *scenario.Session, data scenario.StatusData, in io.Reader, out io.Writer) error {
	m, err := New(session, data)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out)).Run()
	return err
}

// RunLines is the console for non-interactive input: one transmission per
// line in, the turn outcome out. It stops at end of input or at shutdown.
func RunLines(session *scenario.Session, data scenario.StatusData, in io.Reader, out io.Writer) (scenario.StatusData, error) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		turn, err := session.Step(data, raw)
		if err != nil {
			return data, err
		}
		data.CurrentState = turn.State
		if turn.Error != nil {
			fmt.Fprintf(out, "[%s] %s\n", turn.Error.Kind, turn.Error.Detail)
		}
		if turn.Reply != nil {
			fmt.Fprintf(out, "%s: %s\n", strings.ToUpper(turn.Reply.Station), turn.Reply.Written)
		}
		if turn.State.Terminal() {
			fmt.Fprintln(out, "Flight complete.")
			break
		}
	}
	return data, sc.Err()
}
