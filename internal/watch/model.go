package watch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nanoklima/airq/internal/client"
	"github.com/nanoklima/airq/internal/telemetry"
)

// DefaultInterval is the default refresh interval for the dashboard
const DefaultInterval = 10 * time.Second

// Messages for async operations
type pollResultMsg struct {
	snapshot *telemetry.Snapshot
	err      error
}

type tickMsg time.Time

// keyMap defines key bindings for the watch screen
type keyMap struct {
	Refresh       key.Binding
	Pause         key.Binding
	Uncertainties key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Pause, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Pause, k.Uncertainties},
		{k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Uncertainties: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "uncertainties"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the live telemetry dashboard for one device
type Model struct {
	client   *client.Client
	title    string
	interval time.Duration
	opts     client.DataOptions

	current  *telemetry.Snapshot
	summary  *telemetry.ComparisonSummary
	lastErr  error
	lastPoll time.Time
	polls    int

	paused  bool
	loading bool

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width  int
	height int
}

// NewModel creates a dashboard model for the given device client. The
// title is what the header shows: a nickname, the device id, or the
// address, whichever the caller knows best.
func NewModel(c *client.Client, title string, interval time.Duration, opts client.DataOptions) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	return Model{
		client:   c,
		title:    title,
		interval: interval,
		opts:     opts,
		loading:  true,
		spinner:  sp,
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
}

// Run starts the dashboard and blocks until the user quits
func Run(c *client.Client, title string, interval time.Duration, opts client.DataOptions) error {
	program := tea.NewProgram(NewModel(c, title, interval, opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.pollCmd())
}

// pollCmd fetches one snapshot off the UI goroutine
func (m Model) pollCmd() tea.Cmd {
	c, opts, interval := m.client, m.opts, m.interval
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		snapshot, err := c.LatestData(ctx, opts)
		return pollResultMsg{snapshot: snapshot, err: err}
	}
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.pollCmd()
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			if !m.paused {
				return m, m.pollCmd()
			}
			return m, nil
		case key.Matches(msg, m.keys.Uncertainties):
			m.opts.KeepUncertainties = !m.opts.KeepUncertainties
			m.loading = true
			// Kind changes would pollute the delta column
			m.summary = nil
			return m, m.pollCmd()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		return m, nil

	case pollResultMsg:
		m.loading = false
		m.lastPoll = time.Now()
		m.polls++
		if msg.err != nil {
			m.lastErr = msg.err
			return m, m.scheduleTick()
		}
		m.lastErr = nil
		if m.current != nil {
			summary := telemetry.Compare(msg.snapshot, m.current)
			m.summary = &summary
		}
		m.current = msg.snapshot
		return m, m.scheduleTick()

	case tickMsg:
		if m.paused {
			return m, m.scheduleTick()
		}
		return m, m.pollCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("air-Q " + m.title))
	b.WriteString("  ")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("every %s", m.interval)))
	if m.paused {
		b.WriteString("  " + StatusWarmupStyle.Render("PAUSED"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.current != nil {
		b.WriteString(BoxStyle.Render(m.sensorTable()))
		b.WriteString("\n")
	} else if m.loading {
		b.WriteString(m.spinner.View() + " Waiting for first measurement...\n")
	}

	if m.summary != nil {
		if anomalies := m.anomalyLines(); anomalies != "" {
			b.WriteString("\n")
			b.WriteString(anomalies)
		}
	}

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// statusLine renders the health line under the header
func (m Model) statusLine() string {
	if m.lastErr != nil {
		return StatusErrorStyle.Render("✗ " + m.lastErr.Error())
	}
	if m.current == nil {
		return SubtleStyle.Render("no data yet")
	}

	warming := m.current.Status.WarmingUp()
	if len(warming) == 0 {
		return StatusOKStyle.Render("● OK") +
			SubtleStyle.Render(fmt.Sprintf("  polled %s, %d polls",
				m.lastPoll.Format("15:04:05"), m.polls))
	}

	names := sortedKeys(warming)
	return StatusWarmupStyle.Render("◐ warming up: " + strings.Join(names, ", "))
}

// sensorTable renders the field table with deltas against the previous
// snapshot
func (m Model) sensorTable() string {
	names := make([]string, 0, len(m.current.Fields))
	for name := range m.current.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%-16s %14s %12s", "SENSOR", "VALUE", "CHANGE")))
	b.WriteString("\n")

	for _, name := range names {
		reading := m.current.Fields[name]
		b.WriteString(fmt.Sprintf("%s %14s %12s\n",
			SensorNameStyle.Render(fmt.Sprintf("%-16s", name)),
			formatReading(reading),
			m.formatDelta(name),
		))
	}
	return strings.TrimRight(b.String(), "\n")
}

// anomalyLines reports comparison findings worth a glance
func (m Model) anomalyLines() string {
	var lines []string
	if len(m.summary.UnaccountablyMissingKeys) > 0 {
		lines = append(lines, StatusErrorStyle.Render(
			"! sensors lost without warm-up notice: "+
				strings.Join(sortedKeys(m.summary.UnaccountablyMissingKeys), ", ")))
	}
	if len(m.summary.NewValues) > 0 {
		names := make([]string, 0, len(m.summary.NewValues))
		for name := range m.summary.NewValues {
			names = append(names, name)
		}
		sort.Strings(names)
		lines = append(lines, StatusOKStyle.Render("+ new sensors: "+strings.Join(names, ", ")))
	}
	return strings.Join(lines, "\n")
}

// formatDelta renders the change column for one sensor
func (m Model) formatDelta(name string) string {
	if m.summary == nil {
		return SubtleStyle.Render("-")
	}
	delta, ok := m.summary.Difference[name]
	if !ok {
		return SubtleStyle.Render("-")
	}

	v, ok := delta.Value()
	if !ok {
		return SubtleStyle.Render("-")
	}
	text := fmt.Sprintf("%+.2f", v)
	switch {
	case v > 0:
		return DeltaUpStyle.Render(text)
	case v < 0:
		return DeltaDownStyle.Render(text)
	default:
		return SubtleStyle.Render("±0.00")
	}
}

// formatReading renders one reading for the value column
func formatReading(r telemetry.Reading) string {
	if text, ok := r.Text(); ok {
		return text
	}
	value, ok := r.Value()
	if !ok {
		return "?"
	}
	if uncertainty, ok := r.Uncertainty(); ok {
		return fmt.Sprintf("%.2f ±%.2f", value, uncertainty)
	}
	return fmt.Sprintf("%.2f", value)
}

func sortedKeys(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
