package monitor

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/growmonitor/growdash/internal/dashboard"
	"github.com/growmonitor/growdash/internal/telemetry"
	"github.com/growmonitor/growdash/internal/ui"
)

// ChartView renders the plotted series. *chart.Terminal implements it.
type ChartView interface {
	View(width int) string
}

// Layout sizes around the scrollable body.
const (
	headerHeight = 2
	footerHeight = 1
	defaultWidth = 80
)

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	ctx         context.Context
	vm          *dashboard.ViewModel
	chart       ChartView
	feed        *stateFeed
	unsubscribe func()

	state    dashboard.State
	rows     []telemetry.SummaryRow // selectable rows in display order
	selected int

	width    int
	height   int
	spinner  spinner.Model
	body     viewport.Model
	ready    bool
	showHelp bool
	quitting bool
}

// stateMsg carries a snapshot published by the view model.
type stateMsg dashboard.State

// opDoneMsg reports that a view model operation returned.
type opDoneMsg struct {
	op  string
	err error
}

// NewModel creates a dashboard model driving vm. Operations run with ctx.
// Call Close once the program has exited.
func NewModel(ctx context.Context, vm *dashboard.ViewModel, c ChartView) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	feed := newStateFeed()
	m := Model{
		ctx:     ctx,
		vm:      vm,
		chart:   c,
		feed:    feed,
		spinner: ui.NewTeaSpinner(ColorWarning),
	}
	m.unsubscribe = vm.Subscribe(feed.push)
	m.setState(vm.State())
	return m
}

// Close detaches the model from its view model.
func (m Model) Close() {
	m.unsubscribe()
	m.feed.close()
}

// Init loads the summary for the initial range and starts listening for
// state changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.feed.next(),
		m.spinner.Tick,
		m.refreshCmd(m.state.Range),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		bodyHeight := m.height - headerHeight - footerHeight
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		if !m.ready {
			m.body = viewport.New(m.width, bodyHeight)
			m.body.YPosition = headerHeight
			m.ready = true
		} else {
			m.body.Width = m.width
			m.body.Height = bodyHeight
		}
		m.syncBody()

	case stateMsg:
		m.setState(dashboard.State(msg))
		return m, m.feed.next()

	case opDoneMsg:
		// The feed may still hold an older snapshot; read the final one.
		m.setState(m.vm.State())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// State returns the snapshot the model currently renders.
func (m Model) State() dashboard.State {
	return m.state
}

// SelectedRow returns the summary row under the cursor.
func (m Model) SelectedRow() (telemetry.SummaryRow, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return telemetry.SummaryRow{}, false
	}
	return m.rows[m.selected], true
}

func (m *Model) setState(s dashboard.State) {
	m.state = s

	rows := make([]telemetry.SummaryRow, 0, len(s.Rows))
	for i := range dashboard.Buckets {
		rows = append(rows, s.BucketRows(i)...)
	}
	m.rows = rows
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.syncBody()
}

func (m *Model) syncBody() {
	if m.ready {
		m.body.SetContent(m.renderBody())
	}
}

func (m Model) refreshCmd(days int) tea.Cmd {
	ctx, vm := m.ctx, m.vm
	return func() tea.Msg {
		return opDoneMsg{op: "refresh", err: vm.Refresh(ctx, days)}
	}
}

func (m Model) toggleCmd(row telemetry.SummaryRow) tea.Cmd {
	ctx, vm := m.ctx, m.vm
	sensor, valueType := string(row.Sensor), string(row.ValueType)
	return func() tea.Msg {
		return opDoneMsg{op: "toggle", err: vm.AddToChart(ctx, sensor, valueType)}
	}
}

func (m Model) clearCmd() tea.Cmd {
	vm := m.vm
	return func() tea.Msg {
		vm.ClearChart()
		return opDoneMsg{op: "clear"}
	}
}
