package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/homeweave/weavectl/internal/config"
	"github.com/homeweave/weavectl/internal/core/domain"
	apihttp "github.com/homeweave/weavectl/internal/http"
)

// ConsoleFlags holds command-line flags for the console command
type ConsoleFlags struct {
	RefreshRate time.Duration
}

// newConsoleCommand creates the interactive console command
func newConsoleCommand() *cobra.Command {
	flags := &ConsoleFlags{}

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive terminal console for managing plugins",
		Long: `Launch an interactive terminal console showing the server's plugins.

The console offers the same controls as the web page: Install for an
uninstalled plugin, Remove plus Enable or Disable otherwise, with a
Running / Not running status for enabled plugins. After every action the
list is re-fetched so the view follows the server.

Examples:
  weavectl console                 # Connect to the configured server
  weavectl console --refresh 10s   # Slower auto-refresh`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("refresh") {
				flags.RefreshRate = cfg.Refresh()
			}
			return runConsole(cfg, flags)
		},
	}

	cmd.Flags().DurationVar(&flags.RefreshRate, "refresh", 5*time.Second, "Refresh rate for live updates")

	return cmd
}

// runConsole starts the terminal console
func runConsole(cfg *config.Config, flags *ConsoleFlags) error {
	model := newConsoleModel(newClient(cfg), flags.RefreshRate)

	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("console failed: %w", err)
	}

	return nil
}

// consoleKeyMap defines the console key bindings
type consoleKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Install key.Binding
	Remove  key.Binding
	Enable  key.Binding
	Disable key.Binding
	Refresh key.Binding
	Pause   key.Binding
	Quit    key.Binding
}

// ShortHelp implements help.KeyMap
func (k consoleKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Install, k.Remove, k.Enable, k.Disable, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap
func (k consoleKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Pause},
		{k.Install, k.Remove, k.Enable, k.Disable},
		{k.Refresh, k.Quit},
	}
}

func defaultConsoleKeyMap() consoleKeyMap {
	return consoleKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Install: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "install")),
		Remove:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "remove")),
		Enable:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "enable")),
		Disable: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "disable")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Pause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	consoleTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86"))

	consoleHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86"))

	consoleSelectedStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("240"))

	consoleDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	consoleNoticeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	runningStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	notRunningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// consoleModel holds the state for the Bubble Tea console
type consoleModel struct {
	client      *apihttp.ConsoleClient
	refreshRate time.Duration
	keys        consoleKeyMap
	help        help.Model
	spinner     spinner.Model

	plugins     []domain.Plugin
	selectedRow int
	loading     bool
	paused      bool
	notice      string
	lastUpdate  time.Time
	err         error

	windowWidth  int
	windowHeight int
}

// newConsoleModel creates a new console model
func newConsoleModel(client *apihttp.ConsoleClient, refreshRate time.Duration) consoleModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	return consoleModel{
		client:      client,
		refreshRate: refreshRate,
		keys:        defaultConsoleKeyMap(),
		help:        help.New(),
		spinner:     sp,
		loading:     true,
		lastUpdate:  time.Now(),
	}
}

// consoleTickMsg is sent every refresh interval
type consoleTickMsg time.Time

// pluginsLoadedMsg is sent when the plugin list has been fetched
type pluginsLoadedMsg struct {
	plugins []domain.Plugin
}

// actionDoneMsg is sent when a dispatched action has completed
type actionDoneMsg struct {
	verb string
	name string
	err  error
}

// listErrMsg is sent when fetching the plugin list fails
type listErrMsg struct {
	err error
}

// Init implements the Bubble Tea init method
func (m consoleModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.tickCmd(),
		m.loadPluginsCmd(),
	)
}

// Update implements the Bubble Tea update method
func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case consoleTickMsg:
		if !m.paused && !m.loading {
			m.loading = true
			return m, tea.Batch(m.tickCmd(), m.loadPluginsCmd())
		}
		return m, m.tickCmd()

	case pluginsLoadedMsg:
		m.plugins = msg.plugins
		m.loading = false
		m.err = nil
		m.lastUpdate = time.Now()
		if m.selectedRow >= len(m.plugins) && len(m.plugins) > 0 {
			m.selectedRow = len(m.plugins) - 1
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.notice = errorStyle.Render(fmt.Sprintf("%s %s failed: %v", msg.verb, msg.name, msg.err))
			m.loading = false
			return m, nil
		}
		m.notice = fmt.Sprintf("%s %s dispatched", msg.verb, msg.name)
		// The server is the source of truth; re-read it.
		return m, m.loadPluginsCmd()

	case listErrMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey processes one key press
func (m consoleModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(m.plugins)-1 {
			m.selectedRow++
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.loadPluginsCmd()

	case key.Matches(msg, m.keys.Install):
		return m.dispatch(domain.ControlInstall)

	case key.Matches(msg, m.keys.Remove):
		return m.dispatch(domain.ControlRemove)

	case key.Matches(msg, m.keys.Enable):
		return m.dispatch(domain.ControlEnable)

	case key.Matches(msg, m.keys.Disable):
		return m.dispatch(domain.ControlDisable)
	}

	return m, nil
}

// dispatch issues the action for the selected plugin, provided the
// control is offered for its current state. Enable and disable are
// never dispatched for an uninstalled plugin.
func (m consoleModel) dispatch(control domain.Control) (tea.Model, tea.Cmd) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.plugins) {
		return m, nil
	}
	p := m.plugins[m.selectedRow]

	if !p.HasControl(control) {
		m.notice = consoleNoticeStyle.Render(
			fmt.Sprintf("%s is not available for %s (%s)", control, p.Name, stateLabel(p)))
		return m, nil
	}

	m.loading = true
	m.notice = ""
	return m, m.actionCmd(control, p)
}

// View implements the Bubble Tea view method
func (m consoleModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress 'r' to retry or 'q' to quit\n", m.err)
	}

	header := m.renderHeader()
	table := m.renderPluginTable()
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, table, footer)
}

// renderHeader renders the console header
func (m consoleModel) renderHeader() string {
	title := consoleTitleStyle.Render("🧩 Weave Plugin Console")

	info := fmt.Sprintf("Server: %s | Plugins: %d", m.client.BaseURL(), len(m.plugins))

	status := "LIVE"
	statusStyle := runningStyle.Bold(true)
	if m.paused {
		status = "PAUSED"
		statusStyle = errorStyle.Bold(true)
	}

	line1 := lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", info, "  ", statusStyle.Render(status))

	activity := ""
	if m.loading {
		activity = " " + m.spinner.View() + "fetching"
	}
	line2 := fmt.Sprintf("Last update: %s | Refresh: %v%s",
		m.lastUpdate.Format("15:04:05"), m.refreshRate, activity)

	return lipgloss.JoinVertical(lipgloss.Left, line1, line2, "")
}

// renderPluginTable renders the main plugin table
func (m consoleModel) renderPluginTable() string {
	if len(m.plugins) == 0 {
		if m.loading {
			return consoleDimStyle.Render("\n  " + m.spinner.View() + "Fetching plugins...\n")
		}
		return consoleDimStyle.Render("\n  The server reports no plugins.\n")
	}

	header := consoleHeaderStyle.Render(fmt.Sprintf("  %-20s │ %-9s │ %-11s │ %-22s │ %s",
		"NAME", "STATE", "STATUS", "CONTROLS", "DESCRIPTION"))

	rows := []string{header}

	maxRows := m.windowHeight - 8
	if maxRows < 1 {
		maxRows = len(m.plugins)
	}

	for i, p := range m.plugins {
		if i >= maxRows {
			rows = append(rows, consoleDimStyle.Render(fmt.Sprintf("  … %d more", len(m.plugins)-maxRows)))
			break
		}

		cursor := "  "
		rowStyle := lipgloss.NewStyle()
		if i == m.selectedRow {
			cursor = "> "
			rowStyle = consoleSelectedStyle
		}

		row := fmt.Sprintf("%s%-20s │ %-9s │ %-11s │ %-22s │ %s",
			cursor,
			truncateString(p.Name, 20),
			stateLabel(p),
			m.renderStatus(p),
			controlsLabel(p),
			truncateString(p.Description, 40),
		)

		rows = append(rows, rowStyle.Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderStatus renders the Running / Not running label for a plugin
func (m consoleModel) renderStatus(p domain.Plugin) string {
	switch p.Status() {
	case domain.StatusRunning:
		return runningStyle.Render(string(domain.StatusRunning))
	case domain.StatusNotRunning:
		return notRunningStyle.Render(string(domain.StatusNotRunning))
	default:
		return ""
	}
}

// renderFooter renders the notice line and key help
func (m consoleModel) renderFooter() string {
	notice := ""
	if m.notice != "" {
		notice = m.notice
	}

	return lipgloss.JoinVertical(lipgloss.Left, "", notice, m.help.View(m.keys))
}

// tickCmd creates a tick command for auto-refresh
func (m consoleModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshRate, func(t time.Time) tea.Msg {
		return consoleTickMsg(t)
	})
}

// loadPluginsCmd fetches the plugin list from the backend
func (m consoleModel) loadPluginsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		plugins, err := client.ListPlugins(context.Background())
		if err != nil {
			return listErrMsg{err: fmt.Errorf("failed to load plugins: %w", err)}
		}
		return pluginsLoadedMsg{plugins: plugins}
	}
}

// actionCmd dispatches one mutating call for the given control
func (m consoleModel) actionCmd(control domain.Control, p domain.Plugin) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		switch control {
		case domain.ControlInstall:
			_, err = client.Install(ctx, p.ID)
		case domain.ControlRemove:
			_, err = client.Uninstall(ctx, p.ID)
		case domain.ControlEnable:
			_, err = client.Activate(ctx, p.ID)
		case domain.ControlDisable:
			_, err = client.Deactivate(ctx, p.ID)
		}
		return actionDoneMsg{verb: string(control), name: p.Name, err: err}
	}
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
