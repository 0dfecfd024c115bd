package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pindeck/pindeck/internal/config"
	"github.com/pindeck/pindeck/internal/ipc"
)

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	cfg        *config.Config
	ipcClient  *ipc.Client

	// Tab navigation
	activeTab Tab

	// Sub-models
	settingsTab SettingsTab
	monitorsTab MonitorsTab

	// Save overlay
	originalConfig *config.Config
	saveOverlay    SaveOverlay

	// Daemon state
	daemonConnected bool
	daemonPhase     string
	panelSummary    string

	// Terminal dimensions
	width  int
	height int
}

func newModel(configPath string) model {
	m := model{
		configPath: configPath,
		activeTab:  TabSettings,
	}

	// Load config
	m.loadConfig()

	// Snapshot original config for diff preview on save
	if m.cfg != nil {
		m.originalConfig = cloneConfig(m.cfg)
	}

	// Connect to daemon
	m.ipcClient = ipc.NewClient()
	if err := m.ipcClient.Ping(); err == nil {
		m.refreshDaemonStatus()
	}

	// Initialize sub-models
	m.settingsTab = NewSettingsTab(m.cfg)
	m.monitorsTab = NewMonitorsTab(m.ipcClient)

	return m
}

func (m *model) loadConfig() {
	var cfg *config.Config
	var err error

	if m.configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(m.configPath)
	}

	if err != nil {
		return
	}
	m.cfg = cfg
}

func (m *model) refreshDaemonStatus() {
	if m.ipcClient == nil {
		return
	}
	status, err := m.ipcClient.GetStatus()
	if err != nil {
		m.daemonConnected = false
		m.daemonPhase = ""
		m.panelSummary = ""
		return
	}
	m.daemonConnected = true
	m.daemonPhase = status.Phase
	m.panelSummary = summarizePanel(status.Panel)
}

func summarizePanel(p *ipc.PanelInfo) string {
	if p == nil {
		return ""
	}
	if !p.Visible {
		return "panel:hidden"
	}
	return fmt.Sprintf("panel:%.0fx%.0f@(%.0f,%.0f)", p.Width, p.Height, p.X, p.Y)
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// Approximate: status bar (1) + tab bar (2 with margin) + help bar (1) = 4 lines
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prevPhase := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(msg, m.cfg, m.ipcClient, m.daemonConnected)
			// After successful save, update the original snapshot
			if prevPhase == savePreview && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = cloneConfig(m.cfg)
				m.refreshDaemonStatus()
			}
		case tea.WindowSizeMsg:
			m.width = msg.Width
			m.height = msg.Height
		}
		return m, nil
	}

	// ctrl+s triggers save overlay from any context (including form editing)
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		if m.cfg != nil {
			m.saveOverlay.Show(m.originalConfig, m.cfg)
		}
		return m, nil
	}

	// When the settings form captures input, delegate all messages to it
	// (the form consumes keys; only ctrl+c escapes to quit)
	if m.activeTab == TabSettings && m.settingsTab.editing {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case tea.WindowSizeMsg:
			m.width = msg.Width
			m.height = msg.Height
			contentHeight := m.contentHeight()
			subMsg := tea.WindowSizeMsg{Width: m.width, Height: contentHeight}
			m.settingsTab, _ = m.settingsTab.Update(subMsg)
			m.monitorsTab, _ = m.monitorsTab.Update(subMsg)
			return m, nil
		}
		var cmd tea.Cmd
		m.settingsTab, cmd = m.settingsTab.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil

		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil

		case "1":
			m.activeTab = TabSettings
			return m, nil
		case "2":
			m.activeTab = TabMonitors
			return m, nil

		case "r":
			// Refresh daemon state on either tab
			m.refreshDaemonStatus()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Forward to sub-models with content dimensions
		contentHeight := m.contentHeight()
		subMsg := tea.WindowSizeMsg{Width: m.width, Height: contentHeight}
		m.settingsTab, _ = m.settingsTab.Update(subMsg)
		m.monitorsTab, _ = m.monitorsTab.Update(subMsg)
		return m, nil
	}

	// Delegate to active tab's sub-model
	switch m.activeTab {
	case TabSettings:
		var cmd tea.Cmd
		m.settingsTab, cmd = m.settingsTab.Update(msg)
		return m, cmd
	case TabMonitors:
		var cmd tea.Cmd
		m.monitorsTab, cmd = m.monitorsTab.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	// Status bar (top)
	statusBar := renderStatusBar(m.daemonConnected, m.daemonPhase, m.panelSummary, m.width)

	// Tab bar
	tabBar := renderTabBar(m.activeTab, m.width)

	// Help bar (bottom)
	helpBar := renderHelpBar(m.width)

	// Calculate content height: total - statusBar - tabBar - helpBar
	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Tab content (or save overlay)
	var content string
	if m.saveOverlay.Active() {
		content = m.saveOverlay.View(m.width, contentHeight)
	} else {
		switch m.activeTab {
		case TabSettings:
			content = m.settingsTab.View()
		case TabMonitors:
			content = m.monitorsTab.View()
		default:
			content = ""
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}

// Run starts the interactive settings TUI. It works as an offline
// editor when the daemon is not running.
func Run(configPath string) error {
	m := newModel(configPath)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
