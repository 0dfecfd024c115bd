package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pindeck/pindeck/internal/geometry"
	"github.com/pindeck/pindeck/internal/ipc"
)

// monitorItem implements list.Item for the monitor sidebar.
type monitorItem struct {
	info ipc.MonitorInfo
}

func (i monitorItem) Title() string {
	prefix := "  "
	if i.info.Primary {
		prefix = "* "
	}
	return prefix + i.info.Name
}

func (i monitorItem) Description() string { return "" }
func (i monitorItem) FilterValue() string { return i.info.Name }

// statusMsg is sent after an IPC action completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

// MonitorsTab is the sub-model for the Monitors browser tab.
type MonitorsTab struct {
	list      list.Model
	ipcClient *ipc.Client

	monitors []ipc.MonitorInfo
	status   *ipc.StatusData

	statusText string

	width  int
	height int
	ready  bool
}

// NewMonitorsTab creates a new MonitorsTab sub-model.
func NewMonitorsTab(ipcClient *ipc.Client) MonitorsTab {
	mt := MonitorsTab{ipcClient: ipcClient}
	mt.refreshFromDaemon()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(mt.buildItems(), delegate, 0, 0)
	l.Title = "Monitors"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	mt.list = l
	return mt
}

func (mt MonitorsTab) buildItems() []list.Item {
	items := make([]list.Item, 0, len(mt.monitors))
	for _, m := range mt.monitors {
		items = append(items, monitorItem{info: m})
	}
	return items
}

// Init implements tea.Model.
func (mt MonitorsTab) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (mt MonitorsTab) Update(msg tea.Msg) (MonitorsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		mt.width = msg.Width
		mt.height = msg.Height
		mt.updateListSize()
		mt.ready = true
		return mt, nil

	case statusMsg:
		mt.statusText = msg.text
		return mt, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		mt.statusText = ""
		return mt, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			mt.refreshFromDaemon()
			mt.list.SetItems(mt.buildItems())
			return mt.flash("refreshed")
		case "enter", "p":
			return mt.repositionPanel()
		case "v":
			return mt.togglePanel()
		}
	}

	var cmd tea.Cmd
	mt.list, cmd = mt.list.Update(msg)
	return mt, cmd
}

func (mt *MonitorsTab) updateListSize() {
	sidebarWidth := mt.sidebarWidth()
	// Reserve 2 lines for status bar at bottom of the tab content
	listHeight := mt.height - 2
	if listHeight < 1 {
		listHeight = 1
	}
	mt.list.SetSize(sidebarWidth, listHeight)
}

func (mt MonitorsTab) sidebarWidth() int {
	// Sidebar takes ~35% of width, min 20, max 40
	sw := mt.width * 35 / 100
	if sw < 20 {
		sw = 20
	}
	if sw > 40 {
		sw = 40
	}
	return sw
}

func (mt MonitorsTab) flash(text string) (MonitorsTab, tea.Cmd) {
	mt.statusText = text
	return mt, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (mt MonitorsTab) repositionPanel() (MonitorsTab, tea.Cmd) {
	if mt.ipcClient == nil || len(mt.monitors) == 0 {
		return mt.flash("daemon not connected")
	}
	if err := mt.ipcClient.Reposition(); err != nil {
		return mt.flash(fmt.Sprintf("error: %v", err))
	}
	mt.refreshFromDaemon()
	return mt.flash("panel repositioned")
}

func (mt MonitorsTab) togglePanel() (MonitorsTab, tea.Cmd) {
	if mt.ipcClient == nil || mt.status == nil {
		return mt.flash("daemon not connected")
	}
	var err error
	var verb string
	if mt.status.Panel != nil && mt.status.Panel.Visible {
		err = mt.ipcClient.HidePanel()
		verb = "panel hidden"
	} else {
		err = mt.ipcClient.ShowPanel()
		verb = "panel shown"
	}
	if err != nil {
		return mt.flash(fmt.Sprintf("error: %v", err))
	}
	mt.refreshFromDaemon()
	return mt.flash(verb)
}

func (mt *MonitorsTab) refreshFromDaemon() {
	if mt.ipcClient == nil {
		return
	}
	status, err := mt.ipcClient.GetStatus()
	if err != nil {
		mt.status = nil
		mt.monitors = nil
		return
	}
	mt.status = status

	data, err := mt.ipcClient.GetMonitors()
	if err != nil {
		mt.monitors = nil
		return
	}
	mt.monitors = data.Monitors
}

func (mt MonitorsTab) selectedMonitor() (ipc.MonitorInfo, bool) {
	item, ok := mt.list.SelectedItem().(monitorItem)
	if !ok {
		return ipc.MonitorInfo{}, false
	}
	return item.info, true
}

// View implements tea.Model.
func (mt MonitorsTab) View() string {
	if !mt.ready || mt.width == 0 || mt.height == 0 {
		return ""
	}

	if len(mt.monitors) == 0 {
		style := lipgloss.NewStyle().
			Width(mt.width).
			Height(mt.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center)
		return style.Render("No monitors to show (is the daemon running?)")
	}

	sidebarWidth := mt.sidebarWidth()
	previewWidth := mt.width - sidebarWidth - 3 // 3 for separator + padding
	if previewWidth < 10 {
		previewWidth = 10
	}

	// Render sidebar (monitor list)
	sidebar := mt.list.View()
	sidebarStyle := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(mt.height - 2) // reserve for status
	sidebar = sidebarStyle.Render(sidebar)

	// Render detail pane
	detail := mt.renderDetail(previewWidth)

	// Separator
	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("│\n", mt.height-2))

	// Join columns
	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, detail)

	// Status / help bar for this tab
	status := mt.renderTabStatus()

	return lipgloss.JoinVertical(lipgloss.Left, columns, status)
}

func (mt MonitorsTab) renderDetail(previewWidth int) string {
	info, ok := mt.selectedMonitor()
	if !ok {
		return ""
	}

	mon := geometry.Monitor{
		ID:          info.ID,
		Name:        info.Name,
		X:           info.X,
		Y:           info.Y,
		Width:       info.Width,
		Height:      info.Height,
		ScaleFactor: info.ScaleFactor,
		Primary:     info.Primary,
	}
	logical := mon.Logical()

	titleText := " " + info.Name
	if info.Primary {
		titleText += "  [primary]"
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(titleText)

	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	row := func(label, value string) string {
		return rowStyle.Render(fmt.Sprintf(" %-10s %s", label, value))
	}

	lines := []string{
		title,
		"",
		row("Device", fmt.Sprintf("%dx%d at (%d, %d)", info.Width, info.Height, info.X, info.Y)),
		row("Logical", fmt.Sprintf("%.0fx%.0f at (%.0f, %.0f)", logical.Width, logical.Height, logical.X, logical.Y)),
		row("Scale", formatFloat(info.ScaleFactor)),
	}

	if mt.status != nil && mt.status.Panel != nil {
		p := mt.status.Panel
		visibility := "hidden"
		if p.Visible {
			visibility = "visible"
		}
		lines = append(lines,
			"",
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render(" Panel"),
			"",
			row("Size", fmt.Sprintf("%.0fx%.0f", p.Width, p.Height)),
			row("Position", fmt.Sprintf("(%.0f, %.0f)", p.X, p.Y)),
			row("State", visibility),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (mt MonitorsTab) renderTabStatus() string {
	left := ""
	if mt.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(mt.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("enter/p:reposition  v:show/hide  r:refresh")

	gap := mt.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(mt.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
