package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pindeck/pindeck/internal/config"
)

// SettingsTab is the sub-model for the Settings tab.
type SettingsTab struct {
	cfg *config.Config

	// Display dimensions
	width  int
	height int

	// Edit mode
	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fTitle     string
	fWidth     string
	fHeight    string
	fOffset    string
	fOnTop     bool
	fEnabled   bool
	fHotkey    string
	fAutostart bool
	fLogLevel  string
	fScale     string
	fEndpoint  string
	fInterval  string
	fNotify    bool
}

// NewSettingsTab creates a SettingsTab from the loaded config.
func NewSettingsTab(cfg *config.Config) SettingsTab {
	return SettingsTab{cfg: cfg}
}

// Init implements tea.Model.
func (g SettingsTab) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (g SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if g.editing {
		return g.updateEditing(msg)
	}
	return g.updateDisplay(msg)
}

func (g SettingsTab) updateDisplay(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" {
			g.startEditing()
			return g, g.form.Init()
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}
	return g, nil
}

func (g SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			g.editing = false
			g.form = nil
			return g, nil
		}
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}

	if g.form.State == huh.StateCompleted {
		g.applyForm()
		g.editing = false
		g.form = nil
		return g, nil
	}

	return g, cmd
}

func (g *SettingsTab) startEditing() {
	cfg := g.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	g.fTitle = cfg.Panel.Title
	g.fWidth = formatFloat(cfg.Panel.Width)
	g.fHeight = formatFloat(cfg.Panel.Height)
	g.fOffset = formatFloat(cfg.Panel.VerticalOffset)
	g.fOnTop = cfg.Panel.AlwaysOnTop
	g.fEnabled = cfg.Panel.Enabled
	g.fHotkey = cfg.Hotkeys.TogglePanel
	g.fAutostart = cfg.Autostart
	g.fLogLevel = strings.ToLower(cfg.Logging.Level)
	g.fScale = formatFloat(cfg.ScaleOverride)
	g.fEndpoint = cfg.Updater.Endpoint
	g.fInterval = strconv.Itoa(cfg.Updater.CheckIntervalHours)
	g.fNotify = cfg.Updater.Notify

	boolOpts := []huh.Option[bool]{
		huh.NewOption("enabled", true),
		huh.NewOption("disabled", false),
	}

	levelOpts := []huh.Option[string]{
		huh.NewOption("debug", "debug"),
		huh.NewOption("info", "info"),
		huh.NewOption("warn", "warn"),
		huh.NewOption("error", "error"),
	}

	w := g.width - 4
	if w < 40 {
		w = 40
	}

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Panel Title").
				Description("Window title of the panel").
				Value(&g.fTitle),

			huh.NewInput().
				Key("width").
				Title("Panel Width").
				Description("Logical pixels").
				Value(&g.fWidth),

			huh.NewInput().
				Key("height").
				Title("Panel Height").
				Description("Logical pixels").
				Value(&g.fHeight),

			huh.NewInput().
				Key("vertical_offset").
				Title("Vertical Offset").
				Description("Shift from center; negative moves up").
				Value(&g.fOffset),

			huh.NewSelect[bool]().
				Key("always_on_top").
				Title("Always On Top").
				Options(boolOpts...).
				Value(&g.fOnTop),

			huh.NewSelect[bool]().
				Key("panel_enabled").
				Title("Panel").
				Description("Disabled runs the daemon headless").
				Options(boolOpts...).
				Value(&g.fEnabled),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("toggle_hotkey").
				Title("Toggle Hotkey").
				Description("X11 keybinding; empty leaves it unbound").
				Value(&g.fHotkey),

			huh.NewSelect[bool]().
				Key("autostart").
				Title("Autostart").
				Description("Launch the daemon on login").
				Options(boolOpts...).
				Value(&g.fAutostart),

			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(levelOpts...).
				Value(&g.fLogLevel),

			huh.NewInput().
				Key("scale_override").
				Title("Scale Override").
				Description("Forced monitor scale; 0 detects automatically").
				Value(&g.fScale),

			huh.NewInput().
				Key("update_endpoint").
				Title("Update Endpoint").
				Description("Release manifest URL; empty disables checks").
				Value(&g.fEndpoint),

			huh.NewInput().
				Key("check_interval").
				Title("Check Interval (hours)").
				Value(&g.fInterval),

			huh.NewSelect[bool]().
				Key("notify").
				Title("Update Notifications").
				Options(boolOpts...).
				Value(&g.fNotify),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	g.editing = true
}

func (g *SettingsTab) applyForm() {
	if g.cfg == nil {
		return
	}

	g.cfg.Panel.Title = g.fTitle
	if v, err := strconv.ParseFloat(g.fWidth, 64); err == nil && v > 0 {
		g.cfg.Panel.Width = v
	}
	if v, err := strconv.ParseFloat(g.fHeight, 64); err == nil && v > 0 {
		g.cfg.Panel.Height = v
	}
	if v, err := strconv.ParseFloat(g.fOffset, 64); err == nil {
		g.cfg.Panel.VerticalOffset = v
	}
	g.cfg.Panel.AlwaysOnTop = g.fOnTop
	g.cfg.Panel.Enabled = g.fEnabled
	g.cfg.Hotkeys.TogglePanel = g.fHotkey
	g.cfg.Autostart = g.fAutostart
	if g.fLogLevel != "" {
		g.cfg.Logging.Level = g.fLogLevel
	}
	if v, err := strconv.ParseFloat(g.fScale, 64); err == nil && v >= 0 {
		g.cfg.ScaleOverride = v
	}
	g.cfg.Updater.Endpoint = g.fEndpoint
	if v, err := strconv.Atoi(g.fInterval); err == nil && v >= 0 {
		g.cfg.Updater.CheckIntervalHours = v
	}
	g.cfg.Updater.Notify = g.fNotify
}

// View implements tea.Model.
func (g SettingsTab) View() string {
	if g.editing && g.form != nil {
		return g.viewEditing()
	}
	return g.viewDisplay()
}

func (g SettingsTab) viewDisplay() string {
	cfg := g.cfg
	if cfg == nil {
		style := lipgloss.NewStyle().
			Width(g.width).
			Height(g.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center)
		return style.Render("No config loaded")
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(22).
		Align(lipgloss.Right).
		PaddingRight(2)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	size := formatFloat(cfg.Panel.Width) + "x" + formatFloat(cfg.Panel.Height)

	lines := []string{
		"",
		row("Panel Title", cfg.Panel.Title),
		row("Panel Size", size),
		row("Vertical Offset", formatFloat(cfg.Panel.VerticalOffset)),
		row("Always On Top", onOff(cfg.Panel.AlwaysOnTop)),
		row("Panel", onOff(cfg.Panel.Enabled)),
		"",
		row("Toggle Hotkey", displayOrDefault(cfg.Hotkeys.TogglePanel, "(unbound)")),
		row("Autostart", onOff(cfg.Autostart)),
		row("Log Level", cfg.Logging.Level),
		row("Scale Override", scaleOrAuto(cfg.ScaleOverride)),
		"",
		row("Update Endpoint", displayOrDefault(cfg.Updater.Endpoint, "(disabled)")),
		row("Check Interval", strconv.Itoa(cfg.Updater.CheckIntervalHours)+"h"),
		row("Notifications", onOff(cfg.Updater.Notify)),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}

	content := strings.Join(lines, "\n")

	contentStyle := lipgloss.NewStyle().
		Width(g.width).
		Height(g.height).
		Padding(1, 2)

	return contentStyle.Render(content)
}

func (g SettingsTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing Settings") +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	formView := g.form.View()

	content := header + "\n\n" + formView

	style := lipgloss.NewStyle().
		Width(g.width).
		Height(g.height).
		Padding(1, 2)

	return style.Render(content)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

func scaleOrAuto(v float64) string {
	if v <= 0 {
		return "(auto)"
	}
	return formatFloat(v)
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
