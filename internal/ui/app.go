// Package ui provides the terminal front-end for naamjap.
// This file contains the main App model which coordinates all panes and
// routes messages using the Bubble Tea architecture.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"naamjap/internal/config"
	"naamjap/internal/datekey"
	"naamjap/internal/focus"
	"naamjap/internal/notify"
	"naamjap/internal/reports"
	"naamjap/internal/session"
	"naamjap/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneCounter PaneID = iota
	PaneStats
	PaneHistory
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows all three panes side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

// Deps are the services the app drives.
type Deps struct {
	Machine    *session.Machine
	Repo       *storage.Repository
	Reports    *reports.Generator
	Dispatcher *notify.Dispatcher // nil disables in-app reminder delivery
	Focus      *focus.Timer       // nil hides the focus timer
	Clock      datekey.Clock
	Logger     *slog.Logger
}

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmReset          bool
	ShowOnboarding        bool
	NarrowLayoutThreshold int
	PollInterval          time.Duration // reminder check interval, 0 disables
}

// App is the main application model that coordinates all panes.
type App struct {
	ctx         context.Context
	deps        Deps
	styles      *Styles
	config      *AppConfig
	counterPane *CounterPane
	statsPane   *StatsPane
	historyPane *HistoryPane
	helpOverlay *HelpOverlay
	undoManager *UndoManager
	undoBusy    bool
	confirm     *confirmState
	activePane  PaneID
	layoutMode  LayoutMode
	showHelp    bool
	showWelcome bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	// Key bindings
	keys        GlobalKeyMap
	counterKeys CounterKeyMap
	helpKeys    HelpKeyMap

	// Pane positions for mouse click detection (x coordinates)
	counterPaneStart int
	counterPaneEnd   int
	statsPaneStart   int
	statsPaneEnd     int
	historyPaneStart int
	historyPaneEnd   int
	contentTop       int // Y coordinate where content starts
}

type confirmState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates a new application. Data loading is deferred to Init()
// to keep the constructor non-blocking.
func NewApp(ctx context.Context, deps Deps, styles *Styles, cfg *AppConfig) *App {
	// Use default config if nil
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmReset:          true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 80,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	app := &App{
		ctx:         ctx,
		deps:        deps,
		styles:      styles,
		config:      cfg,
		counterPane: NewCounterPane(ctx, deps.Machine, deps.Repo, styles, cfg.Keys),
		statsPane:   NewStatsPane(ctx, deps.Reports, deps.Clock, styles, cfg.Keys),
		historyPane: NewHistoryPane(ctx, deps.Machine, styles, cfg.Keys),
		helpOverlay: NewHelpOverlay(styles),
		undoManager: NewUndoManager(),
		activePane:  PaneCounter,
		showWelcome: cfg.ShowOnboarding && isFirstRun(ctx, deps.Machine),
		keys:        NewGlobalKeyMap(cfg.Keys),
		counterKeys: NewCounterKeyMap(cfg.Keys),
		helpKeys:    DefaultHelpKeyMap(),
	}
	if deps.Focus != nil {
		app.counterPane.SetFocusTimer(deps.Focus, deps.Clock)
	}
	app.setActivePane(PaneCounter)

	return app
}

// isFirstRun reports whether nothing has been chanted or selected yet.
func isFirstRun(ctx context.Context, m *session.Machine) bool {
	st, err := m.State(ctx)
	if err != nil || st.ActiveMantra != "" || st.Count > 0 {
		return false
	}
	malas, err := m.MalaCount(ctx)
	if err != nil || malas > 0 {
		return false
	}
	history, err := m.History(ctx)
	return err == nil && len(history) == 0
}

// tickMsg is sent periodically for time updates.
type tickMsg time.Time

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the app and loads all data asynchronously.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(),
		a.counterPane.LoadCmd(),
		a.statsPane.LoadCmd(),
		a.historyPane.LoadCmd(),
	}
	if cmd := a.counterPane.LoadFocusCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if a.remindersActive() {
		cmds = append(cmds, dispatchRemindersCmd(a.ctx, a.deps.Dispatcher, a.deps.Clock.Now()))
		cmds = append(cmds, reminderTickCmd(a.config.PollInterval))
	}
	return tea.Batch(cmds...)
}

func (a *App) remindersActive() bool {
	return a.deps.Dispatcher != nil && a.config.PollInterval > 0
}

// reloadAll refreshes every pane from the store.
func (a *App) reloadAll() tea.Cmd {
	return tea.Batch(
		a.counterPane.LoadCmd(),
		a.statsPane.LoadCmd(),
		a.historyPane.LoadCmd(),
	)
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Route async messages to their panes first (before key handling).
	// This ensures storage operation results are processed regardless
	// of which pane is active.
	switch msg := msg.(type) {
	case counterLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Counter: "+msg.err.Error(), true)
		}
		return a, a.counterPane.Update(msg)

	case tappedMsg:
		if errors.Is(msg.err, session.ErrMantraRequired) {
			a.SetStatus("Select a mantra first", true)
			a.setActivePane(PaneCounter)
			return a, a.counterPane.OpenPicker()
		}
		if msg.err != nil {
			a.SetStatus("Chant: "+msg.err.Error(), true)
			return a, nil
		}
		cmd := a.counterPane.Update(msg)
		if msg.result.Completed && msg.result.Entry != nil {
			a.SetStatus(fmt.Sprintf("Mala complete: %s (%d)", truncateText(msg.result.Entry.Mantra, 30), msg.result.Entry.Count), false)
			return a, tea.Batch(cmd, a.statsPane.LoadCmd(), a.historyPane.LoadCmd())
		}
		return a, tea.Batch(cmd, a.statsPane.LoadCmd())

	case ackElapsedMsg:
		return a, a.counterPane.Update(msg)

	case cycleFinishedMsg:
		if msg.err != nil {
			a.SetStatus("Next mala: "+msg.err.Error(), true)
		}
		return a, a.counterPane.Update(msg)

	case mantraSwitchedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, session.ErrDuplicateMantra) {
				a.SetStatus(truncateText(msg.name, 30)+" is already in the list", true)
			} else {
				a.SetStatus("Mantra: "+msg.err.Error(), true)
			}
			return a, nil
		}
		a.undoManager.Push(NewSwitchMantraAction(a.ctx, a.deps.Repo, a.deps.Machine, msg.name, msg.added, msg.before))
		a.SetStatus("Chanting "+truncateText(msg.name, 30), false)
		return a, tea.Batch(a.counterPane.Update(msg), a.historyPane.LoadCmd(), a.statsPane.LoadCmd())

	case targetSetMsg:
		if msg.err != nil {
			a.SetStatus("Target: "+msg.err.Error(), true)
			return a, nil
		}
		a.SetStatus(fmt.Sprintf("Target set to %d", msg.target), false)
		return a, tea.Batch(a.counterPane.Update(msg), a.statsPane.LoadCmd())

	case resetDoneMsg:
		if msg.err != nil {
			a.SetStatus("Reset: "+msg.err.Error(), true)
			return a, nil
		}
		a.undoManager.Push(NewResetAction(a.ctx, a.deps.Repo, a.deps.Machine, msg.result.DateKey, msg.before))
		a.SetStatus(fmt.Sprintf("Reset today: %d chants, %d sessions removed", msg.result.RemovedCount, msg.result.RemovedEntries), false)
		return a, tea.Batch(a.counterPane.Update(msg), a.statsPane.LoadCmd(), a.historyPane.LoadCmd())

	case moodSetMsg:
		if msg.err != nil {
			a.SetStatus("Mood: "+msg.err.Error(), true)
			return a, nil
		}
		a.SetStatus("Mood: "+msg.mood, false)
		return a, a.counterPane.Update(msg)

	case focusLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Focus: "+msg.err.Error(), true)
		} else if msg.finished && !msg.state.Running {
			a.SetStatus("⏱ Focus timer done", false)
		}
		return a, a.counterPane.Update(msg)

	case statsLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Stats: "+msg.err.Error(), true)
		}
		return a, a.statsPane.Update(msg)

	case historyLoadedMsg:
		if msg.err != nil {
			a.SetStatus("History: "+msg.err.Error(), true)
		}
		return a, a.historyPane.Update(msg)

	case reminderTickMsg:
		if !a.remindersActive() {
			return a, nil
		}
		return a, tea.Batch(
			dispatchRemindersCmd(a.ctx, a.deps.Dispatcher, a.deps.Clock.Now()),
			reminderTickCmd(a.config.PollInterval),
		)

	case remindersDispatchedMsg:
		if msg.err != nil {
			a.deps.Logger.Warn("reminder dispatch failed", "err", msg.err)
			a.SetStatus("Reminders: "+msg.err.Error(), true)
		} else if msg.sent > 0 {
			a.SetStatus("🔔 Time for jap", false)
		}
		return a, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.showWelcome {
			a.showWelcome = false
			return a, nil
		}

		if a.confirm != nil {
			switch msg.String() {
			case "y", "Y", "enter":
				cmd := a.confirm.cmd
				a.confirm = nil
				return a, cmd
			case "n", "N", "esc":
				a.confirm = nil
				a.SetStatus("Canceled", false)
				return a, nil
			default:
				return a, nil
			}
		}

		// Help overlay takes priority
		if a.showHelp {
			if key.Matches(msg, a.helpKeys.Close) {
				a.showHelp = false
			}
			return a, nil
		}

		if !a.counterPane.IsInputMode() {
			if a.activePane == PaneCounter && key.Matches(msg, a.counterKeys.ResetToday) {
				return a, a.requestReset()
			}

			// Global keys only when not in input mode
			switch {
			case key.Matches(msg, a.keys.Quit):
				a.quitting = true
				return a, tea.Quit

			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil

			case key.Matches(msg, a.keys.NextPane):
				a.switchPane()
				return a, nil

			case key.Matches(msg, a.keys.Pane1):
				a.setActivePane(PaneCounter)
				return a, nil

			case key.Matches(msg, a.keys.Pane2):
				a.setActivePane(PaneStats)
				return a, nil

			case key.Matches(msg, a.keys.Pane3):
				a.setActivePane(PaneHistory)
				return a, nil

			case key.Matches(msg, a.keys.Undo):
				if a.undoBusy {
					a.SetStatus("Undo: busy", true)
					return a, nil
				}
				a.undoBusy = true
				return a, undoCmd(a.undoManager)

			case key.Matches(msg, a.keys.Redo):
				if a.undoBusy {
					a.SetStatus("Redo: busy", true)
					return a, nil
				}
				a.undoBusy = true
				return a, redoCmd(a.undoManager)
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tea.Batch(tickCmd(), a.counterPane.Update(msg))

	case undoResultMsg:
		a.undoBusy = false
		if msg.err != nil {
			a.SetStatus("Undo failed: "+msg.err.Error(), true)
		} else if msg.desc != "" {
			a.SetStatus("Undid: "+msg.desc, false)
		} else {
			a.SetStatus("Nothing to undo", false)
		}
		return a, a.reloadAll()

	case redoResultMsg:
		a.undoBusy = false
		if msg.err != nil {
			a.SetStatus("Redo failed: "+msg.err.Error(), true)
		} else if msg.desc != "" {
			a.SetStatus("Redid: "+msg.desc, false)
		} else {
			a.SetStatus("Nothing to redo", false)
		}
		return a, a.reloadAll()
	}

	// Forward to active pane (only if help is not shown)
	if a.showHelp {
		return a, nil
	}
	switch a.activePane {
	case PaneCounter:
		return a, a.counterPane.Update(msg)
	case PaneStats:
		return a, a.statsPane.Update(msg)
	case PaneHistory:
		return a, a.historyPane.Update(msg)
	}
	return a, nil
}

// requestReset clears today's practice, asking first when configured to.
func (a *App) requestReset() tea.Cmd {
	cmd := resetTodayCmd(a.ctx, a.deps.Machine, a.deps.Repo, a.deps.Clock)
	if !a.config.ConfirmReset {
		return cmd
	}
	a.confirm = &confirmState{
		title: "Reset today?",
		body:  fmt.Sprintf("Clears every chant and mala recorded on %s.", datekey.Key(a.deps.Clock.Now())),
		cmd:   cmd,
	}
	return nil
}

// handleMouse routes clicks and scrolls to the pane under the cursor.
func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.showWelcome {
		if msg.Action == tea.MouseActionPress {
			a.showWelcome = false
		}
		return nil
	}

	if a.confirm != nil {
		if msg.Action == tea.MouseActionPress {
			a.confirm = nil
			a.SetStatus("Canceled", false)
		}
		return nil
	}

	// Any click closes help
	if a.showHelp {
		if msg.Action == tea.MouseActionPress {
			a.showHelp = false
		}
		return nil
	}

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		localMsg := msg
		localMsg.Y = msg.Y - a.contentTop
		if a.activePane == PaneHistory {
			return a.historyPane.Update(localMsg)
		}
		return nil
	}

	if msg.Action != tea.MouseActionPress {
		return nil
	}

	// In narrow mode, check for tab bar clicks
	if a.layoutMode == LayoutNarrow && msg.Y == a.contentTop-1 {
		tabWidth := a.width / 3
		switch {
		case msg.X < tabWidth:
			a.setActivePane(PaneCounter)
		case msg.X < tabWidth*2:
			a.setActivePane(PaneStats)
		default:
			a.setActivePane(PaneHistory)
		}
		return nil
	}

	clicked := a.paneAtPosition(msg.X)
	if clicked >= 0 && clicked != a.activePane {
		a.setActivePane(clicked)
	}

	if msg.Y < a.contentTop {
		return nil
	}
	localMsg := msg
	localMsg.Y = msg.Y - a.contentTop
	if a.layoutMode == LayoutWide {
		switch a.activePane {
		case PaneStats:
			localMsg.X = msg.X - a.statsPaneStart
		case PaneHistory:
			localMsg.X = msg.X - a.historyPaneStart
		}
	}

	switch a.activePane {
	case PaneCounter:
		return a.counterPane.Update(localMsg)
	case PaneStats:
		return a.statsPane.Update(localMsg)
	case PaneHistory:
		return a.historyPane.Update(localMsg)
	}
	return nil
}

// switchPane cycles through panes.
func (a *App) switchPane() {
	switch a.activePane {
	case PaneCounter:
		a.setActivePane(PaneStats)
	case PaneStats:
		a.setActivePane(PaneHistory)
	case PaneHistory:
		a.setActivePane(PaneCounter)
	}
}

// setActivePane sets the active pane and updates focus states.
func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane

	a.counterPane.SetFocused(pane == PaneCounter)
	a.statsPane.SetFocused(pane == PaneStats)
	a.historyPane.SetFocused(pane == PaneHistory)
}

// paneAtPosition returns which pane is at the given X coordinate.
// Returns -1 if no pane is at that position.
func (a *App) paneAtPosition(x int) PaneID {
	if a.layoutMode == LayoutNarrow {
		return a.activePane
	}

	if x >= a.counterPaneStart && x < a.counterPaneEnd {
		return PaneCounter
	}
	if x >= a.statsPaneStart && x < a.statsPaneEnd {
		return PaneStats
	}
	if x >= a.historyPaneStart && x < a.historyPaneEnd {
		return PaneHistory
	}
	return -1
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Leave room for title bar (2) and help bar (1)
	contentHeight := a.height - 4
	if contentHeight < 10 {
		contentHeight = 10
	}

	// Content starts after title bar
	a.contentTop = 1

	a.helpOverlay.SetSize(a.width, a.height)

	totalWidth := a.width - 4

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}

	if a.width < threshold {
		// Narrow mode: single focused pane with tab bar
		a.layoutMode = LayoutNarrow

		narrowHeight := contentHeight - 1
		if narrowHeight < 8 {
			narrowHeight = 8
		}

		paneWidth := totalWidth
		if paneWidth < 20 {
			paneWidth = 20
		}

		a.counterPane.SetSize(paneWidth, narrowHeight)
		a.statsPane.SetSize(paneWidth, narrowHeight)
		a.historyPane.SetSize(paneWidth, narrowHeight)

		a.counterPaneStart, a.counterPaneEnd = 0, a.width
		a.statsPaneStart, a.statsPaneEnd = 0, a.width
		a.historyPaneStart, a.historyPaneEnd = 0, a.width
		// Content starts after tab bar in narrow mode
		a.contentTop = 2
		return
	}

	// Wide mode: three panes side-by-side
	a.layoutMode = LayoutWide

	var counterWidth, statsWidth, historyWidth int
	if totalWidth < 120 {
		counterWidth = (totalWidth * 32) / 100
		statsWidth = (totalWidth * 34) / 100
		historyWidth = totalWidth - counterWidth - statsWidth - 2
	} else {
		counterWidth = min((totalWidth*32)/100, 46)
		statsWidth = min((totalWidth*34)/100, 56)
		historyWidth = min(totalWidth-counterWidth-statsWidth-2, 60)
	}

	a.counterPane.SetSize(counterWidth, contentHeight)
	a.statsPane.SetSize(statsWidth, contentHeight)
	a.historyPane.SetSize(historyWidth, contentHeight)

	// Pane positions with 1 space gaps between panes
	a.counterPaneStart = 0
	a.counterPaneEnd = counterWidth
	a.statsPaneStart = counterWidth + 1
	a.statsPaneEnd = a.statsPaneStart + statsWidth
	a.historyPaneStart = a.statsPaneEnd + 1
	a.historyPaneEnd = a.historyPaneStart + historyWidth
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.showWelcome {
		return a.renderWelcome()
	}

	if a.confirm != nil {
		return a.renderConfirm()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder

	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")

	switch a.layoutMode {
	case LayoutNarrow:
		b.WriteString(a.renderNarrowContent())
	default:
		b.WriteString(a.renderWideContent())
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())

	return b.String()
}

func (a *App) renderWelcome() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorPrimary).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome to naamjap"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render("Pick a mantra with 'm', then press space for every chant.\n"))
	b.WriteString(bodyStyle.Render("Tab switches panes. ? opens help.\n"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press any key to continue"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func (a *App) renderConfirm() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirm.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirm.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] reset    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderWideContent renders all three panes side by side.
func (a *App) renderWideContent() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		a.counterPane.View(), " ",
		a.statsPane.View(), " ",
		a.historyPane.View(),
	)
}

// renderNarrowContent renders the focused pane with a tab bar.
func (a *App) renderNarrowContent() string {
	var b strings.Builder

	b.WriteString(a.renderPaneTabs())
	b.WriteString("\n")

	switch a.activePane {
	case PaneCounter:
		b.WriteString(a.counterPane.View())
	case PaneStats:
		b.WriteString(a.statsPane.View())
	case PaneHistory:
		b.WriteString(a.historyPane.View())
	}

	return b.String()
}

// renderPaneTabs renders a tab bar showing available panes.
func (a *App) renderPaneTabs() string {
	tabs := []struct {
		id    PaneID
		label string
	}{
		{PaneCounter, "Jap"},
		{PaneStats, "Stats"},
		{PaneHistory, "History"},
	}

	activeTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorPrimary).
		Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var parts []string
	for _, tab := range tabs {
		if tab.id == a.activePane {
			parts = append(parts, activeTabStyle.Render("["+tab.label+"]"))
		} else {
			parts = append(parts, inactiveTabStyle.Render(" "+tab.label+" "))
		}
	}

	tabBar := strings.Join(parts, "  ")
	padding := (a.width - lipgloss.Width(tabBar)) / 2
	if padding > 0 {
		tabBar = strings.Repeat(" ", padding) + tabBar
	}

	return tabBar
}

// renderGoodbye shows an exit message with today's practice.
func (a *App) renderGoodbye() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  🙏 See you at the next jap.\n")
	b.WriteString("\n")

	if s := a.statsPane.Summary(); s != nil && (s.Today > 0 || a.counterPane.Malas() > 0) {
		b.WriteString("  Today's practice:\n")
		b.WriteString(fmt.Sprintf("     Chants: %d / %d\n", s.Today, s.TodayTarget))
		b.WriteString(fmt.Sprintf("     Malas:  %d\n", a.counterPane.Malas()))
		if s.Streaks.Current > 0 {
			b.WriteString(fmt.Sprintf("     Streak: %d days\n", s.Streaks.Current))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderTitleBar creates the top title bar with the live count.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" naamjap ")

	var items []string
	if mantra := a.counterPane.Mantra(); mantra != "" {
		items = append(items, a.styles.MantraStyle.Render(runewidth.Truncate(mantra, 20, "…")))
		items = append(items, fmt.Sprintf("%d/%d", a.counterPane.Count(), a.counterPane.Target()))
	}
	if malas := a.counterPane.Malas(); malas > 0 {
		items = append(items, fmt.Sprintf("Malas: %d", malas))
	}
	stats := a.styles.StatLabelStyle.Render(strings.Join(items, "  "))

	var streak string
	if s := a.statsPane.Summary(); s != nil && s.Streaks.Current > 0 {
		streak = a.styles.StreakStyle.Render(fmt.Sprintf("🔥 %d", s.Streaks.Current))
	}

	date := a.styles.DateStyle.Render(a.deps.Clock.Now().Format("Mon Jan 2 · 15:04"))

	usedWidth := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(streak) + lipgloss.Width(date)
	spacerWidth := a.width - usedWidth - 6
	if spacerWidth < 2 {
		spacerWidth = 2
	}

	parts := []string{title}
	if len(items) > 0 {
		parts = append(parts, "  "+stats)
	}
	parts = append(parts, strings.Repeat(" ", spacerWidth/2))
	if streak != "" {
		parts = append(parts, streak)
	}
	parts = append(parts, strings.Repeat(" ", spacerWidth-spacerWidth/2))
	parts = append(parts, date)

	return strings.Join(parts, "")
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	switch a.counterPane.mode {
	case counterPicking:
		return a.styles.RenderHelp(
			"enter", "select",
			"a", "new",
			"j/k", "nav",
			"esc", "cancel",
		)
	case counterAddingMantra, counterSettingTarget:
		return a.styles.RenderHelp(
			"enter", "save",
			"esc", "cancel",
		)
	}

	switch a.activePane {
	case PaneCounter:
		return a.styles.RenderHelp(
			"space", "chant",
			"m", "mantra",
			"t", "target",
			"f", "focus",
			"R", "reset",
			"tab", "pane",
			"?", "help",
		)
	case PaneStats:
		return a.styles.RenderHelp(
			"p", string(a.statsPane.Period()),
			"tab", "pane",
			"?", "help",
		)
	case PaneHistory:
		return a.styles.RenderHelp(
			"j/k", "nav",
			"u", "undo",
			"tab", "pane",
			"?", "help",
		)
	}

	return ""
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, deps Deps, styles *Styles, cfg *AppConfig) error {
	app := NewApp(ctx, deps, styles, cfg)
	p := tea.NewProgram(app,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
