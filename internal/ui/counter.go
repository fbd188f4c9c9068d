package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"naamjap/internal/config"
	"naamjap/internal/datekey"
	"naamjap/internal/focus"
	"naamjap/internal/session"
	"naamjap/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// counterMode is the interaction mode of the counter pane.
type counterMode int

const (
	counterNormal counterMode = iota
	counterPicking
	counterAddingMantra
	counterSettingTarget
)

// CounterPane shows the live chant counter and handles taps.
type CounterPane struct {
	ctx     context.Context
	machine *session.Machine
	repo    *storage.Repository
	styles  *Styles

	state      storage.CounterState
	mantras    []string
	malas      int
	completing bool // inside the acknowledgment window
	mood       string

	timer          *focus.Timer // nil hides the focus timer
	clock          datekey.Clock
	focusState     focus.State
	focusFinishing bool // a load for an expired timer is in flight

	mode   counterMode
	cursor int // picker cursor
	input  textinput.Model

	focused bool
	width   int
	height  int

	// Key bindings
	keys      CounterKeyMap
	inputKeys InputKeyMap
}

// NewCounterPane creates a counter pane with custom key bindings.
func NewCounterPane(ctx context.Context, m *session.Machine, repo *storage.Repository, styles *Styles, keyCfg *config.KeysConfig) *CounterPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.CharLimit = 60
	ti.Width = 30

	return &CounterPane{
		ctx:       ctx,
		machine:   m,
		repo:      repo,
		styles:    styles,
		input:     ti,
		keys:      NewCounterKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// LoadCmd returns a command that reloads the counter asynchronously.
func (p *CounterPane) LoadCmd() tea.Cmd {
	return loadCounterCmd(p.ctx, p.machine)
}

// SetFocusTimer attaches the focus timer shown under the counter.
func (p *CounterPane) SetFocusTimer(t *focus.Timer, clock datekey.Clock) {
	p.timer = t
	p.clock = clock
}

// LoadFocusCmd returns a command that reloads the focus timer, or nil when
// no timer is attached.
func (p *CounterPane) LoadFocusCmd() tea.Cmd {
	if p.timer == nil {
		return nil
	}
	return loadFocusCmd(p.ctx, p.timer, false)
}

// SetSize sets the pane dimensions.
func (p *CounterPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-14)
}

// SetFocused sets whether this pane is focused.
func (p *CounterPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *CounterPane) IsFocused() bool {
	return p.focused
}

// IsInputMode reports whether the pane is capturing keys for the picker or
// a text field.
func (p *CounterPane) IsInputMode() bool {
	return p.mode != counterNormal
}

// Count returns the current count.
func (p *CounterPane) Count() int { return p.state.Count }

// Target returns the current target.
func (p *CounterPane) Target() int { return p.state.Target }

// Mantra returns the active mantra, empty when none is selected.
func (p *CounterPane) Mantra() string { return p.state.ActiveMantra }

// Malas returns the completed mala count.
func (p *CounterPane) Malas() int { return p.malas }

// Completing reports whether a just-completed mala is being acknowledged.
func (p *CounterPane) Completing() bool { return p.completing }

// Mood returns the current session mood.
func (p *CounterPane) Mood() string { return p.mood }

// FocusState returns the last loaded focus timer.
func (p *CounterPane) FocusState() focus.State { return p.focusState }

// OpenPicker shows the mantra picker. With no mantras saved it goes straight
// to the add field.
func (p *CounterPane) OpenPicker() tea.Cmd {
	if len(p.mantras) == 0 {
		return p.startInput(counterAddingMantra, "Mantra name", "")
	}
	p.mode = counterPicking
	p.cursor = 0
	for i, name := range p.mantras {
		if name == p.state.ActiveMantra {
			p.cursor = i
			break
		}
	}
	return nil
}

func (p *CounterPane) startInput(mode counterMode, placeholder, value string) tea.Cmd {
	p.mode = mode
	p.input.Placeholder = placeholder
	p.input.SetValue(value)
	p.input.CursorEnd()
	p.input.Focus()
	return textinput.Blink
}

func (p *CounterPane) closeInput() {
	p.mode = counterNormal
	p.input.Blur()
	p.input.Reset()
}

// Update handles messages for the counter pane.
func (p *CounterPane) Update(msg tea.Msg) tea.Cmd {
	// Handle async messages first
	switch msg := msg.(type) {
	case counterLoadedMsg:
		if msg.err != nil {
			return nil
		}
		p.state = msg.state
		p.mantras = msg.mantras
		p.malas = msg.malas
		p.mood = msg.mood
		p.completing = session.PhaseOf(msg.state) == session.PhaseCompleting
		return nil

	case tappedMsg:
		if msg.err != nil {
			return nil
		}
		p.state = msg.result.State
		if msg.result.Completed {
			p.completing = true
			p.malas++
			return ackCmd(msg.result.AckDelay)
		}
		return nil

	case ackElapsedMsg:
		return finishCycleCmd(p.ctx, p.machine)

	case cycleFinishedMsg:
		if msg.err == nil {
			p.state = msg.state
			p.completing = false
		}
		return nil

	case mantraSwitchedMsg, targetSetMsg, resetDoneMsg:
		return p.LoadCmd()

	case moodSetMsg:
		if msg.err == nil {
			p.mood = msg.mood
		}
		return nil

	case focusLoadedMsg:
		if msg.finished {
			p.focusFinishing = false
		}
		if msg.err == nil {
			p.focusState = msg.state
		}
		return nil

	case tickMsg:
		if p.timer == nil || p.focusFinishing || !p.focusState.Expired(p.clock.Now()) {
			return nil
		}
		p.focusFinishing = true
		return loadFocusCmd(p.ctx, p.timer, true)
	}

	switch p.mode {
	case counterPicking:
		return p.updatePicker(msg)
	case counterAddingMantra, counterSettingTarget:
		return p.updateInput(msg)
	}

	// Normal mode
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Tap):
			return p.tap()

		case key.Matches(msg, p.keys.SwitchMantra):
			return p.OpenPicker()

		case key.Matches(msg, p.keys.AddMantra):
			return p.startInput(counterAddingMantra, "Mantra name", "")

		case key.Matches(msg, p.keys.SetTarget):
			value := ""
			if p.state.Target > 0 {
				value = strconv.Itoa(p.state.Target)
			}
			return p.startInput(counterSettingTarget, "Chants per mala", value)

		case key.Matches(msg, p.keys.Mood):
			return setMoodCmd(p.ctx, p.machine, session.NextMood(p.mood))

		case key.Matches(msg, p.keys.Focus):
			if p.timer == nil {
				return nil
			}
			return toggleFocusCmd(p.ctx, p.timer)

		case key.Matches(msg, p.keys.FocusLength):
			if p.timer == nil {
				return nil
			}
			return startFocusCmd(p.ctx, p.timer, nextFocusLength(p.focusState.Duration))
		}
	}

	return nil
}

// tap increments the counter unless a completion is being acknowledged.
func (p *CounterPane) tap() tea.Cmd {
	if p.completing {
		return nil
	}
	return tapCmd(p.ctx, p.machine)
}

// nextFocusLength returns the offered length after d, wrapping around.
func nextFocusLength(d time.Duration) time.Duration {
	for _, minutes := range focus.Options {
		if next := time.Duration(minutes) * time.Minute; next > d {
			return next
		}
	}
	return time.Duration(focus.Options[0]) * time.Minute
}

func (p *CounterPane) updatePicker(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, p.inputKeys.Cancel):
		p.mode = counterNormal

	case key.Matches(keyMsg, p.inputKeys.Confirm):
		p.mode = counterNormal
		if p.cursor < 0 || p.cursor >= len(p.mantras) {
			return nil
		}
		name := p.mantras[p.cursor]
		if name == p.state.ActiveMantra {
			return nil
		}
		return switchMantraCmd(p.ctx, p.machine, p.repo, name, false)

	case key.Matches(keyMsg, p.keys.AddMantra):
		return p.startInput(counterAddingMantra, "Mantra name", "")

	case key.Matches(keyMsg, p.keys.Down):
		if len(p.mantras) > 0 {
			p.cursor = min(p.cursor+1, len(p.mantras)-1)
		}

	case key.Matches(keyMsg, p.keys.Up):
		p.cursor = max(p.cursor-1, 0)

	case key.Matches(keyMsg, p.keys.Top):
		p.cursor = 0

	case key.Matches(keyMsg, p.keys.Bottom):
		p.cursor = max(len(p.mantras)-1, 0)
	}
	return nil
}

func (p *CounterPane) updateInput(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, p.inputKeys.Cancel):
			p.closeInput()
			return nil

		case key.Matches(keyMsg, p.inputKeys.Confirm):
			value := strings.TrimSpace(p.input.Value())
			mode := p.mode
			p.closeInput()
			if value == "" {
				return nil
			}
			if mode == counterAddingMantra {
				return switchMantraCmd(p.ctx, p.machine, p.repo, value, true)
			}
			target, err := strconv.Atoi(value)
			if err != nil || target <= 0 {
				return func() tea.Msg {
					return targetSetMsg{err: fmt.Errorf("invalid target %q", value)}
				}
			}
			return setTargetCmd(p.ctx, p.machine, target)
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// handleMouse processes mouse events for the counter pane.
func (p *CounterPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	// Count display starts after title (1) + separator (1) + blank (1) + mantra (1)
	const headerRows = 4

	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
		if msg.Y >= headerRows && msg.Y < headerRows+3 {
			return p.tap()
		}
	}
	return nil
}

// View renders the counter pane.
func (p *CounterPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("📿 JAP"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n\n")

	// Active mantra
	nameWidth := max(10, p.width-14)
	if p.state.ActiveMantra == "" {
		b.WriteString("  " + p.styles.ArchivedStyle.Render("No mantra selected. Press 'm' to pick one."))
	} else {
		b.WriteString("  " + p.styles.MantraStyle.Render(runewidth.Truncate(p.state.ActiveMantra, nameWidth, "..")))
	}
	b.WriteString("\n\n")

	// Count and progress
	count := p.styles.CountStyle.Render(strconv.Itoa(p.state.Count))
	target := p.styles.TargetStyle.Render(fmt.Sprintf(" / %d", p.state.Target))
	b.WriteString("    " + count + target)
	b.WriteString("\n")
	barWidth := min(max(10, p.width-10), 40)
	b.WriteString("  " + p.styles.RenderProgress(p.state.Count, p.state.Target, barWidth))
	b.WriteString("\n\n")

	if p.completing {
		b.WriteString("  " + p.styles.CompletedStyle.Render("✓ Mala complete!"))
		b.WriteString("\n\n")
	}

	b.WriteString("  " + p.styles.StatLabelStyle.Render("Malas: ") + p.styles.StatValueStyle.Render(strconv.Itoa(p.malas)))
	b.WriteString("\n")
	if p.mood != "" {
		b.WriteString("  " + p.styles.StatLabelStyle.Render("Mood:  ") + p.styles.StatValueStyle.Render(p.mood))
		b.WriteString("\n")
	}
	if p.timer != nil {
		icon := "⏸"
		if p.focusState.Running {
			icon = "▶"
		}
		b.WriteString("  " + p.styles.StatLabelStyle.Render("Focus: ") + p.styles.StatValueStyle.Render(p.focusState.Format(p.clock.Now())+" "+icon))
		b.WriteString("\n")
	}

	switch p.mode {
	case counterPicking:
		b.WriteString("\n")
		b.WriteString("  " + p.styles.InputPromptStyle.Render("Choose mantra:"))
		b.WriteString("\n")
		for i, name := range p.mantras {
			label := runewidth.Truncate(name, nameWidth, "..")
			if name == p.state.ActiveMantra {
				label += " •"
			}
			if i == p.cursor {
				b.WriteString("  " + p.styles.SelectedStyle.Render(" "+label+" "))
			} else {
				b.WriteString("   " + p.styles.ItemStyle.Render(label))
			}
			b.WriteString("\n")
		}

	case counterAddingMantra:
		b.WriteString("\n")
		b.WriteString("  " + p.styles.InputPromptStyle.Render("Mantra: ") + p.input.View())
		b.WriteString("\n")

	case counterSettingTarget:
		b.WriteString("\n")
		b.WriteString("  " + p.styles.InputPromptStyle.Render("Target: ") + p.input.View())
		b.WriteString("\n")
	}

	// Apply pane style
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}
