package ui

import (
	"context"
	"fmt"
	"strings"

	"naamjap/internal/config"
	"naamjap/internal/session"
	"naamjap/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// HistoryPane lists completed and archived sessions, newest first.
type HistoryPane struct {
	ctx     context.Context
	machine *session.Machine
	styles  *Styles
	entries []storage.HistoryEntry
	cursor  int

	focused bool
	width   int
	height  int

	keys HistoryKeyMap
}

// NewHistoryPane creates a history pane.
func NewHistoryPane(ctx context.Context, m *session.Machine, styles *Styles, keyCfg *config.KeysConfig) *HistoryPane {
	return &HistoryPane{
		ctx:     ctx,
		machine: m,
		styles:  styles,
		keys:    NewHistoryKeyMap(keyCfg),
	}
}

// LoadCmd returns a command that reloads history asynchronously.
func (p *HistoryPane) LoadCmd() tea.Cmd {
	return loadHistoryCmd(p.ctx, p.machine)
}

// SetSize sets the pane dimensions.
func (p *HistoryPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *HistoryPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *HistoryPane) IsFocused() bool {
	return p.focused
}

// Entries returns the loaded history.
func (p *HistoryPane) Entries() []storage.HistoryEntry {
	return p.entries
}

func (p *HistoryPane) setEntries(entries []storage.HistoryEntry) {
	p.entries = entries
	if p.cursor >= len(entries) {
		p.cursor = max(len(entries)-1, 0)
	}
}

// maxVisible is how many entries fit in the pane.
func (p *HistoryPane) maxVisible() int {
	n := p.height - 6 // title, separator, footer, borders
	if n < 3 {
		n = 5
	}
	return n
}

// Update handles messages for the history pane.
func (p *HistoryPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.err == nil {
			p.setEntries(msg.entries)
		}
		return nil
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		if len(p.entries) == 0 {
			return nil
		}
		switch {
		case key.Matches(msg, p.keys.Down):
			p.cursor = min(p.cursor+1, len(p.entries)-1)
		case key.Matches(msg, p.keys.Up):
			p.cursor = max(p.cursor-1, 0)
		case key.Matches(msg, p.keys.Top):
			p.cursor = 0
		case key.Matches(msg, p.keys.Bottom):
			p.cursor = len(p.entries) - 1
		}
	}
	return nil
}

// handleMouse processes mouse events for the history pane.
func (p *HistoryPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.entries) == 0 {
		return nil
	}

	// Content starts after title (1) + separator (1) = row 2
	const headerRows = 2

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)
	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.entries)-1)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		row := msg.Y - headerRows
		if row < 0 || row >= p.maxVisible() {
			return nil
		}
		idx := p.startIndex() + row
		if idx < len(p.entries) {
			p.cursor = idx
		}
	}
	return nil
}

func (p *HistoryPane) startIndex() int {
	maxRows := p.maxVisible()
	if p.cursor >= maxRows {
		return p.cursor - maxRows + 1
	}
	return 0
}

// View renders the history pane.
func (p *HistoryPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("🕉  HISTORY"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(p.entries) == 0 {
		b.WriteString(p.styles.ArchivedStyle.Render("  No sessions yet. Complete a mala to see it here."))
		b.WriteString("\n")
	} else {
		start := p.startIndex()
		end := min(start+p.maxVisible(), len(p.entries))
		nameWidth := max(5, p.width-30)
		archived := 0
		for _, e := range p.entries {
			if e.Archived {
				archived++
			}
		}

		for i := start; i < end; i++ {
			e := p.entries[i]
			when := e.CompletedAt.Local().Format("Jan 2 15:04")
			name := runewidth.FillRight(runewidth.Truncate(e.Mantra, nameWidth, ".."), nameWidth)
			progress := fmt.Sprintf("%d/%d", e.Count, e.Target)
			line := fmt.Sprintf("%s  %s %s", when, name, progress)

			switch {
			case i == p.cursor && p.focused:
				b.WriteString(p.styles.SelectedStyle.Render(" " + line + " "))
			case e.Archived:
				b.WriteString(" " + p.styles.ArchivedStyle.Render(line+" ◌"))
			default:
				b.WriteString(" " + p.styles.ItemStyle.Render(line) + " " + p.styles.CompletedStyle.Render("✓"))
			}
			b.WriteString("\n")
		}

		b.WriteString("\n")
		footer := fmt.Sprintf("%d sessions, %d archived", len(p.entries), archived)
		b.WriteString("  " + p.styles.StatLabelStyle.Render(footer))
		b.WriteString("\n")
		if p.cursor >= 0 && p.cursor < len(p.entries) && p.entries[p.cursor].Mood != "" {
			b.WriteString("  " + p.styles.StatLabelStyle.Render("Mood: "+p.entries[p.cursor].Mood))
			b.WriteString("\n")
		}
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}
