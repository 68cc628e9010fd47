// Package tui implements the interactive terminal note browser: a sidebar
// of notes, a viewport that renders annotations, and a find/replace bar
// backed by the same search sessions the HTTP API serves.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/starford/ansuz/internal/annotate"
	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/search"
	"github.com/starford/ansuz/internal/segment"
)

const sidebarWidth = 30

// FocusedPane tracks which pane receives key input.
type FocusedPane int

const (
	FocusSidebar FocusedPane = iota
	FocusContent
	FocusFind
	FocusReplace
)

// Model is the bubbletea model for the note browser.
type Model struct {
	viewport     viewport.Model
	findInput    textinput.Model
	replaceInput textinput.Model

	width   int
	height  int
	focused FocusedPane
	ready   bool

	notes        []noteservice.NoteListItem
	sidebarIndex int
	note         *noteservice.NoteDetail
	session      *search.Session
	spanIndex    int
	status       string

	svc *noteservice.Service
	ctx context.Context
	err error
}

// NewModel creates the initial browser model.
func NewModel(ctx context.Context, svc *noteservice.Service) Model {
	fi := textinput.New()
	fi.Placeholder = "find"
	fi.Prompt = "/ "

	ri := textinput.New()
	ri.Placeholder = "replace with"
	ri.Prompt = "> "

	return Model{
		findInput:    fi,
		replaceInput: ri,
		focused:      FocusSidebar,
		spanIndex:    -1,
		svc:          svc,
		ctx:          ctx,
	}
}

// Init loads the note list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadNotes)
}

// Run starts the terminal browser and blocks until it exits.
func Run(ctx context.Context, svc *noteservice.Service) error {
	p := tea.NewProgram(
		NewModel(ctx, svc),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width-sidebarWidth-4, msg.Height-5)
			m.ready = true
		}
		m.resize()
		m.refreshContent()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case NotesLoadedMsg:
		m.notes = msg.Notes
		if m.sidebarIndex >= len(m.notes) {
			m.sidebarIndex = 0
		}
		if m.note == nil && len(m.notes) > 0 {
			return m, m.openNote(m.notes[m.sidebarIndex].Path)
		}
		return m, nil

	case NoteOpenedMsg:
		m.note = msg.Note
		m.session = nil
		m.spanIndex = -1
		m.err = nil
		m.findInput.Reset()
		m.findInput.Blur()
		m.replaceInput.Reset()
		m.replaceInput.Blur()
		if m.focused == FocusFind || m.focused == FocusReplace {
			m.focused = FocusContent
		}
		m.resize()
		m.refreshContent()
		m.viewport.GotoTop()
		for i, item := range m.notes {
			if item.Path == msg.Note.Path {
				m.sidebarIndex = i
			}
		}
		return m, nil

	case LinkResolvedMsg:
		m.status = fmt.Sprintf("opened [[%s]]", msg.Target)
		return m, m.openNote(msg.Path)

	case LinkUnresolvedMsg:
		m.status = fmt.Sprintf("no note found for [[%s]]", msg.Target)
		return m, nil

	case ExternalLinkMsg:
		m.status = "open in browser: " + msg.URL
		return m, nil

	case ReplaceDoneMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		if msg.All {
			m.status = fmt.Sprintf("replaced %d occurrence(s)", msg.Count)
		} else if msg.Count > 0 {
			m.status = "replaced 1 occurrence"
		} else {
			m.status = "nothing to replace"
		}
		m.refreshContent()
		m.revealCurrent()
		return m, m.loadNotes

	case StatusMsg:
		m.status = msg.Text
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.focused {
	case FocusSidebar:
		return m.handleSidebarKeys(msg)
	case FocusContent:
		return m.handleContentKeys(msg)
	case FocusFind:
		return m.handleFindKeys(msg)
	case FocusReplace:
		return m.handleReplaceKeys(msg)
	}
	return m, nil
}

func (m Model) handleSidebarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.sidebarIndex > 0 {
			m.sidebarIndex--
		}
	case "down", "j":
		if m.sidebarIndex < len(m.notes)-1 {
			m.sidebarIndex++
		}
	case "enter":
		if len(m.notes) > 0 {
			return m, m.openNote(m.notes[m.sidebarIndex].Path)
		}
	case "tab":
		if m.note != nil {
			m.focused = FocusContent
		}
	case "/":
		return m.openFind()
	}
	return m, nil
}

func (m Model) handleContentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.focused = FocusSidebar
		return m, nil
	case "/":
		return m.openFind()
	case "esc":
		if m.session != nil {
			return m.closeFind()
		}
		return m, nil
	case "n":
		if m.session != nil {
			m.session.Next()
			m.refreshContent()
			m.revealCurrent()
		}
		return m, nil
	case "N", "p":
		if m.session != nil {
			m.session.Previous()
			m.refreshContent()
			m.revealCurrent()
		}
		return m, nil
	case "left", "h":
		if m.session == nil && m.note != nil && m.spanIndex > 0 {
			m.spanIndex--
			m.refreshContent()
			m.revealSpan()
		}
		return m, nil
	case "right", "l":
		if m.session == nil && m.note != nil && m.spanIndex < len(m.note.Annotations)-1 {
			m.spanIndex++
			m.refreshContent()
			m.revealSpan()
		}
		return m, nil
	case "enter":
		return m.followSpan()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleFindKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeFind()
	case "enter":
		if m.session != nil {
			m.session.Next()
			m.refreshContent()
			m.revealCurrent()
		}
		return m, nil
	case "ctrl+t":
		return m.toggleOption(func(o *search.Options) { o.CaseSensitive = !o.CaseSensitive })
	case "ctrl+w":
		return m.toggleOption(func(o *search.Options) { o.WholeWord = !o.WholeWord })
	case "ctrl+r":
		m.focused = FocusReplace
		m.findInput.Blur()
		m.resize()
		return m, m.replaceInput.Focus()
	}

	before := m.findInput.Value()
	var cmd tea.Cmd
	m.findInput, cmd = m.findInput.Update(msg)
	if m.session != nil && m.findInput.Value() != before {
		m.session.Find(m.findInput.Value(), m.session.Options())
		m.refreshContent()
		m.revealCurrent()
	}
	return m, cmd
}

func (m Model) handleReplaceKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeFind()
	case "tab", "ctrl+r":
		m.focused = FocusFind
		m.replaceInput.Blur()
		m.resize()
		return m, m.findInput.Focus()
	case "enter":
		return m, m.doReplace(m.replaceInput.Value())
	case "ctrl+a":
		return m, m.doReplaceAll(m.replaceInput.Value())
	}

	var cmd tea.Cmd
	m.replaceInput, cmd = m.replaceInput.Update(msg)
	return m, cmd
}

func (m Model) openFind() (tea.Model, tea.Cmd) {
	if m.note == nil {
		return m, nil
	}
	if m.session == nil {
		m.session = search.NewSession(m.note.Path, m.note.Content, m.svc)
	}
	m.focused = FocusFind
	m.spanIndex = -1
	m.replaceInput.Blur()
	m.resize()
	m.refreshContent()
	return m, m.findInput.Focus()
}

// closeFind tears down the search session and reopens the note so the
// viewport reflects any replacements that were persisted.
func (m Model) closeFind() (tea.Model, tea.Cmd) {
	m.session = nil
	m.findInput.Reset()
	m.findInput.Blur()
	m.replaceInput.Reset()
	m.replaceInput.Blur()
	m.focused = FocusContent
	m.resize()
	if m.note != nil {
		return m, m.openNote(m.note.Path)
	}
	m.refreshContent()
	return m, nil
}

func (m Model) toggleOption(flip func(*search.Options)) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	opts := m.session.Options()
	flip(&opts)
	m.session.SetOptions(opts)
	m.refreshContent()
	m.revealCurrent()
	return m, nil
}

func (m Model) followSpan() (tea.Model, tea.Cmd) {
	if m.session != nil || m.note == nil {
		return m, nil
	}
	if m.spanIndex < 0 || m.spanIndex >= len(m.note.Annotations) {
		return m, nil
	}
	span := m.note.Annotations[m.spanIndex]
	switch span.Kind {
	case annotate.KindLink:
		return m, m.resolveLink(span.Payload)
	case annotate.KindURL:
		url := externalURL(span.Payload)
		return m, func() tea.Msg { return ExternalLinkMsg{URL: url} }
	}
	return m, nil
}

func (m Model) loadNotes() tea.Msg {
	items, _, err := m.svc.ListNotes(m.ctx, 0, 0, "", "title", "asc")
	if err != nil {
		return ErrorMsg{Err: err}
	}
	return NotesLoadedMsg{Notes: items}
}

func (m Model) openNote(path string) tea.Cmd {
	return func() tea.Msg {
		note, err := m.svc.GetNote(m.ctx, path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return NoteOpenedMsg{Note: note}
	}
}

func (m Model) resolveLink(target string) tea.Cmd {
	return func() tea.Msg {
		path, err := m.svc.ResolveLink(m.ctx, target)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return LinkUnresolvedMsg{Target: target}
			}
			return ErrorMsg{Err: err}
		}
		return LinkResolvedMsg{Target: target, Path: path}
	}
}

func (m Model) doReplace(text string) tea.Cmd {
	sess := m.session
	if sess == nil {
		return nil
	}
	return func() tea.Msg {
		ok, err := sess.Replace(m.ctx, text)
		count := 0
		if ok {
			count = 1
		}
		return ReplaceDoneMsg{Count: count, Err: err}
	}
}

func (m Model) doReplaceAll(text string) tea.Cmd {
	sess := m.session
	if sess == nil {
		return nil
	}
	return func() tea.Msg {
		n, err := sess.ReplaceAll(m.ctx, text)
		return ReplaceDoneMsg{Count: n, All: true, Err: err}
	}
}

func (m *Model) resize() {
	contentWidth := m.width - sidebarWidth - 4
	contentHeight := m.height - 5
	if m.session != nil {
		contentHeight -= 3
		if m.focused == FocusReplace {
			contentHeight -= 3
		}
	}
	if contentWidth < 20 {
		contentWidth = 20
	}
	if contentHeight < 3 {
		contentHeight = 3
	}
	m.viewport.Width = contentWidth
	m.viewport.Height = contentHeight
	m.findInput.Width = contentWidth - 24
	m.replaceInput.Width = contentWidth - 24
}

func (m *Model) refreshContent() {
	m.viewport.SetContent(m.renderContent())
}

// revealCurrent scrolls the viewport so the current match is visible.
func (m *Model) revealCurrent() {
	if m.session == nil {
		return
	}
	match, ok := m.session.Current()
	if !ok {
		return
	}
	m.revealLine(lineOfOffset(m.session.Content(), match.Start))
}

func (m *Model) revealSpan() {
	if m.note == nil || m.spanIndex < 0 || m.spanIndex >= len(m.note.Annotations) {
		return
	}
	span := m.note.Annotations[m.spanIndex]
	m.revealLine(lineOfOffset(m.note.Content, span.Start))
}

func (m *Model) revealLine(line int) {
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
	} else if line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func (m Model) renderContent() string {
	if m.note == nil {
		return HelpStyle.Render("No note open. Enter opens the selected note.")
	}
	if m.session != nil {
		segs := segment.Matches(m.session.Content(), m.session.Matches(), m.session.CurrentIndex())
		return renderSegments(segs, -1)
	}
	segs := segment.Annotate(m.note.Content, m.note.Annotations)
	return renderSegments(segs, m.spanIndex)
}

// View renders the full interface.
func (m Model) View() string {
	if !m.ready {
		return "Loading notes..."
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSidebar(),
		ContentStyle.Render(m.viewport.View()),
	)

	sections := []string{main}
	if m.session != nil {
		sections = append(sections, m.renderFindBar())
		if m.focused == FocusReplace {
			sections = append(sections, m.renderReplaceBar())
		}
	}
	sections = append(sections, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(SidebarTitleStyle.Render("Notes"))
	b.WriteString("\n\n")

	visible := m.viewport.Height
	start := 0
	if m.sidebarIndex >= visible {
		start = m.sidebarIndex - visible + 1
	}
	for i := start; i < len(m.notes) && i < start+visible; i++ {
		item := m.notes[i]
		label := item.Title
		if label == "" {
			label = item.Path
		}
		if len(label) > sidebarWidth-4 {
			label = label[:sidebarWidth-7] + "..."
		}
		style := NoteItemStyle
		switch {
		case i == m.sidebarIndex && m.focused == FocusSidebar:
			style = NoteItemSelectedStyle
		case m.note != nil && item.Path == m.note.Path:
			style = NoteItemActiveStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}
	if len(m.notes) == 0 {
		b.WriteString(NoteItemStyle.Render("(vault is empty)"))
	}
	return SidebarStyle.Height(m.viewport.Height).Render(b.String())
}

func (m Model) renderFindBar() string {
	opts := m.session.Options()
	caseOpt := OptionOffStyle.Render("[Aa]")
	if opts.CaseSensitive {
		caseOpt = OptionOnStyle.Render("[Aa]")
	}
	wordOpt := OptionOffStyle.Render("[W]")
	if opts.WholeWord {
		wordOpt = OptionOnStyle.Render("[W]")
	}
	counter := StatusMatchStyle.Render(
		fmt.Sprintf("%d/%d", m.session.CurrentIndex(), len(m.session.Matches())))

	bar := BarStyle
	if m.focused == FocusFind {
		bar = BarFocusedStyle
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center,
		BarLabelStyle.Render("Find"),
		m.findInput.View(),
		" ", caseOpt, " ", wordOpt, "  ", counter,
	)
	return bar.Width(m.width - 2).Render(row)
}

func (m Model) renderReplaceBar() string {
	bar := BarStyle
	if m.focused == FocusReplace {
		bar = BarFocusedStyle
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center,
		BarLabelStyle.Render("Replace"),
		m.replaceInput.View(),
		" ", HelpStyle.Render("enter: one  ctrl+a: all"),
	)
	return bar.Width(m.width - 2).Render(row)
}

func (m Model) renderStatusBar() string {
	var left string
	if m.note != nil {
		left = StatusPathStyle.Render(" " + m.note.Path + " ")
	}

	var middle string
	switch {
	case m.err != nil:
		middle = StatusErrorStyle.Render(" " + m.err.Error() + " ")
	case m.status != "":
		middle = " " + m.status
	}

	help := "tab: panes  /: find  q: quit"
	if m.session != nil {
		help = "enter/n: next  N: prev  ctrl+t: case  ctrl+w: word  ctrl+r: replace  esc: close"
	} else if m.focused == FocusContent {
		help = "←/→: spans  enter: follow  /: find  tab: panes  q: quit"
	}

	right := HelpStyle.Render(help)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return StatusBarStyle.Width(m.width).Render(
		left + middle + strings.Repeat(" ", gap) + right)
}
