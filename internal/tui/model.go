// Package tui is the terminal client: a bubbletea program that plays the
// puzzle with the mouse on a character-grid canvas.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"constellation/internal/app"
	"constellation/internal/domain"
	"constellation/internal/i18n"
	"constellation/internal/render"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Canvas origin in the rendered view: two header lines plus the border.
const (
	canvasTop  = 3
	canvasLeft = 1

	defaultRows = 30
	minRows     = 8
	// chromeRows counts the header, border, status and help lines around the canvas.
	chromeRows = 7
)

// Options configures a terminal session.
type Options struct {
	Service         *app.Service
	ConstellationID string
	Language        domain.Language
	// Rows fixes the canvas height in terminal rows. Zero fits the window.
	Rows            int
	BackgroundStars int
	Seed            int64
	CanvasSize      float64
	Logger          *zap.Logger
}

// Model is the bubbletea model of the terminal client.
type Model struct {
	svc    *app.Service
	sess   *domain.Session
	bg     *render.Background
	lang   domain.Language
	grid   Grid
	fixed  bool
	keys   keyMap
	help   help.Model
	theme  Theme
	logger *zap.Logger

	seed     int64
	sessions int64
	bgCount  int
	size     float64
	width    int
}

// New starts a session on opts.ConstellationID, or the default constellation.
func New(opts Options) (*Model, error) {
	if opts.Service == nil {
		return nil, errors.New("tui: service is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if !opts.Language.Valid() {
		opts.Language = domain.LangEnglish
	}
	if opts.CanvasSize <= 0 {
		opts.CanvasSize = domain.DefaultCanvasSize
	}
	if opts.ConstellationID == "" {
		opts.ConstellationID = app.DefaultConstellationID
	}
	rows := opts.Rows
	if rows <= 0 {
		rows = defaultRows
	}

	m := &Model{
		svc:     opts.Service,
		lang:    opts.Language,
		grid:    NewGrid(rows, opts.CanvasSize),
		fixed:   opts.Rows > 0,
		keys:    newKeyMap(opts.Language),
		help:    help.New(),
		theme:   DefaultTheme(),
		logger:  opts.Logger,
		seed:    opts.Seed,
		bgCount: opts.BackgroundStars,
		size:    opts.CanvasSize,
	}
	if err := m.selectConstellation(opts.ConstellationID); err != nil {
		return nil, err
	}
	return m, nil
}

// Run runs the client until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Session returns the current puzzle session.
func (m *Model) Session() *domain.Session { return m.sess }

// Grid returns the current canvas grid.
func (m *Model) Grid() Grid { return m.grid }

// Language returns the display language.
func (m *Model) Language() domain.Language { return m.lang }

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.help.Width = width
	if m.fixed {
		return
	}
	rows := height - chromeRows
	if byWidth := (width - 2) / 2; byWidth < rows {
		rows = byWidth
	}
	if rows < minRows {
		rows = minRows
	}
	m.grid = NewGrid(rows, m.size)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Hint):
		m.apply(m.svc.ToggleHint(m.sess))
	case key.Matches(msg, m.keys.Reset):
		m.apply(m.svc.ResetCurrent(m.sess))
	case key.Matches(msg, m.keys.Next):
		m.next()
	case key.Matches(msg, m.keys.Another):
		if m.sess.Completed {
			m.next()
		}
	case key.Matches(msg, m.keys.Language):
		m.lang = i18n.Toggle(m.lang)
		m.keys = newKeyMap(m.lang)
		m.logger.Debug("language changed", zap.String("lang", string(m.lang)))
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	col, row := msg.X-canvasLeft, msg.Y-canvasTop
	if !m.grid.Contains(col, row) {
		return
	}

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.sess.Completed {
			if m.panel().buttonAt(col, row) {
				m.next()
			}
			return
		}
		m.apply(m.svc.ClickStar(m.sess, m.grid.ClickPoint(m.sess.Constellation.Stars, col, row)))
	case msg.Action == tea.MouseActionMotion:
		m.apply(m.svc.MovePointer(m.sess, m.grid.CellToPoint(col, row)))
	}
}

func (m *Model) next() {
	c := m.svc.Catalog().Next(m.sess.Constellation.ID)
	if c == nil {
		return
	}
	if err := m.selectConstellation(c.ID); err != nil {
		m.logger.Error("failed to switch constellation", zap.String("id", c.ID), zap.Error(err))
	}
}

// selectConstellation replaces the session. The background is drawn once per session.
func (m *Model) selectConstellation(id string) error {
	sess, events, err := m.svc.SelectConstellation(id)
	if err != nil {
		return err
	}
	m.sess = sess
	m.sessions++
	m.bg = render.NewBackground(m.seed+m.sessions, m.bgCount, m.size)
	m.apply(events, nil)
	return nil
}

func (m *Model) apply(events []app.Event, err error) {
	if err != nil {
		m.logger.Error("puzzle operation failed", zap.Error(err))
		return
	}
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.SessionStartedPayload:
			m.logger.Debug("session started",
				zap.String("session", p.SessionID),
				zap.String("constellation", p.ConstellationID),
				zap.Int("stars", p.StarCount))
		case app.EdgeAddedPayload:
			m.logger.Debug("edge added",
				zap.Stringer("edge", p.Edge),
				zap.Int("matched", p.Matched),
				zap.Int("total", p.Total),
				zap.Int("extra", p.Extra))
		case app.PuzzleCompletedPayload:
			m.logger.Info("constellation traced",
				zap.String("session", p.SessionID),
				zap.String("constellation", p.ConstellationID),
				zap.Int("edges", len(p.Edges)))
		case app.PointerMovedPayload:
			// Redrawn on the next frame.
		default:
			m.logger.Debug("puzzle event", zap.String("kind", string(ev.Kind)))
		}
	}
}

func (m *Model) View() string {
	var b strings.Builder

	title := i18n.T(m.lang, i18n.KeyTitle) + " · " + m.sess.Constellation.Name(m.lang)
	b.WriteString(m.line(m.theme.Title, title))
	b.WriteByte('\n')
	b.WriteString(m.line(m.theme.Subtle, i18n.T(m.lang, i18n.KeyInstructions)))
	b.WriteByte('\n')

	b.WriteString(m.theme.Canvas.Render(m.canvas()))
	b.WriteByte('\n')

	matched, total := m.sess.Progress()
	status := i18n.T(m.lang, i18n.KeyProgress, matched, total)
	if extra := m.sess.Connections.Len() - matched; extra > 0 {
		status += fmt.Sprintf(" (+%d)", extra)
	}
	if m.sess.Completed {
		b.WriteString(m.line(m.theme.Success, "✦ "+status))
	} else {
		b.WriteString(m.line(m.theme.Status, status))
	}
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// line renders a single header or status line, truncated to the window width.
func (m *Model) line(style lipgloss.Style, s string) string {
	if m.width > 0 {
		style = style.MaxWidth(m.width)
	}
	return style.Render(s)
}

// canvas renders the scene rows, grouping runs of equal cell kinds into one styled span.
func (m *Model) canvas() string {
	scene := render.Build(m.sess, m.bg, render.Options{
		Size:       m.size,
		GlowRadius: render.DefaultOptions().GlowRadius,
		CoreRadius: render.DefaultOptions().CoreRadius,
	})
	cells := m.grid.Raster(scene)
	if m.sess.Completed {
		m.panel().stamp(cells)
	}

	rows := make([]string, len(cells))
	for r, row := range cells {
		var line strings.Builder
		var run []rune
		kind := CellEmpty
		flush := func() {
			if len(run) > 0 {
				line.WriteString(m.theme.Cells[kind].Render(string(run)))
				run = run[:0]
			}
		}
		for _, cell := range row {
			if cell.Kind != kind {
				flush()
				kind = cell.Kind
			}
			run = append(run, cell.Rune)
		}
		flush()
		rows[r] = line.String()
	}
	return strings.Join(rows, "\n")
}

// completionPanel is the overlay shown over the canvas once the puzzle is solved.
type completionPanel struct {
	top, left, width int
	lines            []string
	buttonRow        int
}

func (m *Model) panel() completionPanel {
	title := i18n.T(m.lang, i18n.KeyCompleted, m.sess.Constellation.Name(m.lang))
	button := "[ " + i18n.T(m.lang, i18n.KeyTryAnother) + " ]"
	lines := []string{"", "✦ " + title + " ✦", "", button, ""}

	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	width += 4
	if width > m.grid.Cols {
		width = m.grid.Cols
	}
	top := (m.grid.Rows - len(lines)) / 2
	if top < 0 {
		top = 0
	}
	return completionPanel{
		top:       top,
		left:      (m.grid.Cols - width) / 2,
		width:     width,
		lines:     lines,
		buttonRow: top + 3,
	}
}

func (p completionPanel) buttonAt(col, row int) bool {
	return row == p.buttonRow && col >= p.left && col < p.left+p.width
}

func (p completionPanel) stamp(cells [][]Cell) {
	for i, text := range p.lines {
		r := p.top + i
		if r >= len(cells) {
			return
		}
		runes := []rune(text)
		pad := (p.width - len(runes)) / 2
		kind := CellPanel
		if r == p.buttonRow {
			kind = CellButton
		}
		for c := 0; c < p.width; c++ {
			col := p.left + c
			if col < 0 || col >= len(cells[r]) {
				continue
			}
			ch := ' '
			if idx := c - pad; idx >= 0 && idx < len(runes) {
				ch = runes[idx]
			}
			cells[r][col] = Cell{Rune: ch, Kind: kind}
		}
	}
}
