// ============================================================================
// mPratt - Operator-Precedence Parsing Toolkit
// ============================================================================
//
// Package:     repl
// Description: Bubbletea model of the interactive expression REPL
// Author:      msto63
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/pratt/foundation/pratt/lexer"
	"github.com/msto63/pratt/internal/service"
)

// MaxInputHistory bounds the up/down input history
const MaxInputHistory = 100

// Evaluator is the part of service.Evaluator the REPL needs
type Evaluator interface {
	Evaluate(ctx context.Context, input string) (*service.Result, error)
	Tokenize(input string) ([]lexer.Token, error)
	Grammar() string
	SessionID() string
}

// Config holds REPL configuration
type Config struct {
	// Timeout bounds a single evaluation; zero means no limit
	Timeout time.Duration
	// History preloads the up/down input history, oldest first
	History []string
}

// Model is the Bubbletea model of the REPL
type Model struct {
	width   int
	height  int
	ready   bool
	pending bool
	quit    bool

	input    textinput.Model
	viewport viewport.Model

	evaluator Evaluator
	config    Config
	entries   []Entry

	inputHistory []string
	historyIndex int    // -1 while not navigating
	currentInput string // input saved when navigation starts

	evaluated int
	failed    int
}

// New creates a REPL model
func New(evaluator Evaluator, cfg Config) Model {
	ti := textinput.New()
	ti.Prompt = PromptStyle.Render("» ")
	ti.Placeholder = "expression, or :help"
	ti.CharLimit = 4096
	ti.Focus()

	history := append([]string(nil), cfg.History...)
	if len(history) > MaxInputHistory {
		history = history[len(history)-MaxInputHistory:]
	}

	return Model{
		input:        ti,
		evaluator:    evaluator,
		config:       cfg,
		inputHistory: history,
		historyIndex: -1,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 5 // input box + status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - 8
		m.updateViewportContent()
		return m, nil

	case evalResultMsg:
		m.pending = false
		m.evaluated++
		if msg.err != nil {
			m.failed++
			m.appendEntry(Entry{Kind: KindError, Content: msg.err.Error()})
		} else {
			m.appendEntry(Entry{
				Kind:     KindResult,
				Content:  FormatValue(msg.result.Value),
				Duration: msg.result.Duration,
			})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
		m.quit = true
		return m, tea.Quit

	case tea.KeyCtrlL:
		m.entries = nil
		m.updateViewportContent()
		return m, nil

	case tea.KeyEnter:
		if m.pending {
			return m, nil
		}
		line := strings.TrimSpace(m.input.Value())
		if line == "" {
			return m, nil
		}
		m.remember(line)
		m.input.Reset()
		return m.submit(line)

	case tea.KeyUp:
		if len(m.inputHistory) > 0 {
			if m.historyIndex == -1 {
				m.currentInput = m.input.Value()
				m.historyIndex = len(m.inputHistory) - 1
			} else if m.historyIndex > 0 {
				m.historyIndex--
			}
			m.input.SetValue(m.inputHistory[m.historyIndex])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIndex != -1 {
			if m.historyIndex < len(m.inputHistory)-1 {
				m.historyIndex++
				m.input.SetValue(m.inputHistory[m.historyIndex])
			} else {
				m.historyIndex = -1
				m.input.SetValue(m.currentInput)
			}
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// remember appends line to the input history unless it repeats the last one
func (m *Model) remember(line string) {
	if len(m.inputHistory) == 0 || m.inputHistory[len(m.inputHistory)-1] != line {
		m.inputHistory = append(m.inputHistory, line)
		if len(m.inputHistory) > MaxInputHistory {
			m.inputHistory = m.inputHistory[len(m.inputHistory)-MaxInputHistory:]
		}
	}
	m.historyIndex = -1
	m.currentInput = ""
}

// submit runs a command line or schedules an evaluation
func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	m.appendEntry(Entry{Kind: KindInput, Content: line})

	if !strings.HasPrefix(line, ":") {
		m.pending = true
		return m, m.evaluate(line)
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit", "exit":
		m.quit = true
		return m, tea.Quit
	case "clear":
		m.entries = nil
		m.updateViewportContent()
	case "help", "h", "?":
		m.appendEntry(Entry{Kind: KindInfo, Content: helpText})
	case "grammar":
		m.appendEntry(Entry{Kind: KindInfo, Content: "grammar: " + m.evaluator.Grammar()})
	case "tokens", "t":
		if arg == "" {
			m.appendEntry(Entry{Kind: KindError, Content: "usage: :tokens <expression>"})
			break
		}
		toks, err := m.evaluator.Tokenize(arg)
		if err != nil {
			m.appendEntry(Entry{Kind: KindError, Content: err.Error()})
			break
		}
		m.appendEntry(Entry{Kind: KindTokens, Tokens: toks})
	default:
		m.appendEntry(Entry{Kind: KindError, Content: fmt.Sprintf("unknown command :%s, try :help", name)})
	}
	return m, nil
}

const helpText = `enter an expression to evaluate it
:tokens <expr>  show the tokens of an expression
:grammar        show the active grammar
:clear          clear the transcript (ctrl+l)
:quit           leave (ctrl+c, esc)`

func (m Model) evaluate(input string) tea.Cmd {
	evaluator := m.evaluator
	timeout := m.config.Timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res, err := evaluator.Evaluate(ctx, input)
		return evalResultMsg{input: input, result: res, err: err}
	}
}

func (m *Model) appendEntry(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	m.entries = append(m.entries, e)
	m.updateViewportContent()
}

// updateViewportContent renders the transcript into the viewport
func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}

	var content strings.Builder
	for _, e := range m.entries {
		switch e.Kind {
		case KindInput:
			content.WriteString(InputLineStyle.Render("» " + e.Content))
		case KindResult:
			content.WriteString("  " + ResultStyle.Render("= "+e.Content))
			if e.Duration > 0 {
				content.WriteString("  " + DurationStyle.Render(e.Duration.String()))
			}
		case KindTokens:
			parts := make([]string, len(e.Tokens))
			for i, tok := range e.Tokens {
				parts[i] = TokenStyle.Render(tok.String())
			}
			content.WriteString("  " + strings.Join(parts, " "))
		case KindInfo:
			content.WriteString(InfoStyle.Render(e.Content))
		case KindError:
			content.WriteString("  " + RenderError(e.Content))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

// View renders the UI
func (m Model) View() string {
	if m.quit {
		return ""
	}
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("pratt") + " " + SubtitleStyle.Render(m.evaluator.Grammar()))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(FocusedInputStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("enter evaluate • ↑/↓ history • pgup/pgdn scroll • :help • esc quit"))
	return b.String()
}

func (m Model) renderStatusBar() string {
	status := fmt.Sprintf("session %s  evaluated %d  failed %d",
		shortID(m.evaluator.SessionID()), m.evaluated, m.failed)
	if m.pending {
		status += "  evaluating..."
	}
	return StatusBarStyle.Width(m.width).Render(status)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Entries returns the transcript
func (m Model) Entries() []Entry {
	return m.entries
}

// InputHistory returns the input history, oldest first
func (m Model) InputHistory() []string {
	return append([]string(nil), m.inputHistory...)
}

// FormatValue renders a result the shortest way that round-trips
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Run starts the REPL on the terminal and returns the final input history
func Run(evaluator Evaluator, cfg Config) ([]string, error) {
	p := tea.NewProgram(New(evaluator, cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(Model); ok {
		return m.InputHistory(), nil
	}
	return nil, nil
}
