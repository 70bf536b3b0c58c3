package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/practice"
	"github.com/Anwar-Qureshi/SkillBridge/internal/session"
	"github.com/Anwar-Qureshi/SkillBridge/internal/ui/components"
	"github.com/Anwar-Qureshi/SkillBridge/internal/ui/theme"
)

const termWidth = 80

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start an interactive practice session",
	Long: "Asks questions one at a time. Type your answer and press Enter; " +
		"type 'quit' or press Esc to finish and see the session report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		user, _ := cmd.Flags().GetString("user")
		rounds, _ := cmd.Flags().GetInt("rounds")

		e, err := buildEngine(ctx, cmd, engineOptions{persist: true})
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Subtitle.Render(e.backend.Describe()))

		state := session.NewSessionState(newSessionID(), user)
		m := newPracticeModel(ctx, e.runner, state, rounds)
		p := tea.NewProgram(m,
			tea.WithContext(ctx),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(out),
		)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("practice session: %w", err)
		}
		if m.err != nil {
			return m.err
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, components.SummaryView(state.Summary(), termWidth))
		fmt.Fprintln(out, theme.Hint.Render("Session "+state.ID))
		return nil
	},
}

type practicePhase int

const (
	phaseAnswering practicePhase = iota
	phaseClarifying
	phaseFinished
)

// outcomeMsg is sent when a submitted answer or clarification is scored.
type outcomeMsg struct {
	outcome practice.Outcome
	err     error
}

// practiceModel drives one session. Scoring runs in a command; lines
// entered meanwhile are queued and submitted in order.
type practiceModel struct {
	ctx    context.Context
	runner *practice.Runner
	state  *session.SessionState
	rounds int
	width  int

	input    textinput.Model
	phase    practicePhase
	busy     bool
	quitting bool
	pending  []string
	asked    int
	current  dataset.Question
	notice   string
	err      error
}

// newPracticeModel asks the first question. rounds of zero means until the
// user quits.
func newPracticeModel(ctx context.Context, runner *practice.Runner, state *session.SessionState, rounds int) *practiceModel {
	ti := textinput.New()
	ti.Placeholder = "Type your answer"
	ti.Focus()

	m := &practiceModel{
		ctx:    ctx,
		runner: runner,
		state:  state,
		rounds: rounds,
		width:  termWidth,
		input:  ti,
	}
	m.askNext()
	return m
}

func (m *practiceModel) Init() tea.Cmd {
	if m.phase == phaseFinished {
		return tea.Quit
	}
	return tea.Println(m.questionLine())
}

func (m *practiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = min(max(msg.Width, 40), termWidth)
		m.input.SetWidth(m.width - 4)
		return m, nil

	case outcomeMsg:
		return m, m.handleOutcome(msg)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.finish()
		case "enter":
			return m, m.enter()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *practiceModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m *practiceModel) render() string {
	if m.phase == phaseFinished {
		return ""
	}

	var b strings.Builder
	if m.busy {
		b.WriteString(theme.Hint.Render("Scoring..."))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Enter submit · Esc finish"))
	return b.String()
}

// askNext moves to the next question, or finishes once rounds are used.
func (m *practiceModel) askNext() {
	if m.rounds > 0 && m.asked >= m.rounds {
		m.phase = phaseFinished
		return
	}
	m.asked++
	m.current = m.runner.Next(m.state)
	m.phase = phaseAnswering
	m.notice = ""
	m.input.Prompt = "> "
}

func (m *practiceModel) questionLine() string {
	label := theme.Label.Render(fmt.Sprintf("Q%d [%s]", m.asked, m.current.Difficulty.Normalize()))
	return "\n" + label + " " + theme.Body.Render(m.current.Text)
}

func (m *practiceModel) enter() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if text == "" {
		return nil
	}
	if m.busy {
		m.pending = append(m.pending, text)
		return nil
	}
	return m.submit(text)
}

func (m *practiceModel) submit(text string) tea.Cmd {
	if strings.EqualFold(text, "quit") || strings.EqualFold(text, "exit") {
		return m.finish()
	}

	m.busy = true
	ctx, runner, state := m.ctx, m.runner, m.state
	clarifying := m.phase == phaseClarifying
	return func() tea.Msg {
		var out practice.Outcome
		var err error
		if clarifying {
			out, err = runner.Clarify(ctx, state, text)
		} else {
			out, err = runner.Submit(ctx, state, text)
		}
		return outcomeMsg{outcome: out, err: err}
	}
}

func (m *practiceModel) handleOutcome(msg outcomeMsg) tea.Cmd {
	m.busy = false
	if errors.Is(msg.err, practice.ErrEmptyAnswer) {
		return m.drain()
	}
	if msg.err != nil {
		m.err = msg.err
		m.phase = phaseFinished
		return tea.Quit
	}

	var cmds []tea.Cmd
	if turn := msg.outcome.Turn; turn == nil {
		m.phase = phaseClarifying
		m.notice = msg.outcome.ClarificationPrompt
		m.input.Prompt = ">> "
		cmds = append(cmds, tea.Println(theme.Good.Render(m.notice)))
	} else {
		cmds = append(cmds,
			tea.Println(components.ScoreCard(turn.Evaluation, m.width)),
			tea.Println(components.FeedbackView(turn.Feedback, m.width)),
		)
		if !m.quitting {
			m.askNext()
			if m.phase != phaseFinished {
				cmds = append(cmds, tea.Println(m.questionLine()))
			}
		}
	}

	if m.quitting || m.phase == phaseFinished {
		m.phase = phaseFinished
		return tea.Sequence(append(cmds, tea.Quit)...)
	}
	if next := m.drain(); next != nil {
		cmds = append(cmds, next)
	}
	return tea.Sequence(cmds...)
}

// drain submits the oldest queued line.
func (m *practiceModel) drain() tea.Cmd {
	if len(m.pending) == 0 || m.busy || m.phase == phaseFinished {
		return nil
	}
	text := m.pending[0]
	m.pending = m.pending[1:]
	return m.submit(text)
}

// finish ends the session; an in-flight scoring call completes first.
func (m *practiceModel) finish() tea.Cmd {
	if m.busy {
		m.quitting = true
		return nil
	}
	m.phase = phaseFinished
	return tea.Quit
}

func init() {
	practiceCmd.Flags().StringP("user", "u", "", "Name recorded with the session")
	practiceCmd.Flags().IntP("rounds", "r", 0, "Number of questions (0 = until you quit)")
}
