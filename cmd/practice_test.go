package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anwar-Qureshi/SkillBridge/internal/coach"
	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
	"github.com/Anwar-Qureshi/SkillBridge/internal/practice"
	"github.com/Anwar-Qureshi/SkillBridge/internal/questionbank"
	"github.com/Anwar-Qureshi/SkillBridge/internal/session"
)

const (
	vagueAnswer   = "We had a problem."
	clarification = "I implemented a cache and latency was reduced by 40%."
	strongAnswer  = "I led the effort to add a cache, and the result was that latency was reduced by 40% for our users."
)

func newTestModel(t *testing.T, rounds int) *practiceModel {
	t.Helper()
	bank, err := questionbank.New([]dataset.Question{
		{ID: "q1", Text: "Tell me about a time you improved system performance.", Difficulty: dataset.Medium},
	})
	require.NoError(t, err)
	scorer := evaluator.New(dataset.DefaultRubric(), nil, nil)
	runner := practice.New(bank, scorer, coach.New(dataset.Templates{}, nil, nil, nil), nil, nil)
	return newPracticeModel(context.Background(), runner, session.NewSessionState("s1", ""), rounds)
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// typeLine types text and presses Enter, returning the resulting command.
func typeLine(m *practiceModel, text string) tea.Cmd {
	for _, r := range text {
		m.Update(keyPress(r))
	}
	_, cmd := m.Update(specialKey(tea.KeyEnter))
	return cmd
}

// score runs a submit command and feeds its result back to the model.
func score(t *testing.T, m *practiceModel, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(outcomeMsg)
	require.True(t, ok, "expected the submit command to produce an outcome")
	m.Update(msg)
}

func TestPracticeModel_ClarificationRound(t *testing.T) {
	m := newTestModel(t, 0)
	require.Equal(t, phaseAnswering, m.phase)
	require.Equal(t, "q1", m.current.ID)

	score(t, m, typeLine(m, vagueAnswer))
	assert.Equal(t, phaseClarifying, m.phase)
	assert.Equal(t, "Can you clarify the specific actions you personally took?", m.notice)
	assert.Empty(t, m.state.History)

	score(t, m, typeLine(m, clarification))
	require.Len(t, m.state.History, 1)
	turn := m.state.History[0]
	assert.True(t, turn.Clarified)
	assert.Equal(t, vagueAnswer+" "+clarification, turn.Answer)
	assert.Equal(t, phaseAnswering, m.phase)
	assert.Equal(t, 2, m.asked)
}

func TestPracticeModel_BlankLineIgnored(t *testing.T) {
	m := newTestModel(t, 0)
	assert.Nil(t, typeLine(m, "   "))
	assert.False(t, m.busy)
	assert.Equal(t, phaseAnswering, m.phase)
}

func TestPracticeModel_LinesQueuedWhileScoring(t *testing.T) {
	m := newTestModel(t, 0)

	pending := typeLine(m, strongAnswer)
	require.True(t, m.busy)

	assert.Nil(t, typeLine(m, "quit"))
	assert.Equal(t, []string{"quit"}, m.pending)
	assert.Equal(t, "", m.input.Value())

	score(t, m, pending)
	assert.Len(t, m.state.History, 1)
	assert.Equal(t, phaseFinished, m.phase)
	assert.Empty(t, m.pending)
}

func TestPracticeModel_EscWaitsForScoring(t *testing.T) {
	m := newTestModel(t, 0)

	pending := typeLine(m, strongAnswer)
	_, cmd := m.Update(specialKey(tea.KeyEscape))
	assert.Nil(t, cmd)
	assert.True(t, m.quitting)
	assert.NotEqual(t, phaseFinished, m.phase)

	score(t, m, pending)
	assert.Len(t, m.state.History, 1)
	assert.Equal(t, phaseFinished, m.phase)
}

func TestPracticeModel_View(t *testing.T) {
	m := newTestModel(t, 0)
	assert.Contains(t, m.render(), "Esc finish")

	m.busy = true
	assert.Contains(t, m.render(), "Scoring")

	m.phase = phaseFinished
	assert.Empty(t, m.render())
}

func runProgram(t *testing.T, m *practiceModel, input string) *bytes.Buffer {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(strings.NewReader(input)),
		tea.WithOutput(&out),
		tea.WithoutSignals(),
	)
	_, err := p.Run()
	require.NoError(t, err)
	return &out
}

func TestPracticeProgram_ClarifyThenQuit(t *testing.T) {
	m := newTestModel(t, 0)
	out := runProgram(t, m, vagueAnswer+"\r\r"+clarification+"\rquit\r")

	require.NoError(t, m.err)
	require.Len(t, m.state.History, 1)
	assert.True(t, m.state.History[0].Clarified)
	assert.Equal(t, phaseFinished, m.phase)
	assert.NotZero(t, out.Len())
}

func TestPracticeProgram_Rounds(t *testing.T) {
	m := newTestModel(t, 2)
	runProgram(t, m, strings.Repeat(strongAnswer+"\r", 3))

	require.NoError(t, m.err)
	assert.Len(t, m.state.History, 2)
	assert.Equal(t, phaseFinished, m.phase)
}
