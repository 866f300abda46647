package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantrydev/gantry/core"
	"github.com/gantrydev/gantry/fs"
	"github.com/gantrydev/gantry/logger"
)

// testWizard builds a wizard model against an in-memory filesystem. The
// engine is constructed but never started, so enqueued plans sit in the
// queue and no external commands run.
func testWizard(t *testing.T) *newCmdModel {
	t.Helper()

	log := logger.NewNullLogger()
	pub := NewCliStepPublisher(log)
	prompter := NewChanPrompter()
	req := core.DefaultRequest()
	projFs := fs.NewMemoryFileSystem()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := &newCmdModel{
		textInput: textinput.New(),
		spinner:   spinner.New(),
		progress:  progress.New(),
		state:     ProjectQuestions,
		request:   req,
		questions: core.Questions(),
		workDir:   "work",
		runState: &core.State{
			Request:  req,
			Fs:       projFs,
			Prompter: prompter,
			Logger:   log,
		},
		engine:       NewEngine(pub, log, 1),
		engineCtx:    ctx,
		engineCancel: cancel,
		publisher:    pub,
		prompter:     prompter,
		logger:       log,
		fs:           projFs,
	}
	m.seekQuestion(core.PhaseProject)
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// answerProjectQuestions types a name and accepts the template default,
// which carries the model past the project phase.
func answerProjectQuestions(m *newCmdModel, name string) {
	m.textInput.SetValue(name)
	m.answerCurrent()
	m.answerCurrent()
}

func TestWizardKeepsExistingDirWhenDeclined(t *testing.T) {
	m := testWizard(t)
	target := filepath.Join("work", "blog-demo")
	require.NoError(t, m.fs.EnsureDir(target))

	answerProjectQuestions(m, "blog-demo")
	require.Equal(t, OverwritePrompt, m.state)

	m.handleOverwriteState(keyRune('n'))
	assert.True(t, m.declined)
	assert.True(t, m.fs.Exists(target), "declining must leave the directory untouched")
	assert.Nil(t, m.runErr)
}

func TestWizardRemovesExistingDirWhenAccepted(t *testing.T) {
	m := testWizard(t)
	target := filepath.Join("work", "blog-demo")
	require.NoError(t, m.fs.EnsureDir(target))

	answerProjectQuestions(m, "blog-demo")
	require.Equal(t, OverwritePrompt, m.state)

	m.handleOverwriteState(keyRune('y'))
	assert.Equal(t, Scaffolding, m.state)
	assert.False(t, m.fs.Exists(target))
	assert.Len(t, m.plan, len(core.ScaffoldSteps()))
}

func TestWizardRepromptsOnInvalidName(t *testing.T) {
	m := testWizard(t)
	m.textInput.SetValue("Bad Name")
	m.answerCurrent()

	assert.Equal(t, ProjectQuestions, m.state)
	assert.Contains(t, m.inputErr, "project_name")
	assert.Empty(t, m.answered)
}

func TestWizardEscDeclinesCleanly(t *testing.T) {
	m := testWizard(t)
	m.handleQuestionState(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.declined)
	assert.Nil(t, m.runErr)
}

func TestWizardFlowThroughPhases(t *testing.T) {
	m := testWizard(t)
	answerProjectQuestions(m, "blog-demo")
	require.Equal(t, Scaffolding, m.state)
	assert.Equal(t, filepath.Join("work", "blog-demo"), m.runState.BasePath)

	m.handleStep(core.Done)
	require.Equal(t, ConfigQuestions, m.state)
	assert.Equal(t, "framework", m.questions[m.current].Key)

	// Accept every configure default: framework none, tailwind on, no CMS,
	// no commerce, no deployment adapter.
	for i := 0; i < 20 && m.state == ConfigQuestions; i++ {
		m.answerCurrent()
	}
	require.Equal(t, Generating, m.state)
	assert.Len(t, m.plan, len(core.GenerationSteps()))
	assert.False(t, m.request.Medusa)
	assert.True(t, m.request.Tailwind)

	m.handleStep(core.Done)
	assert.Equal(t, Finished, m.state)
}

func TestWizardStepEventsDriveChecklist(t *testing.T) {
	m := testWizard(t)
	answerProjectQuestions(m, "blog-demo")
	require.Equal(t, Scaffolding, m.state)

	m.handleStep(core.CheckPrerequisites)
	m.handleWarning(stepWarning{Step: core.ScaffoldProject, Err: assert.AnError})

	require.Len(t, m.completed, 2)
	assert.False(t, m.completed[0].warned)
	assert.True(t, m.completed[1].warned)
	assert.Equal(t, 1, m.warnings)
}

func TestWizardDecisionPromptRoundTrip(t *testing.T) {
	m := testWizard(t)
	m.state = Generating
	d := decisionRequest{question: "The backend install failed. Continue without a backend?", resp: make(chan bool, 1)}

	m.handleDecision(d)
	require.Equal(t, DecisionPrompt, m.state)

	m.handleDecisionState(keyRune('y'))
	assert.True(t, <-d.resp)
	assert.Equal(t, Generating, m.state)
}
