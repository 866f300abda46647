package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"

	"github.com/gantrydev/gantry/config"
	"github.com/gantrydev/gantry/core"
	"github.com/gantrydev/gantry/fs"
	"github.com/gantrydev/gantry/logger"
	"github.com/gantrydev/gantry/runner"
)

type state int

const (
	ProjectQuestions state = iota
	OverwritePrompt
	Scaffolding
	ConfigQuestions
	Generating
	DecisionPrompt
	Finished
	Aborted
)

const (
	padding  = 2
	maxWidth = 80
)

type newFlags struct {
	name   string
	config string
	dryRun bool
}

// stepTitles carries the present and past tense labels the checklist renders
// for each step.
var stepTitles = map[core.StepType]struct {
	present string
	past    string
}{
	core.CheckPrerequisites: {"Checking prerequisites.", "Checked prerequisites."},
	core.ScaffoldProject:    {"Creating project.", "Created project."},
	core.AddFramework:       {"Adding UI framework.", "Added UI framework."},
	core.AddTailwind:        {"Adding Tailwind.", "Added Tailwind."},
	core.AddSanity:          {"Setting up Sanity.", "Set up Sanity."},
	core.AddMedusa:          {"Setting up Medusa.", "Set up Medusa."},
	core.AddDeployment:      {"Adding deployment adapter.", "Added deployment adapter."},
	core.UpdateManifest:     {"Updating package manifest.", "Updated package manifest."},
	core.WriteEnv:           {"Writing environment file.", "Wrote environment file."},
	core.WriteStubs:         {"Writing client stubs.", "Wrote client stubs."},
	core.WriteReadme:        {"Writing README.", "Wrote README."},
	core.WriteGitignore:     {"Writing ignore rules.", "Wrote ignore rules."},
}

// questionHints are placeholder examples for text questions that have no
// computed default.
var questionHints = map[string]string{
	"project_name": "my-astro-site",
	"database_url": "postgres://localhost:5432/store",
}

type answeredQuestion struct {
	prompt string
	value  string
}

type stepOutcome struct {
	step   core.StepType
	warned bool
}

type newCmdModel struct {
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	state     state

	request   *core.Request
	questions []core.Question
	current   int
	cursor    int
	answered  []answeredQuestion
	inputErr  string

	workDir   string
	runState  *core.State
	plan      []core.Step
	completed []stepOutcome
	warnings  int

	engine       *Engine
	engineCtx    context.Context
	engineCancel context.CancelFunc
	publisher    *CliStepPublisher
	prompter     *ChanPrompter
	resultChan   chan error
	decision     *decisionRequest

	runErr   error
	declined bool

	logger logger.Logger
	fs     *fs.FileSystem
}

func newNewCmdModel(f newFlags, settings *config.Settings) (newCmdModel, error) {
	ti := textinput.New()
	ti.Placeholder = "my-astro-site"
	ti.Focus()
	ti.CharLimit = 214
	ti.Width = 80

	logger.InitLogger()
	log := logger.GetLogger()
	log.Debug("Initializing the gantry wizard")

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))

	prog := progress.New(progress.WithGradient("#FFBA08", "#F48C06"))

	workDir, err := os.Getwd()
	if err != nil {
		return newCmdModel{}, fmt.Errorf("could not determine the working directory: %w", err)
	}

	req := core.DefaultRequest()
	projFs := fs.NewOsFileSystem()
	runState := core.NewState(req, log)
	runState.Retries = settings.Retries
	runState.NodeFloor = settings.NodeFloor
	runState.CommandTimeout = settings.CommandTimeout
	runState.Runner = runner.NewExecRunner(runState.Logger)
	runState.Fs = projFs

	publisher := NewCliStepPublisher(runState.Logger)
	prompter := NewChanPrompter()
	engine := NewEngine(publisher, runState.Logger, 1)
	runState.Prompter = prompter

	ctx, cancel := context.WithCancel(context.Background())

	m := newCmdModel{
		textInput:    ti,
		spinner:      s,
		progress:     prog,
		state:        ProjectQuestions,
		request:      req,
		questions:    core.Questions(),
		workDir:      workDir,
		runState:     runState,
		engine:       engine,
		engineCtx:    ctx,
		engineCancel: cancel,
		publisher:    publisher,
		prompter:     prompter,
		logger:       runState.Logger,
		fs:           projFs,
	}
	m.seekQuestion(core.PhaseProject)
	if f.name != "" {
		m.textInput.SetValue(f.name)
	}
	engine.Start(ctx)
	return m, nil
}

func (m newCmdModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m newCmdModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case Finished, Aborted:
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	case core.StepType:
		return m.handleStep(msg)
	case stepWarning:
		return m.handleWarning(msg)
	case decisionRequest:
		return m.handleDecision(msg)
	case error:
		m.logger.Error(fmt.Sprintf("Run failed: %v", msg))
		m.runErr = msg
		m.state = Aborted
		return m, tea.Quit
	default:
		if m.state == Scaffolding || m.state == Generating || m.state == DecisionPrompt {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m newCmdModel) View() string {
	switch m.state {
	case ProjectQuestions, ConfigQuestions:
		return m.questionView()
	case OverwritePrompt:
		return fmt.Sprintf("Directory %s already exists. Delete it and continue? (y/n)", m.request.ProjectName)
	case Scaffolding, Generating:
		return m.checklistView()
	case DecisionPrompt:
		prompt := ""
		if m.decision != nil {
			prompt = m.decision.question
		}
		return fmt.Sprintf("%s\n%s (y/n)", m.checklistView(), prompt)
	case Finished, Aborted:
		return ""
	default:
		m.logger.Error("An error occurred")
		return "An error occurred."
	}
}

func (m *newCmdModel) Shutdown() {
	m.engineCancel()                   // Cancel the engine context
	m.engine.Shutdown(5 * time.Second) // Give 5 seconds for graceful shutdown
}

// seekQuestion advances current to the next question of the given phase that
// is relevant under the answers so far. It reports whether one was found.
func (m *newCmdModel) seekQuestion(phase core.Phase) bool {
	for m.current < len(m.questions) {
		q := m.questions[m.current]
		if q.Phase == phase && q.Relevant(m.request) {
			m.prepareInput()
			return true
		}
		m.current++
	}
	return false
}

func (m *newCmdModel) prepareInput() {
	q := m.questions[m.current]
	m.cursor = 0
	m.inputErr = ""
	m.textInput.SetValue("")
	if q.Kind == core.SelectQuestion {
		def := q.DefaultFor(m.request)
		for i, opt := range q.Options {
			if opt == def {
				m.cursor = i
			}
		}
		return
	}
	placeholder := q.DefaultFor(m.request)
	if placeholder == "" {
		placeholder = questionHints[q.Key]
	}
	m.textInput.Placeholder = placeholder
}

// handleKeyPress handles key presses for the application.
func (m *newCmdModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case ProjectQuestions, ConfigQuestions:
		return m.handleQuestionState(msg)
	case OverwritePrompt:
		return m.handleOverwriteState(msg)
	case DecisionPrompt:
		return m.handleDecisionState(msg)
	default:
		return m.handleQuit(msg)
	}
}

// handleQuestionState handles key presses while a question is on screen.
func (m *newCmdModel) handleQuestionState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.questions[m.current]
	switch msg.Type {
	case tea.KeyEnter:
		return m.answerCurrent()
	case tea.KeyCtrlC, tea.KeyEsc:
		if m.state == ConfigQuestions {
			return m.declineQuit("Leaving the scaffolded project as is. Exiting...")
		}
		return m.declineQuit("No changes written. Exiting...")
	case tea.KeyUp:
		if q.Kind == core.SelectQuestion && m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.KeyDown:
		if q.Kind == core.SelectQuestion && m.cursor < len(q.Options)-1 {
			m.cursor++
		}
		return m, nil
	}
	if q.Kind == core.SelectQuestion {
		return m, nil
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// answerCurrent validates and applies the on-screen answer. Validation
// failures re-prompt with the reason; they never abort the wizard.
func (m *newCmdModel) answerCurrent() (tea.Model, tea.Cmd) {
	q := m.questions[m.current]
	value := strings.TrimSpace(m.textInput.Value())
	if q.Kind == core.SelectQuestion {
		value = q.Options[m.cursor]
	}
	if value == "" {
		value = q.DefaultFor(m.request)
	}
	if q.Kind == core.ConfirmQuestion && value != "" && !isYesNo(value) {
		return m, nil
	}
	if err := q.Answer(m.request, value); err != nil {
		m.inputErr = err.Error()
		return m, nil
	}
	m.inputErr = ""
	m.answered = append(m.answered, answeredQuestion{prompt: q.Prompt, value: value})
	m.textInput.SetValue("")
	m.current++
	return m.advance()
}

func isYesNo(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "yes", "n", "no", "true", "false", "1", "0":
		return true
	}
	return false
}

// advance moves to the next relevant question of the current phase, or on to
// the phase that follows when the questions are exhausted.
func (m *newCmdModel) advance() (tea.Model, tea.Cmd) {
	phase := core.PhaseProject
	if m.state == ConfigQuestions {
		phase = core.PhaseConfigure
	}
	if m.seekQuestion(phase) {
		return m, textinput.Blink
	}
	if m.state == ProjectQuestions {
		return m.afterProjectQuestions()
	}
	return m.startGenerating()
}

func (m *newCmdModel) afterProjectQuestions() (tea.Model, tea.Cmd) {
	m.runState.BasePath = filepath.Join(m.workDir, m.request.ProjectName)
	if m.fs.Exists(m.runState.BasePath) {
		m.state = OverwritePrompt
		return m, nil
	}
	return m.startScaffolding()
}

func (m *newCmdModel) handleOverwriteState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		return m.declineQuit("Keeping the existing directory. Exiting...")
	}
	switch strings.ToLower(msg.String()) {
	case "y":
		if err := m.fs.RemoveAll(m.runState.BasePath); err != nil {
			m.runErr = fmt.Errorf("could not remove the existing directory %s: %w", m.runState.BasePath, err)
			m.state = Aborted
			return m, tea.Quit
		}
		return m.startScaffolding()
	case "n":
		return m.declineQuit("Keeping the existing directory. Exiting...")
	}
	return m, nil
}

func (m *newCmdModel) startScaffolding() (tea.Model, tea.Cmd) {
	m.state = Scaffolding
	m.plan = core.ScaffoldSteps()
	m.completed = nil
	m.resultChan = m.engine.Enqueue(m.runState, m.plan)
	return m, tea.Batch(m.spinner.Tick, m.progress.SetPercent(0), m.listenForNextStep, m.listenForResult)
}

func (m *newCmdModel) startConfiguring() (tea.Model, tea.Cmd) {
	m.state = ConfigQuestions
	m.current = 0
	if !m.seekQuestion(core.PhaseConfigure) {
		return m.startGenerating()
	}
	return m, textinput.Blink
}

func (m *newCmdModel) startGenerating() (tea.Model, tea.Cmd) {
	m.state = Generating
	m.plan = core.GenerationSteps()
	m.completed = nil
	m.resultChan = m.engine.Enqueue(m.runState, m.plan)
	return m, tea.Batch(m.spinner.Tick, m.progress.SetPercent(0), m.listenForNextStep, m.listenForResult)
}

func (m *newCmdModel) listenForNextStep() tea.Msg {
	select {
	case step := <-m.publisher.stepChan:
		return step
	case w := <-m.publisher.warnChan:
		return w
	case d := <-m.prompter.requests:
		return d
	case err := <-m.publisher.errorChan:
		m.logger.Error(fmt.Sprintf("Error received during project generation: %v", err))
		return err
	}
}

func (m *newCmdModel) listenForResult() tea.Msg {
	if err := <-m.resultChan; err != nil {
		return err
	}
	return nil
}

func (m *newCmdModel) handleStep(step core.StepType) (tea.Model, tea.Cmd) {
	m.logger.Debug(fmt.Sprintf("Received step: %v", step))
	if step == core.Done {
		if m.state == Scaffolding {
			return m.startConfiguring()
		}
		return m.finishRun()
	}
	m.completed = append(m.completed, stepOutcome{step: step})
	return m, tea.Batch(m.spinner.Tick, m.stepProgress(), m.listenForNextStep)
}

func (m *newCmdModel) handleWarning(w stepWarning) (tea.Model, tea.Cmd) {
	m.logger.Warn(fmt.Sprintf("Step finished with a warning: %v", w.Err))
	m.completed = append(m.completed, stepOutcome{step: w.Step, warned: true})
	m.warnings++
	return m, tea.Batch(m.spinner.Tick, m.stepProgress(), m.listenForNextStep)
}

// stepProgress animates the bar towards the share of the plan finished.
func (m *newCmdModel) stepProgress() tea.Cmd {
	if len(m.plan) == 0 {
		return nil
	}
	return m.progress.SetPercent(float64(len(m.completed)) / float64(len(m.plan)))
}

func (m *newCmdModel) handleDecision(d decisionRequest) (tea.Model, tea.Cmd) {
	m.state = DecisionPrompt
	m.decision = &d
	return m, nil
}

func (m *newCmdModel) handleDecisionState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		m.decision.resp <- false
		m.decision = nil
		return m.handleQuit(msg)
	}
	switch strings.ToLower(msg.String()) {
	case "y":
		return m.resumeAfterDecision(true)
	case "n":
		return m.resumeAfterDecision(false)
	}
	return m, nil
}

func (m *newCmdModel) resumeAfterDecision(answer bool) (tea.Model, tea.Cmd) {
	m.decision.resp <- answer
	m.decision = nil
	m.state = Generating
	return m, tea.Batch(m.spinner.Tick, m.listenForNextStep)
}

func (m *newCmdModel) finishRun() (tea.Model, tea.Cmd) {
	m.logger.Info("Project generation complete.")
	m.state = Finished
	return m, tea.Sequence(tea.Printf("%s", m.summaryView()), tea.Quit)
}

// handleQuit handles the quit state of the application on key press.
func (m *newCmdModel) handleQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		m.logger.Debug("User exited the application")
		m.declined = true
		m.engineCancel()
		style := lipgloss.NewStyle().Faint(true)
		message := "Interrupted. Exiting application..."
		message = style.Render(message)
		return m, tea.Sequence(tea.Printf("%s", message), tea.Quit)
	}
	return m, nil
}

func (m *newCmdModel) declineQuit(message string) (tea.Model, tea.Cmd) {
	m.logger.Debug("User declined to continue")
	m.declined = true
	style := lipgloss.NewStyle().Faint(true)
	return m, tea.Sequence(tea.Printf("%s", style.Render(message)), tea.Quit)
}

func (m newCmdModel) questionView() string {
	faint := lipgloss.NewStyle().Faint(true)
	var output strings.Builder
	for _, a := range m.answered {
		output.WriteString(faint.Render(fmt.Sprintf("%s %s", a.prompt, a.value)))
		output.WriteString("\n")
	}

	q := m.questions[m.current]
	switch q.Kind {
	case core.SelectQuestion:
		output.WriteString(q.Prompt + "\n")
		cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("202"))
		for i, opt := range q.Options {
			if i == m.cursor {
				output.WriteString(cursorStyle.Render("> "+opt) + "\n")
			} else {
				output.WriteString("  " + opt + "\n")
			}
		}
	case core.ConfirmQuestion:
		fmt.Fprintf(&output, "%s (y/n):\n%s\n", q.Prompt, m.textInput.View())
	default:
		fmt.Fprintf(&output, "%s\n%s\n", q.Prompt, m.textInput.View())
	}

	if m.inputErr != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		output.WriteString(errStyle.Render(m.inputErr) + "\n")
	}

	hint := "(press enter to confirm or esc to quit)"
	if q.Kind == core.SelectQuestion {
		hint = "(use arrow keys to choose, enter to confirm, esc to quit)"
	}
	output.WriteString("\n" + faint.Render(hint))
	return output.String()
}

func (m newCmdModel) checklistView() string {
	checkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	faint := lipgloss.NewStyle().Faint(true)

	enumerator := func(l list.Items, i int) string {
		if i < len(m.completed) {
			if !m.plan[i].ShouldRun(m.request) {
				return faint.Render("•")
			}
			if m.completed[i].warned {
				return warnStyle.Render("!")
			}
			return checkStyle.Render("✓")
		}
		if i == len(m.completed) {
			return m.spinner.View()
		}
		return ""
	}

	l := list.New().Enumerator(enumerator)
	for i, step := range m.plan {
		titles := stepTitles[step.Type]
		if i < len(m.completed) {
			if !step.ShouldRun(m.request) {
				l.Item(faint.Render(titles.present))
			} else {
				l.Item(titles.past)
			}
		} else if i == len(m.completed) {
			l.Item(titles.present)
		}
	}

	pad := strings.Repeat(" ", padding)
	return fmt.Sprintf("%v\n\n%s%s", l, pad, m.progress.View())
}

func (m newCmdModel) summaryView() string {
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	faint := lipgloss.NewStyle().Faint(true)
	name := nameStyle.Render(m.request.ProjectName)

	var b strings.Builder
	fmt.Fprintf(&b, "Project %s is ready at %s\n\n", name, m.runState.BasePath)
	b.WriteString("Next steps:\n")
	fmt.Fprintf(&b, "  cd %s\n", m.request.ProjectName)
	b.WriteString("  npm run dev\n")
	if m.runState.BackendPath != "" {
		fmt.Fprintf(&b, "\n%s\n", faint.Render(fmt.Sprintf("The Medusa backend lives in ../%s; run its start.sh before npm run dev.", m.request.BackendDir)))
	}
	if m.runState.PartialBackend {
		fmt.Fprintf(&b, "\n%s\n", faint.Render("The backend install did not complete; the storefront points at the default backend URL."))
	}
	if m.warnings > 0 {
		fmt.Fprintf(&b, "\n%s\n", faint.Render(fmt.Sprintf("%d step(s) finished with warnings. See ~/.gantry/gantry.log for details.", m.warnings)))
	}
	return b.String()
}
