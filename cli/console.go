package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/gantrydev/gantry/config"
	"github.com/gantrydev/gantry/core"
	"github.com/gantrydev/gantry/fs"
	"github.com/gantrydev/gantry/logger"
	"github.com/gantrydev/gantry/runner"
)

// consolePublisher prints one line per finished step. It serves configured
// runs, where no wizard owns the screen and child output streams through.
type consolePublisher struct {
	request *core.Request
	steps   map[core.StepType]core.Step
}

func newConsolePublisher(r *core.Request) *consolePublisher {
	steps := make(map[core.StepType]core.Step)
	for _, s := range core.AllSteps() {
		steps[s.Type] = s
	}
	return &consolePublisher{request: r, steps: steps}
}

func (p *consolePublisher) PublishStep(t core.StepType) {
	step, ok := p.steps[t]
	if !ok {
		return
	}
	if !step.ShouldRun(p.request) {
		faint := lipgloss.NewStyle().Faint(true)
		fmt.Println(faint.Render(fmt.Sprintf("• %s (skipped)", step.Title)))
		return
	}
	check := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓")
	fmt.Printf("%s %s\n", check, step.Title)
}

func (p *consolePublisher) Warn(t core.StepType, err error) {
	step, ok := p.steps[t]
	if !ok {
		return
	}
	mark := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("!")
	fmt.Printf("%s %s: %v\n", mark, step.Title, err)
}

func (p *consolePublisher) Error(t core.StepType, err error) {
	step, ok := p.steps[t]
	if !ok {
		return
	}
	mark := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("✗")
	fmt.Printf("%s %s: %v\n", mark, step.Title, err)
}

// declinePrompter answers no to every mid-run decision. Configured runs have
// nobody to ask, and no is the answer that aborts rather than degrades.
type declinePrompter struct {
	log logger.Logger
}

func (p declinePrompter) Confirm(question string) bool {
	p.log.Warn(fmt.Sprintf("Non-interactive run, declining: %s", question))
	return false
}

// RunConfigured executes a full run from a pre-validated answer set without
// the wizard. On failure the banner is printed here, where the run state is
// still in scope; the returned error tells the caller how to exit.
func RunConfigured(req *core.Request, settings *config.Settings, log logger.Logger) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not determine the working directory: %w", err)
	}

	projFs := fs.NewOsFileSystem()
	state := core.NewState(req, log)
	state.BasePath = filepath.Join(workDir, req.ProjectName)
	state.Retries = settings.Retries
	state.NodeFloor = settings.NodeFloor
	state.CommandTimeout = settings.CommandTimeout
	state.StreamOutput = true
	state.Runner = runner.NewExecRunner(state.Logger)
	state.Fs = projFs
	state.Prompter = declinePrompter{log: state.Logger}

	if projFs.Exists(state.BasePath) {
		err := core.NewConfigError(
			fmt.Sprintf("directory %s already exists; remove it or pick another project name", state.BasePath),
			map[string]string{"path": state.BasePath},
		)
		fmt.Println(RenderFailure(err, nil))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pub := newConsolePublisher(req)
	for _, steps := range [][]core.Step{core.ScaffoldSteps(), core.GenerationSteps()} {
		if err := core.NewPipeline(state, steps, pub).Execute(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Println(RenderFailure(err, state))
			return err
		}
	}

	fmt.Println()
	fmt.Print(core.Report(core.AllSteps(), state))
	name := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render(req.ProjectName)
	fmt.Printf("\nProject %s is ready at %s\n", name, state.BasePath)
	return nil
}

// printPlan writes the step plan a given answer set would run, without
// executing anything.
func printPlan(req *core.Request) {
	faint := lipgloss.NewStyle().Faint(true)
	for _, step := range core.AllSteps() {
		if step.ShouldRun(req) {
			fmt.Printf("→ %s\n", step.Title)
		} else {
			fmt.Println(faint.Render(fmt.Sprintf("• %s (skipped)", step.Title)))
		}
	}
}
