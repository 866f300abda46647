package core

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gantrydev/gantry/fs"
	"github.com/gantrydev/gantry/logger"
	"github.com/gantrydev/gantry/runner"
)

// FailurePolicy determines what a step failure does to the rest of the run.
type FailurePolicy int

const (
	// Abort stops the run; the failure propagates as a fatal error.
	Abort FailurePolicy = iota
	// WarnAndContinue records the failure and moves on to the next step.
	WarnAndContinue
)

type StepType int

const (
	CheckPrerequisites StepType = iota
	ScaffoldProject
	AddFramework
	AddTailwind
	AddSanity
	AddMedusa
	AddDeployment
	UpdateManifest
	WriteEnv
	WriteStubs
	WriteReadme
	WriteGitignore
	Done
)

// Step is one orchestrated unit of work: a predicate deciding whether it
// runs for a given answer set, an action, and an explicit failure policy.
// The orchestrator owns the list and its order; steps never reorder
// themselves or observe each other except through State.
type Step struct {
	Type      StepType
	Title     string
	When      func(r *Request) bool
	Run       func(ctx context.Context, state *State) error
	OnFailure FailurePolicy
}

// ShouldRun evaluates the step's predicate. Steps without one always run.
func (s Step) ShouldRun(r *Request) bool {
	return s.When == nil || s.When(r)
}

type StepStatus int

const (
	StatusSucceeded StepStatus = iota
	StatusSkipped
	StatusWarned
	StatusFailed
	StatusNotRun
)

// StepResult is the recorded outcome of one step.
type StepResult struct {
	Type     StepType
	Title    string
	Status   StepStatus
	Err      error
	Duration time.Duration
}

// Prompter raises a yes/no decision mid-run, outside the normal question
// flow. Non-interactive callers answer false, which reads as "abort".
type Prompter interface {
	Confirm(question string) bool
}

// State is the mutable context of a single run. The project base path is
// threaded through explicitly; the process working directory is never
// changed.
type State struct {
	Request     *Request
	BasePath    string
	BackendPath string
	RunID       string
	Results     []StepResult

	// PartialBackend is set when a failed backend install was waved
	// through, so the summary can point at the missing piece.
	PartialBackend bool

	Retries        int
	NodeFloor      int
	CommandTimeout time.Duration

	// StreamOutput pipes long-running child processes to the terminal.
	// Kept off when a TUI owns the screen.
	StreamOutput bool

	Runner   runner.Runner
	Fs       *fs.FileSystem
	Prompter Prompter
	Logger   logger.Logger
}

// NewState mints the state for one run. Every log line written through it
// carries the generated run ID, so one run's lines can be pulled back out of
// the shared log file.
func NewState(req *Request, log logger.Logger) *State {
	if log == nil {
		log = logger.NewNullLogger()
	}
	id := uuid.NewString()
	return &State{
		Request: req,
		RunID:   id,
		Logger:  log.WithField("run_id", id),
	}
}

// npmEnv keeps child npm and npx invocations non-interactive; a hidden
// confirmation prompt would stall an unattended run indefinitely.
var npmEnv = []string{"CI=true", "npm_config_yes=true"}

// RunCommand invokes the runner with the run's configured timeout and the
// non-interactive npm environment.
func (s *State) RunCommand(ctx context.Context, command string, opts runner.Options) (string, error) {
	if opts.Timeout == 0 {
		opts.Timeout = s.CommandTimeout
	}
	opts.Env = append(append([]string{}, npmEnv...), opts.Env...)
	return s.Runner.Run(ctx, command, opts)
}
