package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gantrydev/gantry/emit"
	"github.com/gantrydev/gantry/runner"
	"github.com/gantrydev/gantry/validate"
)

// ScaffoldSteps are the pre-question steps: toolchain preflight and the one
// non-retried scaffolding tool invocation.
func ScaffoldSteps() []Step {
	return []Step{
		{
			Type:      CheckPrerequisites,
			Title:     "Checking prerequisites",
			Run:       runPreflight,
			OnFailure: Abort,
		},
		{
			Type:      ScaffoldProject,
			Title:     "Creating project",
			Run:       runScaffold,
			OnFailure: Abort,
		},
	}
}

// GenerationSteps are the integration and finalization steps in their fixed
// execution order. The failure policy is declared per step: integration
// installs abort the run, the manifest rewrite is the one step downgraded to
// a warning.
func GenerationSteps() []Step {
	return []Step{
		{
			Type:      AddFramework,
			Title:     "Adding UI framework",
			When:      func(r *Request) bool { return r.UsesFramework() },
			Run:       runFramework,
			OnFailure: Abort,
		},
		{
			Type:      AddTailwind,
			Title:     "Adding Tailwind",
			When:      func(r *Request) bool { return r.Tailwind },
			Run:       runTailwind,
			OnFailure: Abort,
		},
		{
			Type:      AddSanity,
			Title:     "Setting up Sanity",
			When:      func(r *Request) bool { return r.Sanity },
			Run:       runSanity,
			OnFailure: Abort,
		},
		{
			Type:      AddMedusa,
			Title:     "Setting up Medusa",
			When:      func(r *Request) bool { return r.Medusa },
			Run:       runMedusa,
			OnFailure: Abort,
		},
		{
			Type:      AddDeployment,
			Title:     "Adding deployment adapter",
			When:      func(r *Request) bool { return r.UsesDeployment() },
			Run:       runDeployment,
			OnFailure: Abort,
		},
		{
			Type:      UpdateManifest,
			Title:     "Updating package manifest",
			Run:       runManifest,
			OnFailure: WarnAndContinue,
		},
		{
			Type:      WriteEnv,
			Title:     "Writing environment file",
			When:      func(r *Request) bool { return r.Medusa },
			Run:       runEnv,
			OnFailure: Abort,
		},
		{
			Type:      WriteStubs,
			Title:     "Writing client stubs",
			When:      func(r *Request) bool { return r.Sanity || r.Medusa },
			Run:       runStubs,
			OnFailure: Abort,
		},
		{
			Type:      WriteReadme,
			Title:     "Writing README",
			Run:       runReadme,
			OnFailure: Abort,
		},
		{
			Type:      WriteGitignore,
			Title:     "Writing ignore rules",
			Run:       runGitignore,
			OnFailure: Abort,
		},
	}
}

// AllSteps returns the complete run plan in execution order.
func AllSteps() []Step {
	return append(ScaffoldSteps(), GenerationSteps()...)
}

func runPreflight(ctx context.Context, s *State) error {
	s.Logger.Info("Checking toolchain prerequisites")
	out, err := s.RunCommand(ctx, "node --version", runner.Options{})
	if err != nil {
		return WrapCommandError("node is not available on PATH", err)
	}
	if err := validate.NodeVersion(out, s.NodeFloor); err != nil {
		return NewConfigError(err.Error(), map[string]string{"version": strings.TrimSpace(out)})
	}
	if _, err := s.RunCommand(ctx, "npm --version", runner.Options{}); err != nil {
		return WrapCommandError("npm is not available on PATH", err)
	}
	return nil
}

func runScaffold(ctx context.Context, s *State) error {
	r := s.Request
	s.Logger.Info(fmt.Sprintf("Scaffolding %s from the %s template", r.ProjectName, r.Template))
	cmd := fmt.Sprintf("npm create astro@latest %s -- --template %s --install --no-git --yes", r.ProjectName, r.Template)
	opts := runner.Options{Dir: filepath.Dir(s.BasePath), Stream: s.StreamOutput}
	if _, err := s.RunCommand(ctx, cmd, opts); err != nil {
		cfg := WrapCommandError("project scaffolding failed; the partially created directory is left for inspection", err)
		cfg.Details["path"] = s.BasePath
		return cfg
	}
	return nil
}

func runFramework(ctx context.Context, s *State) error {
	r := s.Request
	s.Logger.Info(fmt.Sprintf("Adding %s integration", r.Framework))
	cmd := fmt.Sprintf("npx astro add %s --yes", r.Framework)
	if _, err := s.RunCommand(ctx, cmd, runner.Options{Dir: s.BasePath}); err != nil {
		return WrapCommandError(fmt.Sprintf("adding the %s integration failed", r.Framework), err)
	}
	return nil
}

func runTailwind(ctx context.Context, s *State) error {
	s.Logger.Info("Adding Tailwind integration")
	if _, err := s.RunCommand(ctx, "npx astro add tailwind --yes", runner.Options{Dir: s.BasePath}); err != nil {
		return WrapCommandError("adding the Tailwind integration failed", err)
	}
	return nil
}

func runSanity(ctx context.Context, s *State) error {
	s.Logger.Info("Setting up Sanity")
	if _, err := s.RunCommand(ctx, "npm install @sanity/client", runner.Options{Dir: s.BasePath}); err != nil {
		return WrapCommandError("installing the Sanity client failed", err)
	}
	opts := runner.Options{Dir: s.BasePath, Stream: s.StreamOutput}
	if _, err := s.RunCommand(ctx, "npx sanity@latest init --bare --yes", opts); err != nil {
		return WrapCommandError("initializing the Sanity project failed", err)
	}
	return nil
}

func runMedusa(ctx context.Context, s *State) error {
	r := s.Request
	s.Logger.Info(fmt.Sprintf("Setting up Medusa in %s mode", r.MedusaMode))
	if _, err := s.RunCommand(ctx, "npm install @medusajs/js-sdk", runner.Options{Dir: s.BasePath}); err != nil {
		return WrapCommandError("installing the Medusa client failed", err)
	}
	if r.MedusaMode != MedusaFull {
		return nil
	}

	// An unconfirmed database would make the install fail non-deterministically
	// partway through, so the gate refuses up front.
	if r.Database == DatabasePostgres && !r.DatabaseReachable {
		return NewConfigError(
			"database reachability was not confirmed; refusing to start a backend install against an unreachable database",
			map[string]string{"database_url": r.DatabaseURL},
		)
	}

	parent := filepath.Dir(s.BasePath)
	backendPath := filepath.Join(parent, r.BackendDir)
	// create-medusa-app is not idempotent: a failed attempt leaves a partial
	// directory behind, so it is removed before every retry.
	cleanup := func() error {
		if s.Fs.Exists(backendPath) {
			return s.Fs.RemoveAll(backendPath)
		}
		return nil
	}

	opts := runner.Options{Dir: parent, Stream: s.StreamOutput, Timeout: s.CommandTimeout, Env: npmEnv}
	_, err := runner.RunWithRetry(ctx, s.Runner, medusaCreateCommand(r), s.Retries, opts, cleanup)
	if err != nil {
		// Ctrl-C aborts outright; the degradation offer is for install failures only.
		if errors.Is(err, context.Canceled) {
			return err
		}
		s.Logger.Error(fmt.Sprintf("Backend install failed after retries: %v", err))
		if s.Prompter != nil && s.Prompter.Confirm("The backend install failed. Continue without a backend?") {
			s.PartialBackend = true
			if cleanupErr := cleanup(); cleanupErr != nil {
				s.Logger.Warn(fmt.Sprintf("Could not remove partial backend directory: %v", cleanupErr))
			}
			return &DegradedError{Err: err}
		}
		return WrapCommandError("e-commerce backend install failed", err)
	}
	s.BackendPath = backendPath

	start := filepath.Join(backendPath, "start.sh")
	if err := s.Fs.WriteFile(start, emit.BackendStart(r.Database, r.DatabaseURL), false); err != nil {
		return &ConfigError{Message: "writing the backend start script failed", Details: map[string]string{"path": start}, Err: err}
	}
	if runtime.GOOS != "windows" {
		if _, err := s.RunCommand(ctx, fmt.Sprintf("chmod +x %q", start), runner.Options{}); err != nil {
			return WrapCommandError("marking the backend start script executable failed", err)
		}
	}

	if r.SeedData {
		s.Logger.Info("Seeding backend data")
		if _, err := s.RunCommand(ctx, "npm run seed", runner.Options{Dir: backendPath, Stream: s.StreamOutput}); err != nil {
			return WrapCommandError("seeding the backend failed", err)
		}
	}
	return nil
}

func medusaCreateCommand(r *Request) string {
	if r.Database == DatabasePostgres {
		return fmt.Sprintf("npx create-medusa-app@latest %s --db-url %q --no-browser", r.BackendDir, r.DatabaseURL)
	}
	return fmt.Sprintf("npx create-medusa-app@latest %s --no-browser", r.BackendDir)
}

func runDeployment(ctx context.Context, s *State) error {
	r := s.Request
	s.Logger.Info(fmt.Sprintf("Adding %s adapter", r.Deployment))
	cmd := fmt.Sprintf("npx astro add %s --yes", r.Deployment)
	if _, err := s.RunCommand(ctx, cmd, runner.Options{Dir: s.BasePath}); err != nil {
		return WrapCommandError(fmt.Sprintf("adding the %s adapter failed", r.Deployment), err)
	}
	return nil
}

func runManifest(_ context.Context, s *State) error {
	path := filepath.Join(s.BasePath, "package.json")
	existing, err := s.Fs.ReadFile(path)
	if err != nil {
		return &ConfigError{Message: "reading package.json failed", Details: map[string]string{"path": path}, Err: err}
	}
	updated, err := emit.PackageManifest([]byte(existing), s.Request.ProjectName)
	if err != nil {
		return &ConfigError{Message: "updating package.json failed", Details: map[string]string{"path": path}, Err: err}
	}
	if err := s.Fs.WriteFile(path, string(updated), true); err != nil {
		return &ConfigError{Message: "writing package.json failed", Details: map[string]string{"path": path}, Err: err}
	}
	return nil
}

func runEnv(_ context.Context, s *State) error {
	path := filepath.Join(s.BasePath, ".env")
	existing := ""
	if s.Fs.Exists(path) {
		var err error
		existing, err = s.Fs.ReadFile(path)
		if err != nil {
			return &ConfigError{Message: "reading .env failed", Details: map[string]string{"path": path}, Err: err}
		}
	}
	content := emit.EnvLines(existing, requestBackendURL(s.Request))
	if err := s.Fs.WriteFile(path, content, true); err != nil {
		return &ConfigError{Message: "writing .env failed", Details: map[string]string{"path": path}, Err: err}
	}
	return nil
}

func runStubs(_ context.Context, s *State) error {
	r := s.Request
	libDir := filepath.Join(s.BasePath, "src", "lib")
	if r.Sanity {
		path := filepath.Join(libDir, "sanity.ts")
		if err := s.Fs.WriteFile(path, emit.SanityClient(), false); err != nil {
			return &ConfigError{Message: "writing the Sanity client stub failed", Details: map[string]string{"path": path}, Err: err}
		}
	}
	if r.Medusa {
		path := filepath.Join(libDir, "medusa.ts")
		if err := s.Fs.WriteFile(path, emit.MedusaClient(requestBackendURL(r)), false); err != nil {
			return &ConfigError{Message: "writing the Medusa client stub failed", Details: map[string]string{"path": path}, Err: err}
		}
	}
	return nil
}

func runReadme(_ context.Context, s *State) error {
	content, err := emit.Readme(emitData(s))
	if err != nil {
		return &ConfigError{Message: "rendering the README failed", Err: err}
	}
	path := filepath.Join(s.BasePath, "README.md")
	if err := s.Fs.WriteFile(path, content, true); err != nil {
		return &ConfigError{Message: "writing the README failed", Details: map[string]string{"path": path}, Err: err}
	}
	return nil
}

func runGitignore(_ context.Context, s *State) error {
	path := filepath.Join(s.BasePath, ".gitignore")
	if err := s.Fs.WriteFile(path, emit.Gitignore(), true); err != nil {
		return &ConfigError{Message: "writing the ignore rules failed", Details: map[string]string{"path": path}, Err: err}
	}
	return nil
}

func requestBackendURL(r *Request) string {
	if r.Medusa && r.MedusaMode == MedusaExisting && r.BackendURL != "" {
		return r.BackendURL
	}
	return emit.DefaultBackendURL
}

func emitData(s *State) emit.Data {
	r := s.Request
	d := emit.Data{
		Name:       r.ProjectName,
		Template:   r.Template,
		Framework:  r.Framework,
		Tailwind:   r.Tailwind,
		Sanity:     r.Sanity,
		Medusa:     r.Medusa,
		Deployment: r.Deployment,
		BackendURL: requestBackendURL(r),
		Database:   r.Database,
	}
	if r.InstallsBackend() && !s.PartialBackend {
		d.BackendDir = r.BackendDir
	}
	return d
}
