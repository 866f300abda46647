package core

import (
	"fmt"
	"strings"

	"github.com/gantrydev/gantry/validate"
)

type QuestionKind int

const (
	TextQuestion QuestionKind = iota
	SelectQuestion
	ConfirmQuestion
)

type Phase int

const (
	// PhaseProject questions run before the project is scaffolded.
	PhaseProject Phase = iota
	// PhaseConfigure questions run against the scaffolded project.
	PhaseConfigure
)

// Question is one node in the question graph. Presence is a predicate over
// the answers given so far, so the same graph drives both the interactive
// wizard and config-file runs. Order in the Questions slice is ask order.
type Question struct {
	Key      string
	Prompt   string
	Kind     QuestionKind
	Options  []string
	Phase    Phase
	Default  func(r *Request) string
	When     func(r *Request) bool
	Validate func(value string) error
	Apply    func(r *Request, value string)
}

// Relevant reports whether the question applies given the answers so far.
func (q Question) Relevant(r *Request) bool {
	return q.When == nil || q.When(r)
}

// DefaultFor returns the default presented for this question.
func (q Question) DefaultFor(r *Request) string {
	if q.Default == nil {
		return ""
	}
	return q.Default(r)
}

// Answer validates a raw value and applies it to the request.
func (q Question) Answer(r *Request, value string) error {
	if q.Kind != ConfirmQuestion && q.Validate != nil {
		if err := q.Validate(value); err != nil {
			return fmt.Errorf("%s: %w", q.Key, err)
		}
	}
	q.Apply(r, value)
	return nil
}

// ParseBool interprets confirm answers. Anything not recognizably positive
// reads as no.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}

// Questions returns the full question graph in ask order.
func Questions() []Question {
	return []Question{
		{
			Key:      "project_name",
			Prompt:   "What is your project named?",
			Kind:     TextQuestion,
			Phase:    PhaseProject,
			Validate: validate.ProjectName,
			Apply:    func(r *Request, v string) { r.ProjectName = strings.TrimSpace(v) },
		},
		{
			Key:      "template",
			Prompt:   "Which template would you like to start from?",
			Kind:     SelectQuestion,
			Options:  []string{TemplateBlog, TemplatePortfolio, TemplateMinimal},
			Phase:    PhaseProject,
			Default:  func(*Request) string { return TemplateMinimal },
			Validate: oneOf(TemplateBlog, TemplatePortfolio, TemplateMinimal),
			Apply:    func(r *Request, v string) { r.Template = v },
		},
		{
			Key:      "framework",
			Prompt:   "Which UI framework would you like to use?",
			Kind:     SelectQuestion,
			Options:  []string{FrameworkReact, FrameworkVue, FrameworkSvelte, FrameworkSolid, FrameworkNone},
			Phase:    PhaseConfigure,
			Default:  func(*Request) string { return FrameworkNone },
			Validate: oneOf(FrameworkReact, FrameworkVue, FrameworkSvelte, FrameworkSolid, FrameworkNone),
			Apply:    func(r *Request, v string) { r.Framework = v },
		},
		{
			Key:     "tailwind",
			Prompt:  "Add Tailwind CSS?",
			Kind:    ConfirmQuestion,
			Phase:   PhaseConfigure,
			Default: func(*Request) string { return "y" },
			Apply:   func(r *Request, v string) { r.Tailwind = ParseBool(v) },
		},
		{
			Key:     "sanity",
			Prompt:  "Add the Sanity CMS integration?",
			Kind:    ConfirmQuestion,
			Phase:   PhaseConfigure,
			Default: func(*Request) string { return "n" },
			Apply:   func(r *Request, v string) { r.Sanity = ParseBool(v) },
		},
		{
			Key:     "medusa",
			Prompt:  "Add the Medusa e-commerce integration?",
			Kind:    ConfirmQuestion,
			Phase:   PhaseConfigure,
			Default: func(*Request) string { return "n" },
			Apply:   func(r *Request, v string) { r.Medusa = ParseBool(v) },
		},
		{
			Key:      "deployment",
			Prompt:   "Where will you deploy?",
			Kind:     SelectQuestion,
			Options:  []string{DeployNetlify, DeployVercel, DeployNone},
			Phase:    PhaseConfigure,
			Default:  func(*Request) string { return DeployNone },
			Validate: oneOf(DeployNetlify, DeployVercel, DeployNone),
			Apply:    func(r *Request, v string) { r.Deployment = v },
		},
		{
			Key:      "medusa_mode",
			Prompt:   "How should the Medusa backend be set up?",
			Kind:     SelectQuestion,
			Options:  []string{MedusaFull, MedusaExisting, MedusaClient},
			Phase:    PhaseConfigure,
			Default:  func(*Request) string { return MedusaFull },
			When:     func(r *Request) bool { return r.Medusa },
			Validate: oneOf(MedusaFull, MedusaExisting, MedusaClient),
			Apply:    func(r *Request, v string) { r.MedusaMode = v },
		},
		{
			Key:      "backend_dir",
			Prompt:   "Backend directory name?",
			Kind:     TextQuestion,
			Phase:    PhaseConfigure,
			Default:  func(r *Request) string { return r.ProjectName + "-backend" },
			When:     func(r *Request) bool { return r.InstallsBackend() },
			Validate: validate.DirectoryName,
			Apply:    func(r *Request, v string) { r.BackendDir = strings.TrimSpace(v) },
		},
		{
			Key:      "database",
			Prompt:   "Which database should the backend use?",
			Kind:     SelectQuestion,
			Options:  []string{DatabasePostgres, DatabaseSQLite},
			Phase:    PhaseConfigure,
			Default:  func(*Request) string { return DatabaseSQLite },
			When:     func(r *Request) bool { return r.InstallsBackend() },
			Validate: oneOf(DatabasePostgres, DatabaseSQLite),
			Apply:    func(r *Request, v string) { r.Database = v },
		},
		{
			Key:      "database_url",
			Prompt:   "Postgres connection string?",
			Kind:     TextQuestion,
			Phase:    PhaseConfigure,
			When:     func(r *Request) bool { return r.InstallsBackend() && r.Database == DatabasePostgres },
			Validate: validate.EndpointURL,
			Apply:    func(r *Request, v string) { r.DatabaseURL = strings.TrimSpace(v) },
		},
		{
			Key:     "database_reachable",
			Prompt:  "Is the database reachable from this machine?",
			Kind:    ConfirmQuestion,
			Phase:   PhaseConfigure,
			When:    func(r *Request) bool { return r.InstallsBackend() && r.Database == DatabasePostgres },
			Apply:   func(r *Request, v string) { r.DatabaseReachable = ParseBool(v) },
		},
		{
			Key:     "seed_data",
			Prompt:  "Seed the backend with demo data?",
			Kind:    ConfirmQuestion,
			Phase:   PhaseConfigure,
			Default: func(*Request) string { return "n" },
			When:    func(r *Request) bool { return r.InstallsBackend() },
			Apply:   func(r *Request, v string) { r.SeedData = ParseBool(v) },
		},
		{
			Key:      "backend_url",
			Prompt:   "URL of the existing backend?",
			Kind:     TextQuestion,
			Phase:    PhaseConfigure,
			Default:  func(*Request) string { return "http://localhost:9000" },
			When:     func(r *Request) bool { return r.Medusa && r.MedusaMode == MedusaExisting },
			Validate: validate.EndpointURL,
			Apply:    func(r *Request, v string) { r.BackendURL = strings.TrimSpace(v) },
		},
	}
}

func oneOf(options ...string) func(string) error {
	return func(v string) error {
		for _, o := range options {
			if v == o {
				return nil
			}
		}
		return fmt.Errorf("must be one of: %s", strings.Join(options, ", "))
	}
}
