package core

// Template choices offered at project creation.
const (
	TemplateBlog      = "blog"
	TemplatePortfolio = "portfolio"
	TemplateMinimal   = "minimal"
)

// UI framework choices. FrameworkNone skips the integration entirely.
const (
	FrameworkReact  = "react"
	FrameworkVue    = "vue"
	FrameworkSvelte = "svelte"
	FrameworkSolid  = "solid"
	FrameworkNone   = "none"
)

// Deployment adapter choices.
const (
	DeployNetlify = "netlify"
	DeployVercel  = "vercel"
	DeployNone    = "none"
)

// E-commerce backend modes: install a full local backend, point the
// storefront at an existing one, or install the client library only.
const (
	MedusaFull     = "full"
	MedusaExisting = "existing"
	MedusaClient   = "client"
)

// Database kinds for a full backend install.
const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

// Request is the user's resolved answer set for a new project. It is
// collected once per run and never mutated after the questions finish;
// every step reads from it but none writes to it.
type Request struct {
	ProjectName string `mapstructure:"project_name"`
	Template    string `mapstructure:"template"`
	Framework   string `mapstructure:"framework"`
	Tailwind    bool   `mapstructure:"tailwind"`
	Sanity      bool   `mapstructure:"sanity"`
	Medusa      bool   `mapstructure:"medusa"`
	Deployment  string `mapstructure:"deployment"`

	MedusaMode        string `mapstructure:"medusa_mode"`
	BackendDir        string `mapstructure:"backend_dir"`
	Database          string `mapstructure:"database"`
	DatabaseURL       string `mapstructure:"database_url"`
	DatabaseReachable bool   `mapstructure:"database_reachable"`
	SeedData          bool   `mapstructure:"seed_data"`
	BackendURL        string `mapstructure:"backend_url"`
}

// DefaultRequest returns a Request with default values.
func DefaultRequest() *Request {
	return &Request{
		Template:   TemplateMinimal,
		Framework:  FrameworkNone,
		Deployment: DeployNone,
		MedusaMode: MedusaFull,
		Database:   DatabaseSQLite,
	}
}

// UsesFramework reports whether a UI framework integration was requested.
func (r *Request) UsesFramework() bool {
	return r.Framework != "" && r.Framework != FrameworkNone
}

// UsesDeployment reports whether a deployment adapter was requested.
func (r *Request) UsesDeployment() bool {
	return r.Deployment != "" && r.Deployment != DeployNone
}

// InstallsBackend reports whether the run creates a sibling backend
// directory.
func (r *Request) InstallsBackend() bool {
	return r.Medusa && r.MedusaMode == MedusaFull
}
