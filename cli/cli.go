package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gantrydev/gantry/config"
	"github.com/gantrydev/gantry/core"
	"github.com/gantrydev/gantry/logger"
	"github.com/gantrydev/gantry/validate"
)

// Version is stamped at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "gantry",
	Short: "Gantry scaffolds Astro storefront projects",
	Long:  `Gantry is an interactive CLI that scaffolds Astro projects and wires in a UI framework, Tailwind, the Sanity CMS and a Medusa e-commerce backend as requested.`,
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new project",
	Run: func(cmd *cobra.Command, args []string) {
		flags, err := parseNewFlags(cmd)
		if err != nil {
			fmt.Printf("Error parsing flags: %v\n", err)
			os.Exit(1)
		}

		logger.InitLogger()
		log := logger.GetLogger()

		settings, err := config.LoadSettings()
		if err != nil {
			fmt.Println(RenderFailure(err, nil))
			os.Exit(1)
		}

		if flags.config != "" || flags.dryRun {
			runConfigured(flags, settings, log)
			return
		}
		runWizard(flags, settings, log)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gantry version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gantry %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(versionCmd)

	newCmd.Flags().StringP("name", "n", "", "The name of the project to create. Also used as the project directory name")
	newCmd.Flags().StringP("config", "c", "", "Path to an answers file; runs without the wizard")
	newCmd.Flags().Bool("dry-run", false, "Print the step plan and exit without running anything")
}

func parseNewFlags(cmd *cobra.Command) (newFlags, error) {
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return newFlags{}, err
	}

	config, err := cmd.Flags().GetString("config")
	if err != nil {
		return newFlags{}, err
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return newFlags{}, err
	}

	return newFlags{
		name:   name,
		config: config,
		dryRun: dryRun,
	}, nil
}

// runConfigured handles answer-file and dry runs. Interrupts exit zero; any
// failure exits one after the banner has been printed.
func runConfigured(flags newFlags, settings *config.Settings, log logger.Logger) {
	req := core.DefaultRequest()
	if flags.config != "" {
		var err error
		req, err = config.LoadAnswers(flags.config)
		if err != nil {
			fmt.Println(RenderFailure(err, nil))
			os.Exit(1)
		}
	}
	if flags.name != "" {
		if err := validate.ProjectName(flags.name); err != nil {
			fmt.Println(RenderFailure(err, nil))
			os.Exit(1)
		}
		req.ProjectName = flags.name
	}

	if flags.dryRun {
		printPlan(req)
		return
	}

	if err := RunConfigured(req, settings, log); err != nil {
		if errors.Is(err, context.Canceled) {
			faint := lipgloss.NewStyle().Faint(true)
			fmt.Println(faint.Render("Interrupted. Exiting application..."))
			return
		}
		os.Exit(1)
	}
}

// runWizard drives the interactive flow. Declining a question or interrupting
// is a normal exit; only a failed run exits non-zero.
func runWizard(flags newFlags, settings *config.Settings, log logger.Logger) {
	model, err := newNewCmdModel(flags, settings)
	if err != nil {
		fmt.Println(RenderFailure(err, nil))
		os.Exit(1)
	}

	p := tea.NewProgram(model)
	final, err := p.Run()
	model.Shutdown()
	if err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	fm, ok := finalWizardModel(final)
	if !ok {
		return
	}
	if fm.runErr != nil && !fm.declined {
		fmt.Println(RenderFailure(fm.runErr, fm.runState))
		os.Exit(1)
	}
}

func finalWizardModel(m tea.Model) (newCmdModel, bool) {
	switch v := m.(type) {
	case newCmdModel:
		return v, true
	case *newCmdModel:
		return *v, true
	}
	return newCmdModel{}, false
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
