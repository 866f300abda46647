package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gantrydev/gantry/core"
)

// RenderFailure renders the abort banner: what failed, the structured detail
// the error carries, how far the run got, and what to try next.
func RenderFailure(err error, state *core.State) string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	faint := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("✗ Project generation failed"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%v\n", err)

	var cfg *core.ConfigError
	if errors.As(err, &cfg) && len(cfg.Details) > 0 {
		keys := make([]string, 0, len(cfg.Details))
		for k := range cfg.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %s\n", k, cfg.Details[k])
		}
	}

	if state != nil && len(state.Results) > 0 {
		b.WriteString("\nRun progress:\n")
		b.WriteString(core.Report(core.AllSteps(), state))
	}

	b.WriteString("\nThings to try:\n")
	b.WriteString("  - Check your network connection.\n")
	b.WriteString("  - Clear the npm cache (npm cache clean --force) and retry.\n")
	b.WriteString("  - Make sure the project name is valid for package.json.\n")
	b.WriteString("\n" + faint.Render("Details were logged to ~/.gantry/gantry.log"))
	return b.String()
}
