package core

import (
	"fmt"
	"strings"
)

func (s StepStatus) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusSkipped:
		return "skipped"
	case StatusWarned:
		return "warned"
	case StatusFailed:
		return "failed"
	case StatusNotRun:
		return "not run"
	default:
		return "unknown"
	}
}

func statusGlyph(s StepStatus) string {
	switch s {
	case StatusSucceeded:
		return "✓"
	case StatusSkipped:
		return "•"
	case StatusWarned:
		return "!"
	case StatusFailed:
		return "✗"
	default:
		return "–"
	}
}

// Report renders the outcome of a run against its full plan: which steps
// completed, which were skipped or warned, which failed, and which never got
// to run. On a fatal error this is what tells the user exactly how far the
// half-built project got.
func Report(steps []Step, state *State) string {
	byType := make(map[StepType]StepResult, len(state.Results))
	for _, res := range state.Results {
		byType[res.Type] = res
	}

	var b strings.Builder
	for _, step := range steps {
		res, ok := byType[step.Type]
		if !ok {
			status := StatusNotRun
			if !step.ShouldRun(state.Request) {
				status = StatusSkipped
			}
			res = StepResult{Type: step.Type, Title: step.Title, Status: status}
		}
		fmt.Fprintf(&b, "%s %s", statusGlyph(res.Status), res.Title)
		switch res.Status {
		case StatusSkipped:
			b.WriteString(" (skipped)")
		case StatusNotRun:
			b.WriteString(" (not run)")
		case StatusWarned, StatusFailed:
			if res.Err != nil {
				fmt.Fprintf(&b, " (%v)", res.Err)
			}
		}
		b.WriteString("\n")
	}
	if state.PartialBackend {
		b.WriteString("\nThe backend install did not complete; the storefront points at the default backend URL.\n")
	}
	return b.String()
}
