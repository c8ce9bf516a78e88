// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/voidvoxel/sapm/internal/issue"
	"github.com/voidvoxel/sapm/pkg/orchestrator"

	"github.com/charmbracelet/log"
)

// renderOutcomes prints one line per outcome and, for failures, the
// suggestions of the matching catalog entry. In verbose mode each distinct
// failure class also gets its full catalog explanation once.
func renderOutcomes(stdout, stderr io.Writer, logger *log.Logger, op string, outcomes []orchestrator.Outcome, verbose bool, style string) {
	rendered := map[issue.Id]bool{}
	for _, out := range outcomes {
		if !out.Failed() {
			fmt.Fprintln(stdout, outcomeLine(out))
			continue
		}

		ae := issue.Wrap(out.Err, op, out.Specifier)
		fmt.Fprintln(stderr, ErrorStyle.Render("✗")+" "+formatErrorForDisplay(ae, verbose))

		id := issue.Classify(out.Err)
		if !verbose || id == 0 || rendered[id] {
			continue
		}
		rendered[id] = true
		renderIssue(stderr, logger, id, style)
	}
}

func outcomeLine(out orchestrator.Outcome) string {
	name := CmdStyle.Render(out.Dependency.Name.String())
	version := ""
	if out.Version != "" {
		version = VerboseStyle.Render("@" + out.Version)
	}

	switch out.State {
	case orchestrator.StateInstalled:
		return SuccessStyle.Render("✓ installed") + " " + name + version
	case orchestrator.StateUninstalled:
		return SuccessStyle.Render("✓ uninstalled") + " " + name + version
	case orchestrator.StateAlreadySatisfied:
		return WarningStyle.Render("• already satisfied") + " " + name + version
	default:
		return out.State.String() + " " + name + version
	}
}

// summary returns e.g. "2 installed, 1 failed".
func summary(outcomes []orchestrator.Outcome) string {
	order := []orchestrator.State{
		orchestrator.StateInstalled,
		orchestrator.StateUninstalled,
		orchestrator.StateAlreadySatisfied,
		orchestrator.StateFailed,
	}
	counts := map[orchestrator.State]int{}
	for _, out := range outcomes {
		counts[out.State]++
	}

	var parts []string
	for _, s := range order {
		if counts[s] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[s], strings.ReplaceAll(s.String(), "-", " ")))
		}
	}
	return strings.Join(parts, ", ")
}

// renderIssue prints the glamour-rendered catalog entry for id. A render
// failure is logged and the entry skipped.
func renderIssue(w io.Writer, logger *log.Logger, id issue.Id, style string) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	out, err := entry.Render(style)
	if err != nil {
		logger.Warn("failed to render issue catalog entry", "issueID", id, "error", err)
		return
	}
	fmt.Fprint(w, out)
}

// finishBatch renders outcomes and converts failures into an ExitError.
func finishBatch(app *App, p *project, op string, outcomes []orchestrator.Outcome) error {
	renderOutcomes(app.stdout, app.stderr, p.logger, op, outcomes, p.verbose, glamourStyle(p))
	if len(outcomes) > 1 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render(summary(outcomes)))
	}
	if orchestrator.AnyFailed(outcomes) {
		return &ExitError{Code: 1}
	}
	return nil
}

func glamourStyle(p *project) string {
	if p == nil || p.cfg == nil {
		return "auto"
	}
	return p.cfg.UI.ColorScheme.GlamourStyle()
}
