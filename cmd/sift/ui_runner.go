package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sift/internal/analyze"
	"sift/internal/diag"
	"sift/internal/sandbox"
	"sift/internal/ui"
)

// scanResult carries the analysis outcome out of the UI goroutine.
type scanResult struct {
	report   *diag.Report
	degraded bool
}

// runScanWithUI drives a hybrid analysis behind a Bubble Tea progress view.
// Analysis runs in its own goroutine and feeds the model through a buffered
// event channel; the result is collected once the channel closes.
func runScanWithUI(ctx context.Context, title string, analyzer *analyze.Analyzer, files map[string]string, sb sandbox.Sandbox) (scanResult, error) {
	events := make(chan analyze.Event, 256)
	resultCh := make(chan scanResult, 1)

	analyzer.Events = func(ev analyze.Event) {
		select {
		case events <- ev:
		default: // a stalled UI must not block analysis
		}
	}

	go func() {
		report, degraded := analyzer.AnalyzeProject(ctx, files, sb)
		resultCh <- scanResult{report: report, degraded: degraded}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	result := <-resultCh
	if uiErr != nil {
		return result, uiErr
	}
	return result, nil
}
