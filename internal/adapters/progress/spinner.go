package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/hwchain/hwchain-cli/internal/domain/config"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

// SpinnerProgressReporter renders progress events as a spinner on stderr.
// Finished stages are printed as a line with their duration.
type SpinnerProgressReporter struct {
	mu             sync.Mutex
	spinner        *spinner.Spinner
	out            io.Writer
	running        bool
	currentStage   string
	currentMessage string
	stageStartTime time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
	}
}

// NewProgressSink returns a spinner when stderr is a terminal and the output
// is meant for people, a no-op sink otherwise
func NewProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.JSON || cfg.NonInteractive || !term.IsTerminal(int(os.Stderr.Fd())) {
		return NewNopSink()
	}
	return NewSpinnerProgressReporter(os.Stderr)
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage != r.currentStage {
		r.completeCurrentStage()
		r.currentStage = event.Stage
		r.stageStartTime = time.Now()
	}
	r.currentMessage = event.Message

	if !event.Spinner {
		r.completeCurrentStage()
		return
	}

	r.spinner.Suffix = " " + stageLabel(event)
	r.running = true
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.printAround(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.printAround(color.New(color.FgRed), message)
}

// Stop clears the spinner line
func (r *SpinnerProgressReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

func (r *SpinnerProgressReporter) printAround(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Stop spinner temporarily
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// completeCurrentStage prints the running stage as done
func (r *SpinnerProgressReporter) completeCurrentStage() {
	if !r.running {
		return
	}
	r.running = false
	if r.spinner.Active() {
		r.spinner.Stop()
	}

	duration := time.Since(r.stageStartTime).Round(time.Millisecond)
	fmt.Fprintf(r.out, "%s %s %s\n",
		color.GreenString("✓"),
		r.currentMessage,
		color.New(color.Faint).Sprintf("(%s)", duration))
}

func stageLabel(event usecase.ProgressEvent) string {
	label := event.Message
	if event.Stage != "" {
		label = color.New(color.FgYellow).Sprint(event.Stage) + " " + label
	}
	if event.Total > 0 {
		label = fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, label)
	}
	return label
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
