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

	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// ResolveProgress reports resolution progress on stderr
type ResolveProgress struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	spinner     *spinner.Spinner
	startTime   time.Time
}

// NewProgressSink picks the progress sink for the current output mode.
// JSON output keeps stderr quiet so it can be piped alongside stdout, and a
// headless server resolves many requests at once with no terminal to draw on.
func NewProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.JSON || cfg.Headless {
		return NewNopSink()
	}
	return NewResolveProgress(os.Stderr, !cfg.NonInteractive)
}

// NewResolveProgress creates a new resolution progress reporter
func NewResolveProgress(out io.Writer, interactive bool) *ResolveProgress {
	return &ResolveProgress{
		out:         out,
		interactive: interactive,
		startTime:   time.Now(),
	}
}

// OnProgress handles progress events
func (p *ResolveProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.interactive {
		// In non-interactive mode, only report batch progress at the end
		if event.Total > 0 && event.Current == event.Total {
			fmt.Fprintln(p.out, event.Message)
		}
		return
	}

	// Handle spinner states
	if event.Spinner {
		if p.spinner == nil {
			p.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			p.spinner.Writer = p.out
			_ = p.spinner.Color("cyan", "bold")
		}

		// Update spinner message
		p.spinner.Suffix = " " + event.Message

		if !p.spinner.Active() {
			p.spinner.Start()
		}
	} else if p.spinner != nil && p.spinner.Active() {
		p.spinner.Stop()
	}

	if event.Stage == "resolving" && event.Total > 0 && event.Current == event.Total {
		p.stopLocked()
		duration := time.Since(p.startTime)
		color.New(color.FgGreen).Fprintf(p.out, "✅ Resolved %d proposals in %s\n", event.Total, duration.Round(time.Millisecond))
	}
}

// Info prints an info message
func (p *ResolveProgress) Info(message string) {
	p.withSpinnerPaused(func() {
		color.New(color.FgCyan).Fprintln(p.out, "ℹ️  "+message)
	})
}

// Error prints an error message. Errors end the current operation, so the
// spinner stays stopped.
func (p *ResolveProgress) Error(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	color.New(color.FgRed).Fprintln(p.out, "❌ "+message)
}

// Stop halts the spinner, if any
func (p *ResolveProgress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *ResolveProgress) stopLocked() {
	if p.spinner != nil && p.spinner.Active() {
		p.spinner.Stop()
	}
}

func (p *ResolveProgress) withSpinnerPaused(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Stop spinner temporarily
	wasActive := p.spinner != nil && p.spinner.Active()
	if wasActive {
		p.spinner.Stop()
	}

	fn()

	// Restart spinner if it was active
	if wasActive {
		p.spinner.Start()
	}
}

// Ensure it implements the interface
var _ usecase.ProgressSink = (*ResolveProgress)(nil)
