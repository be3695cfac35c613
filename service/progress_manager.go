package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ProgressManager implements the domain.ProgressReporter interface
// on top of a terminal progress bar. In non-interactive environments
// (pipes, CI) every call is a no-op.
type ProgressManager struct {
	mu          sync.Mutex
	writer      io.Writer
	progressBar *progressbar.ProgressBar
	interactive bool
	disabled    bool
}

// NewProgressManager creates a new progress manager writing to stderr.
func NewProgressManager(disabled bool) *ProgressManager {
	return &ProgressManager{
		writer:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stderr.Fd())),
		disabled:    disabled,
	}
}

// SetWriter sets the output writer for progress bars.
func (pm *ProgressManager) SetWriter(writer io.Writer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.writer = writer
	if file, ok := writer.(*os.File); ok {
		pm.interactive = term.IsTerminal(int(file.Fd()))
	} else {
		pm.interactive = false
	}
}

// Start begins a labeled progress phase with a known total.
func (pm *ProgressManager) Start(label string, total int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if !pm.shouldRender() {
		return
	}
	pm.progressBar = pm.createProgressBar(label, total)
}

// Step advances the current phase by one unit.
func (pm *ProgressManager) Step() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.progressBar != nil {
		_ = pm.progressBar.Add(1)
	}
}

// Complete finishes the current phase.
func (pm *ProgressManager) Complete() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.progressBar != nil {
		_ = pm.progressBar.Finish()
		pm.progressBar = nil
	}
}

// IsInteractive returns true if progress bars should be shown.
func (pm *ProgressManager) IsInteractive() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	return pm.shouldRender()
}

func (pm *ProgressManager) shouldRender() bool {
	return pm.interactive && !pm.disabled
}

func (pm *ProgressManager) createProgressBar(description string, max int) *progressbar.ProgressBar {
	writer := pm.writer
	if writer == nil {
		writer = io.Discard
	}

	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}
