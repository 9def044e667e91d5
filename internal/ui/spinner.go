package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ErrSkip finishes a spinner as skipped when returned from a Run callback.
// Run itself then returns nil.
var ErrSkip = errors.New("skipped")

type spinnerState int

const (
	spinnerIdle spinnerState = iota
	spinnerRunning
	spinnerDone
	spinnerFailed
	spinnerSkipped
)

const spinnerTick = 80 * time.Millisecond

// Spinner animates a single status line while a blocking load runs.
type Spinner struct {
	w io.Writer

	mu      sync.Mutex
	label   string
	state   spinnerState
	frame   int
	started time.Time
	drawn   int // visible width of the line on screen

	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner on stderr, keeping stdout clean for output.
func NewSpinner(label string) *Spinner {
	return NewSpinnerTo(os.Stderr, label)
}

// NewSpinnerTo creates a spinner drawing onto w.
func NewSpinnerTo(w io.Writer, label string) *Spinner {
	return &Spinner{w: w, label: label}
}

// Run animates the spinner while fn runs. fn may relabel the spinner
// between phases through the function it receives. The final line shows
// success, failure or, when fn returns ErrSkip, a skipped marker.
func (s *Spinner) Run(fn func(setLabel func(string)) error) error {
	s.start()
	err := fn(s.SetLabel)
	switch {
	case errors.Is(err, ErrSkip):
		s.finish(spinnerSkipped)
		return nil
	case err != nil:
		s.finish(spinnerFailed)
		return err
	}
	s.finish(spinnerDone)
	return nil
}

// SetLabel replaces the label shown next to the animation.
func (s *Spinner) SetLabel(label string) {
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

func (s *Spinner) start() {
	s.mu.Lock()
	if s.state == spinnerRunning {
		s.mu.Unlock()
		return
	}
	s.state = spinnerRunning
	s.started = time.Now()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.drawFrameLocked()
	s.mu.Unlock()

	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.done)
	tick := time.NewTicker(spinnerTick)
	defer tick.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-tick.C:
			s.mu.Lock()
			s.frame++
			s.drawFrameLocked()
			s.mu.Unlock()
		}
	}
}

func (s *Spinner) finish(state spinnerState) {
	s.mu.Lock()
	if s.state != spinnerRunning {
		s.mu.Unlock()
		return
	}
	close(s.stop)
	s.mu.Unlock()
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state

	symbol, color := SymbolComplete, ColorSuccess
	switch state {
	case spinnerFailed:
		symbol, color = SymbolFail, ColorError
	case spinnerSkipped:
		symbol, color = SymbolSkipped, ColorWarning
	}
	took := lipgloss.NewStyle().Foreground(ColorMuted).Render(formatDuration(time.Since(s.started)))
	s.clearLocked()
	fmt.Fprintf(s.w, "%s %s %s\n", lipgloss.NewStyle().Foreground(color).Render(symbol), s.label, took)
}

// drawFrameLocked redraws the in-progress line. The glyph colour walks the
// gradient at half the frame rate.
func (s *Spinner) drawFrameLocked() {
	frames := SpinnerFrames.Frames
	glyph := lipgloss.NewStyle().
		Foreground(GradientColors[(s.frame/2)%len(GradientColors)]).
		Render(frames[s.frame%len(frames)])
	line := glyph + " " + s.label + "..."

	s.clearLocked()
	fmt.Fprint(s.w, line)
	s.drawn = lipgloss.Width(line)
}

func (s *Spinner) clearLocked() {
	if s.drawn == 0 {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.drawn)+"\r")
	s.drawn = 0
}

// formatDuration renders short waits with two decimals, e.g. "0.05s", and
// longer ones with one, e.g. "1.5s".
func formatDuration(d time.Duration) string {
	prec := 1
	if d < 100*time.Millisecond {
		prec = 2
	}
	return fmt.Sprintf("%.*fs", prec, d.Seconds())
}
