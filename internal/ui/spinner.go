package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows progress on stderr while a network call runs, keeping
// stdout clean for --json. Off a terminal it prints the message once and
// does not animate.
type Spinner struct {
	out     io.Writer
	animate bool

	mu    sync.Mutex
	msg   string
	start time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewSpinner creates a spinner on stderr.
func NewSpinner(msg string) *Spinner {
	return newSpinner(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), msg)
}

func newSpinner(out io.Writer, animate bool, msg string) *Spinner {
	return &Spinner{
		out:     out,
		animate: animate,
		msg:     msg,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

func (s *Spinner) line() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d := time.Since(s.start); d >= 2*time.Second {
		return fmt.Sprintf("%s %s", s.msg, StyleMeta.Render(fmt.Sprintf("(%ds)", int(d.Seconds()))))
	}
	return s.msg
}

// Start begins the animation. Only the first call has any effect.
func (s *Spinner) Start() {
	s.startOnce.Do(s.run)
}

func (s *Spinner) run() {
	s.mu.Lock()
	s.start = time.Now()
	s.mu.Unlock()
	if !s.animate {
		fmt.Fprintln(s.out, StyleMeta.Render(s.msg))
		close(s.done)
		return
	}
	go func() {
		defer close(s.done)
		t := time.NewTicker(80 * time.Millisecond)
		defer t.Stop()
		width := 0
		for i := 0; ; i++ {
			l := fmt.Sprintf("%s  %s", StyleChain.Render(spinnerFrames[i%len(spinnerFrames)]), s.line())
			width = max(width, len(l))
			fmt.Fprintf(s.out, "\r%s", l)
			select {
			case <-s.stop:
				fmt.Fprintf(s.out, "\r%*s\r", width, "")
				return
			case <-t.C:
			}
		}
	}()
}

// Stop clears the spinner line. It is safe to call more than once, and
// on a spinner that was never started.
func (s *Spinner) Stop() {
	s.startOnce.Do(func() { close(s.done) })
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}
