package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a one-line status on w until it is stopped or its
// context ends.
type spinner struct {
	w       io.Writer
	message string
	ctx     context.Context
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// startSpinner draws message on w behind an animated frame.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	s := &spinner{
		w:       w,
		message: message,
		ctx:     ctx,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
		}
	}
}

// Stop halts the animation and clears the line. Later calls do nothing.
func (s *spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		<-s.stopped
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", lipgloss.Width(s.message)+2))
	})
}

// Cancelled reports whether the spinner's context ended, as opposed to a
// plain Stop.
func (s *spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// spin runs fn while a spinner shows message on the status writer.
func (c *CLI) spin(ctx context.Context, message string, fn func() error) error {
	s := startSpinner(ctx, c.status, message)
	err := fn()
	s.Stop()
	return err
}
