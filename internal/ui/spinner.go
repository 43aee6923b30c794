package ui

import (
	"fmt"
	"io"
	"time"
)

// spinnerFrames are the braille frames shared by every spinner
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const frameInterval = 80 * time.Millisecond

// animator calls draw with the next frame on every tick until halted.
type animator struct {
	stop chan struct{}
	done chan struct{}
}

func animate(draw func(frame string)) *animator {
	a := &animator{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(a.done)
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()

		for i := 1; ; i++ {
			select {
			case <-a.stop:
				return
			case <-ticker.C:
				draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
	return a
}

// halt stops the animation and waits until the last frame is drawn.
func (a *animator) halt() {
	close(a.stop)
	<-a.done
}

// Spinner is a one-line indicator for a single blocking request.
type Spinner struct {
	writer io.Writer
	anim   *animator
}

// StartSpinner shows message behind a spinner on w until Stop.
func StartSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		writer: w,
		anim: animate(func(frame string) {
			fmt.Fprintf(w, "\r\033[K%s %s", Secondary.Render(frame), message)
		}),
	}
}

// Stop clears the spinner line and prints the outcome. Stopping a nil or
// already stopped spinner does nothing.
func (s *Spinner) Stop(success bool, message string) {
	if s == nil || s.anim == nil {
		return
	}
	s.anim.halt()
	s.anim = nil

	fmt.Fprint(s.writer, "\r\033[K")
	if success {
		fmt.Fprintf(s.writer, "%s %s\n", GetCheckMark(), message)
		return
	}
	fmt.Fprintf(s.writer, "%s %s\n", GetCrossMark(), Error.Render(message))
}
