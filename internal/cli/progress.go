package cli

import (
	"fmt"
	"io"
	"os"
	"time"
)

// saveStep reports a persisting operation on stderr: "Saving theme... saved (12ms)".
// A nil step is silent, so callers never check whether progress is enabled.
type saveStep struct {
	out     io.Writer
	started time.Time
}

func beginSave(out io.Writer, format string, args ...any) *saveStep {
	if !progressEnabled() {
		return nil
	}
	fmt.Fprintf(out, format+"... ", args...)
	return &saveStep{out: out, started: time.Now()}
}

// Done finishes the line with outcome, e.g. "saved" or "3 entries removed".
func (s *saveStep) Done(outcome string) {
	if s == nil {
		return
	}
	fmt.Fprintf(s.out, "%s (%s)\n", outcome, roundElapsed(time.Since(s.started)))
}

func (s *saveStep) Fail(err error) {
	if s == nil {
		return
	}
	fmt.Fprintf(s.out, "failed: %v\n", err)
}

func progressEnabled() bool {
	if IsJSONOutput() || noProgress {
		return false
	}
	_, off := os.LookupEnv("ALLIUM_NO_PROGRESS")
	return !off
}

func roundElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
