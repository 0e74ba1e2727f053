package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI's logger. Every line carries a wall-clock
// timestamp with hundredths of a second ("15:04:05.00"), which is enough to
// see how long discovery took on a large tree without a separate timer.
// Lines below level are discarded.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures one operation and logs its completion together with
// the elapsed time. A progress is used by a single goroutine: watch mode
// creates a fresh one for each regeneration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts timing an operation now. Call done on the result once
// the operation has finished; a progress that is never finished logs
// nothing.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond,
// e.g. "Wrote graph.dot (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the unexported type of this package's context keys, so
// values stored here cannot be read or overwritten by other packages.
type ctxKey int

// loggerKey stores the *log.Logger that RunE attaches to the command
// context.
const loggerKey ctxKey = 0

// withLogger returns a copy of ctx carrying l. Helpers further down the call
// chain (generate, watch) fetch it with loggerFromContext instead of taking
// the logger as a parameter.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger stored by withLogger. It falls back
// to log.Default() so helpers called from tests with a bare context still
// log somewhere.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
