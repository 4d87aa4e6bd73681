package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a leveled logger stamping each line with wall-clock time
// to the hundredth of a second.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// step times one load or render and reports it as a structured log line.
type step struct {
	logger *log.Logger
	began  time.Time
}

func startStep(l *log.Logger) step {
	return step{logger: l, began: time.Now()}
}

// finish logs msg at info level with keyvals and a trailing took=<elapsed>,
// e.g. `rendered tree=animals nodes=12 took=4ms`.
func (s step) finish(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(s.began).Round(time.Millisecond))
	s.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

func contextWithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFrom returns the command logger stored in ctx. Commands run outside
// the root command (tests, completions) get log.Default().
func loggerFrom(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
