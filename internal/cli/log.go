package cli

import (
	"time"

	"github.com/charmbracelet/log"
)

// progress logs the elapsed time of one operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time, rounded to the millisecond.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

func (p *progress) fail(err error) {
	p.logger.Error("layout failed", "err", err, "elapsed", time.Since(p.start).Round(time.Millisecond))
}
