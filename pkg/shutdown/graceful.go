package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func WithSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// Step is one named teardown action.
type Step struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Run executes steps in order under a shared deadline. Every step runs even
// if an earlier one failed; the joined error is returned.
func Run(log *slog.Logger, timeout time.Duration, steps ...Step) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs error
	for _, s := range steps {
		if err := s.Fn(ctx); err != nil {
			log.Error("shutdown step failed", "step", s.Name, "err", err)
			errs = errors.Join(errs, err)
			continue
		}
		log.Info("shutdown step done", "step", s.Name)
	}
	return errs
}
