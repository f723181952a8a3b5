// Package process runs the interactive subshell attached to the terminal.
package process

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"

	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/pkg/logger"
	"github.com/doeshing/be-go/internal/ports"
)

// InteractiveRunner starts a process with the caller's stdio and waits for
// it. be stays alive while the child runs so it can clean up afterwards.
type InteractiveRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger ports.Logger
}

// NewInteractiveRunner attaches the runner to the process stdio.
func NewInteractiveRunner(log ports.Logger) *InteractiveRunner {
	if log == nil {
		log = logger.NewNop()
	}
	return &InteractiveRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: log,
	}
}

// Run implements ports.ProcessRunner. The exit status of the child is
// returned as the int; an error means the child never ran.
func (r *InteractiveRunner) Run(ctx context.Context, command domain.ShellCommand) (int, error) {
	cmd := &exec.Cmd{
		Path:   command.Path,
		Args:   command.Args,
		Env:    command.Env,
		Dir:    command.Dir,
		Stdin:  r.Stdin,
		Stdout: r.Stdout,
		Stderr: r.Stderr,
	}
	if len(cmd.Args) == 0 {
		cmd.Args = []string{command.Path}
	}

	signals := make(chan os.Signal, 4)
	signal.Notify(signals, watchedSignals...)
	defer signal.Stop(signals)

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	waitDone := make(chan error, 1)
	go func() {
		waitDone <- cmd.Wait()
	}()

	for {
		select {
		case err := <-waitDone:
			return exitStatus(err)
		case sig := <-signals:
			if forwarded(sig) {
				r.Logger.Debug("forwarding signal to subshell", map[string]interface{}{"signal": sig.String()})
				_ = cmd.Process.Signal(sig)
			}
		case <-ctx.Done():
			r.Logger.Debug("context cancelled, stopping subshell", map[string]interface{}{"error": ctx.Err().Error()})
			stop(cmd.Process)
			return exitStatus(<-waitDone)
		}
	}
}

// HoldSignals implements ports.SignalGuard. Signals that would otherwise kill
// be are caught until release is called and cancel the returned context.
func (r *InteractiveRunner) HoldSignals(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	signals := make(chan os.Signal, 4)
	signal.Notify(signals, watchedSignals...)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-signals:
				r.Logger.Debug("signal received before launch", map[string]interface{}{"signal": sig.String()})
				cancel(&domain.SignalError{Signal: sig.String()})
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			signal.Stop(signals)
			close(done)
			cancel(nil)
		})
	}
}

func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return statusOf(exitErr), nil
	}
	return 0, err
}

var (
	_ ports.ProcessRunner = (*InteractiveRunner)(nil)
	_ ports.SignalGuard   = (*InteractiveRunner)(nil)
)
