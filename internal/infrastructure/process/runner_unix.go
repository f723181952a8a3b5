//go:build !windows

package process

import (
	"os"
	"os/exec"
	"syscall"
)

// The terminal delivers SIGINT and SIGQUIT to the whole foreground process
// group, so the child already has them; be only has to survive them.
var watchedSignals = []os.Signal{syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP}

func forwarded(sig os.Signal) bool {
	return sig == syscall.SIGTERM || sig == syscall.SIGHUP
}

func stop(p *os.Process) {
	_ = p.Signal(syscall.SIGHUP)
}

// statusOf reports 128+N for a child killed by signal N, like a shell does.
func statusOf(err *exec.ExitError) int {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return err.ExitCode()
}
