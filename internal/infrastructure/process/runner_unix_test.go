//go:build !windows

package process

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/be-go/internal/domain"
)

func shell(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return path
}

func newTestRunner() (*InteractiveRunner, *bytes.Buffer) {
	var out bytes.Buffer
	r := NewInteractiveRunner(nil)
	r.Stdin = strings.NewReader("")
	r.Stdout = &out
	r.Stderr = &out
	return r, &out
}

func TestRunReturnsExitStatus(t *testing.T) {
	sh := shell(t)
	r, _ := newTestRunner()

	code, err := r.Run(context.Background(), domain.ShellCommand{Path: sh, Args: []string{sh, "-c", "exit 3"}})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestRunUsesDirAndEnv(t *testing.T) {
	sh := shell(t)
	r, out := newTestRunner()
	dir := t.TempDir()

	code, err := r.Run(context.Background(), domain.ShellCommand{
		Path: sh,
		Args: []string{sh, "-c", `printf '%s|%s' "$(pwd -P)" "$BE_PROJECT"`},
		Env:  []string{"BE_PROJECT=nike"},
		Dir:  dir,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved+"|nike", out.String())
}

func TestRunReportsSignalledChild(t *testing.T) {
	sh := shell(t)
	r, _ := newTestRunner()

	code, err := r.Run(context.Background(), domain.ShellCommand{Path: sh, Args: []string{sh, "-c", "kill -TERM $$"}})
	require.NoError(t, err)
	assert.Equal(t, 128+15, code)
}

func TestRunMissingExecutable(t *testing.T) {
	r, _ := newTestRunner()

	_, err := r.Run(context.Background(), domain.ShellCommand{Path: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestHoldSignalsSurvivesHangup(t *testing.T) {
	r, _ := newTestRunner()
	ctx, release := r.HoldSignals(context.Background())
	defer release()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGHUP))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("held context was not cancelled")
	}
	var sigErr *domain.SignalError
	require.ErrorAs(t, context.Cause(ctx), &sigErr)
	assert.Equal(t, syscall.SIGHUP.String(), sigErr.Signal)
	assert.ErrorIs(t, context.Cause(ctx), domain.ErrLaunch)
}

func TestHoldSignalsReleaseIsIdempotent(t *testing.T) {
	r, _ := newTestRunner()
	ctx, release := r.HoldSignals(context.Background())

	release()
	release()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Equal(t, context.Canceled, context.Cause(ctx))
}
