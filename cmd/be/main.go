package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/infrastructure/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Signals are forwarded to the subshell by the process runner, so the
	// context is never cancelled on Ctrl-C.
	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose(os.Args[1:])}

	root, container, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return domain.ExitCode(err)
	}
	defer container.Close()

	if err := root.ExecuteContext(ctx); err != nil {
		cli.RenderError(os.Stderr, err)
		return domain.ExitCode(err)
	}
	return domain.ExitNormal
}

// isVerbose is decided before flag parsing because the logger is built
// together with the container.
func isVerbose(args []string) bool {
	debug := os.Getenv(domain.EnvDebug)
	if strings.EqualFold(debug, "1") || strings.EqualFold(debug, "true") {
		return true
	}
	// `be tab` passes the user's command line through untouched.
	if len(args) > 0 && args[0] == "tab" {
		return false
	}
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}
