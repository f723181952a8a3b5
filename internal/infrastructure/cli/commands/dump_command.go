package commands

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/doeshing/be-go/internal/app"
	"github.com/doeshing/be-go/internal/domain"
)

// NewDumpCommand creates the dump command
func NewDumpCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the environment of the current subshell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv(domain.EnvActive) == "" {
				return domain.ErrNotActive
			}
			redirect, err := container.Registry.Redirects(cmd.Context(), os.Getenv(domain.EnvProject))
			if err != nil {
				return err
			}
			dumpEnvironment(cmd.OutOrStdout(), os.Environ(), redirect)
			return nil
		},
	}
}

// dumpEnvironment prints the custom variables, redirected variables and
// every BE_ variable, each section sorted by name.
func dumpEnvironment(out io.Writer, environ []string, redirect map[string]string) {
	env := lo.SliceToMap(environ, func(entry string) (string, string) {
		key, value, _ := strings.Cut(entry, "=")
		return key, value
	})

	separator := ""
	section := func(title string, keys []string) {
		if len(keys) == 0 {
			return
		}
		fmt.Fprintf(out, "%s%s:\n", separator, title)
		for _, key := range keys {
			fmt.Fprintf(out, "- %s=%s\n", key, env[key])
		}
		separator = "\n"
	}

	custom := strings.Fields(env[domain.EnvEnvironment])
	slices.Sort(custom)
	section("Custom", custom)

	sources := lo.Keys(redirect)
	slices.Sort(sources)
	section("Redirect", lo.Map(sources, func(source string, _ int) string { return redirect[source] }))

	prefixed := lo.Filter(lo.Keys(env), func(key string, _ int) bool { return strings.HasPrefix(key, domain.EnvPrefix) })
	slices.Sort(prefixed)
	section("Prefixed", prefixed)
}
