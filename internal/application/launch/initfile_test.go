package launch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/syntax"

	"github.com/doeshing/be-go/internal/domain"
)

func TestBuildScriptMinimal(t *testing.T) {
	script, err := BuildScript(domain.EnvironmentDescriptor{
		CurrentDirectory: "/work",
		ShellExecutable:  "/bin/sh",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "# generated by be, removed when the shell exits\ncd \"$BE_CWD\"\n", script)
}

func TestBuildScriptEnterWithoutDirectoryFallsBack(t *testing.T) {
	script, err := BuildScript(domain.EnvironmentDescriptor{
		CurrentDirectory:    "/work",
		ShellExecutable:     "/bin/bash",
		EnterDevelopmentDir: true,
	}, "")
	require.NoError(t, err)
	assert.Contains(t, script, `cd "$BE_CWD"`)
	assert.NotContains(t, script, "BE_DEVELOPMENTDIR")
}

func TestBuildScriptQuotesPaths(t *testing.T) {
	script, err := BuildScript(domain.EnvironmentDescriptor{
		ShellExecutable: "/bin/bash",
		Aliases:         map[string]string{"go": "cd 'my dir'"},
	}, "/home/o'brien/.bashrc")
	require.NoError(t, err)

	assert.Contains(t, script, "[ -f ")
	assert.Contains(t, script, "o'brien/.bashrc")
	assert.Contains(t, script, "alias go=")
	assert.NotContains(t, script, "alias go=cd 'my dir'")

	file, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(strings.NewReader(script), "init")
	require.NoError(t, err)

	var words []string
	syntax.Walk(file, func(node syntax.Node) bool {
		if call, ok := node.(*syntax.CallExpr); ok && len(call.Args) == 2 && call.Args[0].Lit() == "alias" {
			for _, part := range call.Args[1].Parts {
				switch p := part.(type) {
				case *syntax.Lit:
					words = append(words, p.Value)
				case *syntax.SglQuoted:
					words = append(words, p.Value)
				case *syntax.DblQuoted:
					for _, inner := range p.Parts {
						if lit, ok := inner.(*syntax.Lit); ok {
							words = append(words, lit.Value)
						}
					}
				}
			}
		}
		return true
	})
	assert.Equal(t, "go=cd 'my dir'", strings.Join(words, ""))
}

func TestDefaultRCFile(t *testing.T) {
	t.Setenv("HOME", "/home/test")
	assert.Equal(t, "/home/test/.bashrc", DefaultRCFile("/usr/bin/bash"))
	assert.Equal(t, "/home/test/.shrc", DefaultRCFile("/bin/dash"))
}

func TestBuildScriptInlineLinesFollowCd(t *testing.T) {
	script, err := BuildScript(domain.EnvironmentDescriptor{
		CurrentDirectory: "/work",
		ShellExecutable:  "/bin/bash",
		InitCommands:     []string{"echo hello", "export X=1"},
		CompletionScript: "/home/test/.be/shell/be.bash",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "# generated by be, removed when the shell exits\n"+
		"cd \"$BE_CWD\"\n"+
		"echo hello\n"+
		"export X=1\n"+
		". \"$BE_TABCOMPLETION\"\n", script)
}

func TestBuildScriptRejectsBrokenInlineLine(t *testing.T) {
	_, err := BuildScript(domain.EnvironmentDescriptor{
		CurrentDirectory: "/work",
		ShellExecutable:  "/bin/sh",
		InitCommands:     []string{"echo ok", "if then"},
	}, "")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "script line 2")
}
