package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/be-go/internal/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newProjects(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "nike", "inventory.yaml"), `
shot:
  - shot1
  - shot2
  - 1000
asset:
  - hero:
      note: main character
`)
	writeFile(t, filepath.Join(root, "nike", "templates.yaml"), `
base: "{root}/{0}"
shot: "{@base}/shots/{1}/{2}"
asset: "{@base}/assets/{1}/{2}/{user}"
`)
	writeFile(t, filepath.Join(root, "nike", "be.yaml"), `
script: scripts/init.sh
environment:
  SHOT_ROOT: "{root}/{0}/shots"
  PATHS: [/opt/a, /opt/b]
alias:
  ll: ls -la
redirect:
  "{2}": TASK
`)
	writeFile(t, filepath.Join(root, "adidas", "templates.yaml"), "shot: \"{root}/{0}/{1}\"\n")
	writeFile(t, filepath.Join(root, "adidas", "inventory.yaml"), "shot: [s1]\n")

	require.NoError(t, os.MkdirAll(filepath.Join(root, "_archive"), 0o755))
	writeFile(t, filepath.Join(root, "_archive", "templates.yaml"), "x: y\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notaproject"), 0o755))

	for _, dir := range []string{"animation", "lighting", ".git"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "nike", "shots", "shot1", dir), 0o755))
	}
	writeFile(t, filepath.Join(root, "nike", "shots", "shot1", "notes.txt"), "")
	return root
}

func TestLookupResolvesItem(t *testing.T) {
	root := newProjects(t)
	reg := NewYAMLRegistry(root, "marcus", nil)

	item, err := reg.Lookup(context.Background(), "nike/shot1/animation")
	require.NoError(t, err)

	assert.Equal(t, "nike/shot1/animation", item.Path)
	assert.Equal(t, "shot1", item.Name)
	assert.Equal(t, "nike", item.Project)
	assert.Equal(t, filepath.Join(root, "nike"), item.ProjectDirectory)
	assert.Equal(t, []string{"nike", "shot1", "animation"}, item.Topics)
	assert.Equal(t, "shot", item.Binding)
	assert.Equal(t, "{root}/{0}/shots/{1}/{2}", item.Template)
	assert.Equal(t, filepath.Join(root, "nike", "scripts", "init.sh"), item.InitScript)
	assert.Empty(t, item.InitCommands)
	assert.Equal(t, domain.EnvValue{"/opt/a", "/opt/b"}, item.Environment["PATHS"])
	assert.Equal(t, map[string]string{"ll": "ls -la"}, item.Aliases)
	assert.Equal(t, map[string]string{"{2}": "TASK"}, item.Redirect)
}

func TestLookupAcceptsNumbersAndMappings(t *testing.T) {
	reg := NewYAMLRegistry(newProjects(t), "marcus", nil)

	item, err := reg.Lookup(context.Background(), "nike/1000/comp")
	require.NoError(t, err)
	assert.Equal(t, "shot", item.Binding)

	item, err = reg.Lookup(context.Background(), "nike/hero/model")
	require.NoError(t, err)
	assert.Equal(t, "asset", item.Binding)
	assert.Equal(t, "{root}/{0}/assets/{1}/{2}/{user}", item.Template)
}

func TestLookupUnknown(t *testing.T) {
	reg := NewYAMLRegistry(newProjects(t), "marcus", nil)

	_, err := reg.Lookup(context.Background(), "puma/shot1")
	var unknown *domain.UnknownItemError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "puma", unknown.Item)
	assert.Equal(t, []string{"adidas", "nike"}, unknown.Available)

	_, err = reg.Lookup(context.Background(), "nike/shot9/animation")
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "shot9", unknown.Item)
	assert.Equal(t, []string{"1000", "hero", "shot1", "shot2"}, unknown.Available)

	_, err = reg.Lookup(context.Background(), "nike")
	assert.ErrorIs(t, err, domain.ErrInsufficientTopics)
}

func TestLookupMissingTemplate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "inventory.yaml"), "ghost: [a]\n")
	writeFile(t, filepath.Join(root, "p", "templates.yaml"), "shot: \"{0}\"\n")

	_, err := NewYAMLRegistry(root, "", nil).Lookup(context.Background(), "p/a")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLookupBrokenReference(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "inventory.yaml"), "shot: [a]\n")
	writeFile(t, filepath.Join(root, "p", "templates.yaml"), "shot: \"{@nothing}/{1}\"\n")

	_, err := NewYAMLRegistry(root, "", nil).Lookup(context.Background(), "p/a")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestChildren(t *testing.T) {
	reg := NewYAMLRegistry(newProjects(t), "marcus", nil)
	ctx := context.Background()

	cases := map[string][]string{
		"":                {"adidas", "nike"},
		"nike":            {"1000", "hero", "shot1", "shot2"},
		"nike/shot1":      {"animation", "lighting"},
		"nike/shot2":      {},
		"puma":            {},
		"nike/ghost":      {},
		"nike/shot1/anim": {},
	}
	for path, want := range cases {
		got, err := reg.Children(ctx, path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}

func TestChildrenPartialComponent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "inventory.yaml"), "seq: [sq01]\n")
	writeFile(t, filepath.Join(root, "p", "templates.yaml"), "seq: \"{root}/{0}/{1}_{2}\"\n")
	for _, dir := range []string{"sq01_0010", "sq01_0020", "sq02_0010"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "p", dir), 0o755))
	}

	got, err := NewYAMLRegistry(root, "", nil).Children(context.Background(), "p/sq01")
	require.NoError(t, err)
	assert.Equal(t, []string{"0010", "0020"}, got)
}

func TestBindingsAndRedirects(t *testing.T) {
	reg := NewYAMLRegistry(newProjects(t), "marcus", nil)

	bindings, err := reg.Bindings(context.Background(), "nike")
	require.NoError(t, err)
	assert.Equal(t, "asset", bindings["hero"])

	redirects, err := reg.Redirects(context.Background(), "adidas")
	require.NoError(t, err)
	assert.Empty(t, redirects)
}

func TestCustomTemplateKey(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "inventory.yaml"), "shot: [s1]\n")
	writeFile(t, filepath.Join(root, "p", "templates.yaml"), "shot: \"{root}/{0}/{1}/{2}\"\n")
	writeFile(t, filepath.Join(root, "p", "be.yaml"), "templates:\n  key: \"{2}\"\n")

	item, err := NewYAMLRegistry(root, "", nil).Lookup(context.Background(), "p/seq1/s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", item.Name)

	_, err = NewYAMLRegistry(root, "", nil).Lookup(context.Background(), "p/seq1")
	assert.ErrorIs(t, err, domain.ErrInsufficientTopics)
}

func TestLookupInlineScript(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "inventory.yaml"), "shot: [s1]\n")
	writeFile(t, filepath.Join(root, "p", "templates.yaml"), "shot: \"{root}/{0}/{1}\"\n")
	writeFile(t, filepath.Join(root, "p", "be.yaml"), "script: [echo hello, export X=1]\n")
	reg := NewYAMLRegistry(root, "", nil)

	item, err := reg.Lookup(context.Background(), "p/s1")
	require.NoError(t, err)
	assert.Empty(t, item.InitScript)
	assert.Equal(t, []string{"echo hello", "export X=1"}, item.InitCommands)

	children, err := reg.Children(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, children)
}

func TestLookupRejectsScriptMapping(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "inventory.yaml"), "shot: [s1]\n")
	writeFile(t, filepath.Join(root, "p", "templates.yaml"), "shot: \"{root}/{0}/{1}\"\n")
	writeFile(t, filepath.Join(root, "p", "be.yaml"), "script:\n  run: init.sh\n")

	_, err := NewYAMLRegistry(root, "", nil).Lookup(context.Background(), "p/s1")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
