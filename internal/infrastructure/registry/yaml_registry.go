// Package registry reads projects laid out as directories of YAML files:
//
//	<root>/<project>/inventory.yaml   binding: [item, item, ...]
//	<root>/<project>/templates.yaml   binding: pattern
//	<root>/<project>/be.yaml          optional settings
package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/pkg/logger"
	"github.com/doeshing/be-go/internal/ports"
)

const (
	inventoryFile = "inventory.yaml"
	templatesFile = "templates.yaml"
	settingsFile  = "be.yaml"
)

var referencePattern = regexp.MustCompile(`\{@(\w+)\}`)

type settings struct {
	Templates struct {
		Key string `yaml:"key"`
	} `yaml:"templates"`
	Script      scriptSetting              `yaml:"script"`
	Environment map[string]domain.EnvValue `yaml:"environment"`
	Alias       map[string]string          `yaml:"alias"`
	Redirect    map[string]string          `yaml:"redirect"`
}

// scriptSetting is the be.yaml script entry: a path sourced by the subshell
// or a list of lines written inline into its startup file.
type scriptSetting struct {
	Path  string
	Lines []string
}

func (s *scriptSetting) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var path string
	if err := unmarshal(&path); err == nil {
		*s = scriptSetting{Path: path}
		return nil
	}
	var lines []string
	if err := unmarshal(&lines); err != nil {
		return fmt.Errorf("script must be a path or a list of commands: %w", err)
	}
	*s = scriptSetting{Lines: lines}
	return nil
}

type project struct {
	name      string
	dir       string
	settings  settings
	keyIndex  int
	templates map[string]string
	// bindings maps inventory items to template names.
	bindings map[string]string
}

// YAMLRegistry implements ports.Registry for a projects root.
type YAMLRegistry struct {
	root   string
	user   string
	logger ports.Logger

	mu       sync.Mutex
	projects map[string]*project
}

// NewYAMLRegistry builds a registry rooted at root. user fills {user}
// placeholders while listing template directories.
func NewYAMLRegistry(root, user string, log ports.Logger) *YAMLRegistry {
	if log == nil {
		log = logger.NewNop()
	}
	return &YAMLRegistry{
		root:     root,
		user:     user,
		logger:   log,
		projects: map[string]*project{},
	}
}

// Root returns the projects root.
func (r *YAMLRegistry) Root() string {
	return r.root
}

// Lookup implements ports.Registry.
func (r *YAMLRegistry) Lookup(_ context.Context, path string) (domain.Item, error) {
	segments := domain.SplitItemPath(path)
	if len(segments) == 0 {
		return domain.Item{}, &domain.UnknownItemError{Item: path, Available: r.projectNames()}
	}

	p, err := r.project(segments[0])
	if err != nil {
		return domain.Item{}, err
	}

	if len(segments) <= p.keyIndex {
		return domain.Item{}, fmt.Errorf("%w: at least %d topics are required", domain.ErrInsufficientTopics, p.keyIndex+1)
	}
	name := segments[p.keyIndex]
	binding, ok := p.bindings[name]
	if !ok {
		return domain.Item{}, &domain.UnknownItemError{Item: name, Available: sortedKeys(p.bindings)}
	}
	template, ok := p.templates[binding]
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: no template named %q in project %s", domain.ErrConfiguration, binding, p.name)
	}

	item := domain.Item{
		Path:             domain.JoinItemPath(segments),
		Name:             name,
		Root:             r.root,
		Project:          p.name,
		ProjectDirectory: p.dir,
		Topics:           segments,
		Binding:          binding,
		Template:         template,
		Environment:      p.settings.Environment,
		Aliases:          p.settings.Alias,
		Redirect:         p.settings.Redirect,
		InitCommands:     slices.Clone(p.settings.Script.Lines),
	}
	if script := p.settings.Script.Path; script != "" {
		script = filepath.FromSlash(script)
		if !filepath.IsAbs(script) {
			script = filepath.Join(p.dir, script)
		}
		item.InitScript = script
	}
	return item, nil
}

// Children implements ports.Registry. Depth 0 lists projects, depth 1 the
// inventory and deeper levels the directories matching the item's template.
func (r *YAMLRegistry) Children(_ context.Context, path string) ([]string, error) {
	segments := domain.SplitItemPath(path)
	if len(segments) == 0 {
		return r.projectNames(), nil
	}

	p, err := r.project(segments[0])
	if err != nil {
		if errors.Is(err, domain.ErrUnknownItem) {
			return []string{}, nil
		}
		return nil, err
	}
	if len(segments) == 1 {
		return sortedKeys(p.bindings), nil
	}
	return r.templateChildren(p, segments), nil
}

// Bindings returns inventory items and the template each one uses.
func (r *YAMLRegistry) Bindings(_ context.Context, name string) (map[string]string, error) {
	p, err := r.project(name)
	if err != nil {
		return nil, err
	}
	return maps.Clone(p.bindings), nil
}

// Redirects returns the redirect table of a project's be.yaml.
func (r *YAMLRegistry) Redirects(_ context.Context, name string) (map[string]string, error) {
	p, err := r.project(name)
	if err != nil {
		return nil, err
	}
	return p.settings.Redirect, nil
}

func (r *YAMLRegistry) templateChildren(p *project, segments []string) []string {
	depth := len(segments)
	if p.keyIndex >= depth {
		return []string{}
	}
	binding, ok := p.bindings[segments[p.keyIndex]]
	if !ok {
		return []string{}
	}
	prefix, ok := domain.TemplatePrefix(p.templates[binding], depth)
	if !ok {
		return []string{}
	}

	fields := map[string]string{
		"root":    r.root,
		"cwd":     r.root,
		"project": p.name,
		"item":    segments[p.keyIndex],
		"user":    r.user,
	}
	formatted, err := domain.FormatTemplate(prefix, segments, fields)
	if err != nil {
		r.logger.Debug("template not listable", map[string]interface{}{
			"project": p.name,
			"prefix":  prefix,
			"error":   err.Error(),
		})
		return []string{}
	}

	dir, partial := formatted, ""
	if !strings.HasSuffix(formatted, "/") {
		dir, partial = filepath.Split(filepath.FromSlash(formatted))
	}
	dir = filepath.FromSlash(dir)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.root, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}
	names := lo.FilterMap(entries, func(entry fs.DirEntry, _ int) (string, bool) {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasPrefix(name, partial) {
			return "", false
		}
		name = strings.TrimPrefix(name, partial)
		return name, name != ""
	})
	slices.Sort(names)
	return names
}

func (r *YAMLRegistry) projectNames() []string {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return []string{}
	}
	names := lo.FilterMap(entries, func(entry fs.DirEntry, _ int) (string, bool) {
		return entry.Name(), isProject(filepath.Join(r.root, entry.Name()))
	})
	slices.Sort(names)
	return names
}

func (r *YAMLRegistry) project(name string) (*project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.projects[name]; ok {
		return p, nil
	}

	dir := filepath.Join(r.root, name)
	if !isProject(dir) {
		return nil, &domain.UnknownItemError{Item: name, Available: r.projectNames()}
	}

	p := &project{name: name, dir: dir}
	if err := loadYAML(filepath.Join(dir, settingsFile), &p.settings, true); err != nil {
		return nil, err
	}

	key := p.settings.Templates.Key
	if key == "" {
		key = domain.DefaultTemplateKey
	}
	idx, err := domain.TopicIndex(key)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", name, settingsFile, err)
	}
	p.keyIndex = idx

	var templates map[string]string
	if err := loadYAML(filepath.Join(dir, templatesFile), &templates, false); err != nil {
		return nil, err
	}
	if p.templates, err = resolveReferences(templates); err != nil {
		return nil, fmt.Errorf("%s/%s: %w", name, templatesFile, err)
	}

	var inventory map[string][]interface{}
	if err := loadYAML(filepath.Join(dir, inventoryFile), &inventory, false); err != nil {
		return nil, err
	}
	p.bindings = r.invert(name, inventory)

	r.projects[name] = p
	return p, nil
}

// invert maps every inventory item to its binding. The first binding listed
// for an item wins.
func (r *YAMLRegistry) invert(projectName string, inventory map[string][]interface{}) map[string]string {
	out := map[string]string{}
	for _, binding := range sortedKeys(inventory) {
		for _, entry := range inventory[binding] {
			name := itemName(entry)
			if name == "" {
				continue
			}
			if existing, ok := out[name]; ok {
				r.logger.Warn("duplicate inventory item", map[string]interface{}{
					"project": projectName,
					"item":    name,
					"binding": existing,
				})
				continue
			}
			out[name] = binding
		}
	}
	return out
}

func itemName(entry interface{}) string {
	switch v := entry.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]interface{}:
		for k := range v {
			return k
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// resolveReferences expands {@name} with the pattern of template name.
func resolveReferences(templates map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(templates))
	for name := range templates {
		resolved, err := expandReference(templates, name, nil)
		if err != nil {
			return nil, err
		}
		out[name] = resolved
	}
	return out, nil
}

func expandReference(templates map[string]string, name string, seen []string) (string, error) {
	if slices.Contains(seen, name) {
		return "", fmt.Errorf("%w: circular template reference %s", domain.ErrConfiguration, strings.Join(append(seen, name), " -> "))
	}
	pattern, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("%w: unresolvable reference %q", domain.ErrConfiguration, name)
	}

	var failure error
	out := referencePattern.ReplaceAllStringFunc(pattern, func(match string) string {
		ref := referencePattern.FindStringSubmatch(match)[1]
		value, err := expandReference(templates, ref, append(seen, name))
		if err != nil && failure == nil {
			failure = err
		}
		return value
	})
	return out, failure
}

func loadYAML(path string, out interface{}, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrConfiguration, path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: parse %s: %v", domain.ErrConfiguration, path, err)
	}
	return nil
}

func isProject(dir string) bool {
	base := filepath.Base(dir)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") {
		return false
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	for _, name := range []string{templatesFile, inventoryFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

var _ ports.Registry = (*YAMLRegistry)(nil)
