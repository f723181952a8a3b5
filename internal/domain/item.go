package domain

import (
	"fmt"
	"os"
	"strings"
)

// Item is a registry node addressed by a slash separated path such as
// "nike/shot1/animation".
type Item struct {
	Path string
	// Name is the inventory entry selected by the project's template key.
	Name             string
	Root             string
	Project          string
	ProjectDirectory string
	Topics           []string
	Binding          string
	// Template is the development directory pattern with references expanded
	// but placeholders such as {1} or {user} still in place.
	Template   string
	InitScript string
	// InitCommands are inline shell lines run after the initial cd.
	InitCommands []string
	Environment  map[string]EnvValue
	Aliases      map[string]string
	Redirect     map[string]string
}

// EnvValue is an environment value from YAML: a string or a list of strings
// joined with the OS path list separator.
type EnvValue []string

// UnmarshalYAML accepts both scalar and sequence forms.
func (v *EnvValue) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*v = EnvValue{single}
		return nil
	}
	var list []string
	if err := unmarshal(&list); err != nil {
		return fmt.Errorf("environment value must be a string or a list of strings: %w", err)
	}
	*v = list
	return nil
}

// MarshalYAML writes single values as plain scalars.
func (v EnvValue) MarshalYAML() (interface{}, error) {
	if len(v) == 1 {
		return v[0], nil
	}
	return []string(v), nil
}

// String joins list values.
func (v EnvValue) String() string {
	return strings.Join(v, string(os.PathListSeparator))
}

// SplitItemPath splits "a/b//c/" into ["a" "b" "c"].
func SplitItemPath(path string) []string {
	parts := strings.Split(strings.ReplaceAll(path, "\\", "/"), "/")
	out := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinItemPath is the inverse of SplitItemPath.
func JoinItemPath(segments []string) string {
	return strings.Join(segments, "/")
}
