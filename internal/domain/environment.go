package domain

import (
	"maps"
	"slices"
)

// EnvironmentDescriptor is everything the launcher needs to start a subshell.
// Paths are absolute; the launcher never resolves them.
type EnvironmentDescriptor struct {
	Item                 string
	Project              string
	ProjectDirectory     string
	ProjectsRoot         string
	Binding              string
	User                 string
	Topics               []string
	CurrentDirectory     string
	DevelopmentDirectory string
	InitScript           string
	InitCommands         []string
	CompletionScript     string
	ShellExecutable      string
	ExtraEnvironment     map[string]string
	Aliases              map[string]string
	Custom               []string
	EnterDevelopmentDir  bool
}

// StartDirectory is where the subshell lands. Entering without a
// development directory falls back to the current directory.
func (d EnvironmentDescriptor) StartDirectory() string {
	if d.EnterDevelopmentDir && d.DevelopmentDirectory != "" {
		return d.DevelopmentDirectory
	}
	return d.CurrentDirectory
}

// Entering reports whether the subshell starts in the development directory.
func (d EnvironmentDescriptor) Entering() bool {
	return d.EnterDevelopmentDir && d.DevelopmentDirectory != ""
}

// Clone returns a deep copy.
func (d EnvironmentDescriptor) Clone() EnvironmentDescriptor {
	out := d
	out.Topics = slices.Clone(d.Topics)
	out.Custom = slices.Clone(d.Custom)
	out.InitCommands = slices.Clone(d.InitCommands)
	out.ExtraEnvironment = maps.Clone(d.ExtraEnvironment)
	out.Aliases = maps.Clone(d.Aliases)
	return out
}

// ResolveRequest asks the resolver for an item's environment.
type ResolveRequest struct {
	Item  string
	Enter bool
	// User overrides the current user for templates and BE_USER.
	User string
}
