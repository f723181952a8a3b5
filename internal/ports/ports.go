// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core (resolver, launcher, completion handler) depends only
// on these abstractions. Concrete adapters for YAML projects, SQLite history,
// process execution and the terminal live in the infrastructure layer.
package ports

import (
	"context"

	"github.com/doeshing/be-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.be/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Registry is the hierarchical item store. Paths are slash separated, the
// empty path is the root.
type Registry interface {
	// Lookup returns the item at path or an error matching domain.ErrUnknownItem.
	Lookup(ctx context.Context, path string) (domain.Item, error)
	// Children returns the sorted names directly below path. A missing
	// subtree yields no names and no error.
	Children(ctx context.Context, path string) ([]string, error)
}

// EnvironmentResolver turns an item identifier into a launchable environment.
type EnvironmentResolver interface {
	Resolve(ctx context.Context, item string, enter bool) (domain.EnvironmentDescriptor, error)
}

// SubshellLauncher runs an interactive shell for a descriptor and returns its exit status.
type SubshellLauncher interface {
	Launch(ctx context.Context, descriptor domain.EnvironmentDescriptor) (int, error)
}

// ProcessRunner starts a process attached to the terminal and waits for it.
// A non-zero exit status is returned as the int, not as an error.
type ProcessRunner interface {
	Run(ctx context.Context, cmd domain.ShellCommand) (int, error)
}

// SignalGuard is implemented by runners that can keep be alive while it
// prepares a launch. The returned context is cancelled with a
// *domain.SignalError cause when a signal arrives before release is called.
type SignalGuard interface {
	HoldSignals(ctx context.Context) (context.Context, func())
}

// CompletionHandler answers tab-completion queries.
type CompletionHandler interface {
	Complete(ctx context.Context, query domain.CompletionQuery) ([]string, error)
}

// SessionRecorder stores finished subshell sessions.
type SessionRecorder interface {
	Save(domain.Session) error
}

// SessionRepository lists and manages recorded sessions.
type SessionRepository interface {
	SessionRecorder
	Records(limit int) ([]domain.Session, error)
	Clear() error
	Path() string
}

// ConfirmationPrompter asks the user yes/no questions.
type ConfirmationPrompter interface {
	Confirm(question string, defaultYes bool) (bool, error)
	Enabled() bool
}

// ShellIntegrator manages the tab-completion hook in the user's shell rc file.
type ShellIntegrator interface {
	Install(shell string, force bool) (domain.ShellInstallResult, error)
	Uninstall(shell string) (domain.ShellInstallResult, error)
	Status(shell string) domain.ShellStatus
	DetectShell() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stderr, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
