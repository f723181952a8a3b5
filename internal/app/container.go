package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/doeshing/be-go/internal/application/complete"
	configapp "github.com/doeshing/be-go/internal/application/config"
	"github.com/doeshing/be-go/internal/application/doctor"
	"github.com/doeshing/be-go/internal/application/launch"
	"github.com/doeshing/be-go/internal/application/resolve"
	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/infrastructure/config"
	"github.com/doeshing/be-go/internal/infrastructure/history"
	"github.com/doeshing/be-go/internal/infrastructure/process"
	"github.com/doeshing/be-go/internal/infrastructure/registry"
	"github.com/doeshing/be-go/internal/infrastructure/shell"
	"github.com/doeshing/be-go/internal/pkg/logger"
	"github.com/doeshing/be-go/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	// Config is the configuration read at startup. When it could not be
	// loaded ConfigErr is set and Config holds the defaults, so completion
	// keeps working; commands that need a valid configuration reload it
	// through ConfigProvider and report the error.
	Config    domain.Config
	ConfigErr error

	ConfigProvider  ports.ConfigProvider
	ConfigLoader    *config.FileLoader
	Registry        *registry.YAMLRegistry
	Resolver        *resolve.Service
	Launcher        *launch.Launcher
	Completer       *complete.Service
	ShellIntegrator ports.ShellIntegrator
	DoctorService   *doctor.Service
	Prompter        ports.ConfirmationPrompter
	Logger          *logger.ZapLogger

	historyOnce  sync.Once
	historyStore ports.SessionRepository
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	log := logger.New(verbose)

	cfgLoader := config.NewFileLoader("")
	provider := configapp.ValidatingProvider{Provider: cfgLoader}
	cfg, cfgErr := provider.Load(ctx)
	if cfgErr != nil {
		log.Debug("using default configuration", map[string]interface{}{"error": cfgErr.Error()})
		defaults, err := config.Default()
		if err != nil {
			return nil, err
		}
		cfg = defaults
		if root := os.Getenv(domain.EnvProjectsRoot); root != "" {
			cfg.ProjectsRoot = root
		}
	}

	root := cfg.ProjectsRoot
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = cwd
	}

	resolver := resolve.NewService(nil, provider, log)
	reg := registry.NewYAMLRegistry(root, userFromEnv(resolver), log)
	resolver.Registry = reg

	installer := shell.NewInstaller(cfg.Shell.CompletionScript, log)

	c := &Container{
		Config:          cfg,
		ConfigErr:       cfgErr,
		ConfigProvider:  provider,
		ConfigLoader:    cfgLoader,
		Registry:        reg,
		Resolver:        resolver,
		Launcher:        launch.New(process.NewInteractiveRunner(log), log, cfg.Shell.TempDir, cfg.Shell.RCFile),
		Completer:       complete.NewService(reg, log),
		ShellIntegrator: installer,
		Logger:          log,
	}
	c.DoctorService = &doctor.Service{
		ConfigProvider:  provider,
		ShellIntegrator: installer,
		Registry:        reg,
	}
	return c, nil
}

// History opens the session store on first use.
func (c *Container) History() ports.SessionRepository {
	c.historyOnce.Do(func() {
		c.historyStore = history.New(c.Config.History)
	})
	return c.historyStore
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	// stderr does not support fsync on every platform.
	_ = c.Logger.Sync()
	if closer, ok := c.historyStore.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func userFromEnv(resolver *resolve.Service) string {
	if name := os.Getenv(domain.EnvUser); name != "" {
		return name
	}
	return resolver.Username()
}
