package domain

// Config mirrors ~/.be/config.yaml.
type Config struct {
	ConfigFormatVersion string              `yaml:"config_format_version"`
	ProjectsRoot        string              `yaml:"projects_root"`
	Shell               ShellSettings       `yaml:"shell"`
	Environment         map[string]EnvValue `yaml:"environment,omitempty"`
	History             HistorySettings     `yaml:"history"`
}

// ShellSettings configures the launched subshell.
type ShellSettings struct {
	Executable       string `yaml:"executable"`
	RCFile           string `yaml:"rc_file"`
	CompletionScript string `yaml:"completion_script"`
	TempDir          string `yaml:"temp_dir"`
}

// HistorySettings controls session recording.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// History backends.
const (
	HistoryBackendSQLite = "sqlite"
	HistoryBackendJSONL  = "jsonl"
)
