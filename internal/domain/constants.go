package domain

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// ScriptPermissions is the permission for installed shell scripts (rw-r--r--)
	ScriptPermissions = 0o644
)

// Exit codes returned by the be binary.
const (
	ExitNormal        = 0
	ExitProgramError  = 1
	ExitUserError     = 2
	ExitProjectError  = 3
	ExitTemplateError = 4
)

// Command line constants
const (
	// EnterKeyword is the subcommand tab completion is bound to.
	EnterKeyword = "in"
	// DefaultTemplateKey selects the inventory item among the topics.
	DefaultTemplateKey = "{1}"
	// TempFilePattern names the generated shell init file.
	TempFilePattern = "be-*.rc"
)

// Environment variables shared with the generated init file, the completion
// hook and the user's shell configuration. Renaming any of them breaks
// existing installations.
const (
	EnvEnter          = "BE_ENTER"
	EnvDevelopmentDir = "BE_DEVELOPMENTDIR"
	EnvCwd            = "BE_CWD"
	EnvScript         = "BE_SCRIPT"
	EnvTabCompletion  = "BE_TABCOMPLETION"
	EnvShell          = "BE_SHELL"
	EnvActive         = "BE_ACTIVE"
	EnvProject        = "BE_PROJECT"
	EnvProjectRoot    = "BE_PROJECTROOT"
	EnvProjectsRoot   = "BE_PROJECTSROOT"
	EnvTopics         = "BE_TOPICS"
	EnvEnvironment    = "BE_ENVIRONMENT"
	EnvTempDir        = "BE_TEMPDIR"
	EnvUser           = "BE_USER"
	EnvBinding        = "BE_BINDING"
	EnvConfig         = "BE_CONFIG"
	EnvDebug          = "BE_DEBUG"
)

// EnvPrefix marks variables owned by be.
const EnvPrefix = "BE_"

// History constants
const (
	// DefaultHistoryLimit is the default number of sessions to display
	DefaultHistoryLimit = 20
)
