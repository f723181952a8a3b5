package commands

// Shell integration constants
const (
	ShellAutoDetect = "auto"
)

// Error messages
const (
	ErrHistoryDisabled = "history is disabled (history.enabled: false)"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgCancelled                = "Cancelled"
	MsgNoTopic                  = "No topic"
)

// PromptCreateDirectory is asked before creating a missing development directory.
const PromptCreateDirectory = "No development directory found. Create?"
