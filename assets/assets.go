package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// BashCompletion is the tab-completion hook registered for `be`.
//
//go:embed shell/be.bash
var BashCompletion string
