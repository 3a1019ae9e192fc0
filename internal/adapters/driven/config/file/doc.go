// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the Quill home directory (~/.quill).
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage (config.toml)
//   - PromptStore: user-editable prompt templates (prompts/*.txt)
package file

import (
	"os"
	"path/filepath"
)

// EnvHome overrides the Quill home directory.
const EnvHome = "QUILL_HOME"

// HomeDir returns the Quill home directory, $QUILL_HOME or ~/.quill.
func HomeDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".quill"), nil
}
