// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under ~/.healthdoc.
//
// Adapters:
//   - ConfigStore: TOML configuration with dot-notation keys
//   - PromptStore: user-editable narrative prompt templates
package file
