package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed prompts/*.txt prompts/README.md
var embeddedPrompts embed.FS

// PromptStore serves narrative prompt templates. A <name>.txt file in the
// prompt directory overrides the embedded default of the same name.
//
// The first Load seeds the directory with any missing default files so
// users have something to edit. Seeding is retried until it succeeds;
// until then the embedded defaults are served.
type PromptStore struct {
	promptDir string

	mu     sync.Mutex
	cache  map[string]string
	seeded bool
}

// NewPromptStore creates a prompt store reading from promptDir.
// If promptDir is empty, defaults to ~/.healthdoc/prompts/.
// No I/O happens until the first Load.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the template for name, preferring the user's file.
func (s *PromptStore) Load(name string) (string, error) {
	fallback, known := defaultPrompt(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prompt, ok := s.cache[name]; ok {
		return prompt, nil
	}
	if !s.seeded {
		s.seeded = s.seed() == nil
	}

	data, err := os.ReadFile(s.path(name))
	switch {
	case err == nil:
		prompt := strings.TrimSpace(string(data))
		s.cache[name] = prompt
		return prompt, nil
	case known:
		return fallback, nil
	default:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
}

// Reload drops cached templates so edited files are read again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.promptDir, name+".txt")
}

// seed copies every embedded file the directory lacks. Existing files
// are left alone.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}

	entries, err := fs.ReadDir(embeddedPrompts, "prompts")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		dst := filepath.Join(s.promptDir, entry.Name())
		if _, err := os.Stat(dst); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		data, err := embeddedPrompts.ReadFile("prompts/" + entry.Name())
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0600); err != nil {
			return fmt.Errorf("create default prompt %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// defaultPrompt returns the embedded template for name.
func defaultPrompt(name string) (string, bool) {
	if strings.ContainsAny(name, `/\`) {
		return "", false
	}
	data, err := embeddedPrompts.ReadFile("prompts/" + name + ".txt")
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
