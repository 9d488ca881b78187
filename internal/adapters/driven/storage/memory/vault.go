package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
)

// Ensure Vault implements the interface.
var _ driven.Vault = (*Vault)(nil)

// Vault is an in-memory implementation of driven.Vault for testing.
type Vault struct {
	mu      sync.RWMutex
	files   map[string]string
	folders map[string]bool
}

// NewVault creates a new in-memory vault.
func NewVault() *Vault {
	return &Vault{
		files:   make(map[string]string),
		folders: make(map[string]bool),
	}
}

// CreateFolder ensures a folder exists, including its parents.
func (v *Vault) CreateFolder(_ context.Context, path string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	parts := strings.Split(path, "/")
	for i := range parts {
		v.folders[strings.Join(parts[:i+1], "/")] = true
	}
	return nil
}

// Exists reports whether a file exists at path.
func (v *Vault) Exists(_ context.Context, path string) (bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.files[path]
	return ok, nil
}

// Create writes a new file.
func (v *Vault) Create(_ context.Context, path, content string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.files[path]; ok {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, path)
	}
	v.files[path] = content
	return nil
}

// Read returns a file's entire text.
func (v *Vault) Read(_ context.Context, path string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	content, ok := v.files[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return content, nil
}

// Modify overwrites an existing file.
func (v *Vault) Modify(_ context.Context, path, content string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.files[path]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	v.files[path] = content
	return nil
}

// List returns the markdown files and subfolders directly under path.
func (v *Vault) List(_ context.Context, path string) ([]string, []string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	prefix := path + "/"
	var files []string
	folderSet := make(map[string]bool)

	for p := range v.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if strings.Contains(rest, "/") {
			continue
		}
		if strings.HasSuffix(rest, ".md") {
			files = append(files, rest)
		}
	}
	for p := range v.folders {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if rest != "" && !strings.Contains(rest, "/") {
			folderSet[rest] = true
		}
	}

	folders := make([]string, 0, len(folderSet))
	for f := range folderSet {
		folders = append(folders, f)
	}
	sort.Strings(files)
	sort.Strings(folders)
	return files, folders, nil
}

// Files returns a copy of the file map for assertions.
func (v *Vault) Files() map[string]string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]string, len(v.files))
	for k, c := range v.files {
		out[k] = c
	}
	return out
}

// Put writes a file directly, bypassing create semantics. Test setup
// helper for pre-existing vault state.
func (v *Vault) Put(path, content string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.files[path] = content
	parts := strings.Split(path, "/")
	for i := range parts[:len(parts)-1] {
		v.folders[strings.Join(parts[:i+1], "/")] = true
	}
}
