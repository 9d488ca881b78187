// Package vault implements driven.Vault on the local filesystem.
// Vault paths are slash-delimited and resolved beneath a fixed root
// directory; nothing outside the root is ever touched.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
)

// Ensure Vault implements the interface.
var _ driven.Vault = (*Vault)(nil)

// Vault is a filesystem-backed vault rooted at a directory.
type Vault struct {
	root string
}

// New creates a vault over the directory at root. The directory is
// created if it does not exist.
func New(root string) (*Vault, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty vault root", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create vault root: %w", err)
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute vault root directory.
func (v *Vault) Root() string {
	return v.root
}

// resolve maps a slash-delimited vault path to an absolute filesystem
// path, rejecting escapes above the root.
func (v *Vault) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: path %q escapes vault", domain.ErrInvalidInput, path)
	}
	return filepath.Join(v.root, clean), nil
}

// CreateFolder ensures a folder exists. Idempotent.
func (v *Vault) CreateFolder(_ context.Context, path string) error {
	target, err := v.resolve(path)
	if err != nil {
		return err
	}
	return os.MkdirAll(target, 0755)
}

// Exists reports whether a regular file exists at path.
func (v *Vault) Exists(_ context.Context, path string) (bool, error) {
	target, err := v.resolve(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Create writes a new file, failing if the path is already taken.
func (v *Vault) Create(_ context.Context, path, content string) error {
	target, err := v.resolve(path)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, path)
		}
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read returns a file's entire text.
func (v *Vault) Read(_ context.Context, path string) (string, error) {
	target, err := v.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return "", err
	}
	return string(data), nil
}

// Modify overwrites an existing file.
func (v *Vault) Modify(_ context.Context, path, content string) error {
	target, err := v.resolve(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return err
	}
	return os.WriteFile(target, []byte(content), 0644)
}

// List returns the markdown files and subfolders directly under path.
// Hidden entries are skipped; the vault never descends into them.
func (v *Vault) List(_ context.Context, path string) ([]string, []string, error) {
	target, err := v.resolve(path)
	if err != nil {
		return nil, nil, err
	}
	entries, err := os.ReadDir(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, nil, err
	}

	var files, folders []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			folders = append(folders, name)
			continue
		}
		if strings.HasSuffix(name, ".md") {
			files = append(files, name)
		}
	}
	return files, folders, nil
}
