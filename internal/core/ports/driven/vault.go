package driven

import "context"

// Vault is the hierarchical file storage the sync engine writes into.
// Paths are slash-delimited and relative to the vault root; adapters map
// them to whatever the host storage expects.
//
// The vault is externally owned: users create, edit and reorganise files
// at will between sync cycles, so implementations must never cache
// listings or contents across calls.
type Vault interface {
	// CreateFolder ensures a folder exists. Creating a folder that
	// already exists is not an error.
	CreateFolder(ctx context.Context, path string) error

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Create writes a new file. Fails with domain.ErrAlreadyExists if
	// the path is taken.
	Create(ctx context.Context, path, content string) error

	// Read returns a file's entire text. Fails with domain.ErrNotFound
	// if the file does not exist.
	Read(ctx context.Context, path string) (string, error)

	// Modify overwrites an existing file. Fails with domain.ErrNotFound
	// if the file does not exist.
	Modify(ctx context.Context, path, content string) error

	// List returns the markdown file names (with extension) and the
	// subfolder names directly under path.
	List(ctx context.Context, path string) (files []string, folders []string, err error)
}
