// Package artifact persists the generated provisioning outputs. Writes are
// atomic so a consumer watching a path never observes a half-written file.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// PersistError reports a failed artifact write or removal together with the
// path the operator has to inspect.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// WriteAtomic writes data to path via a temporary file in the same directory
// followed by a rename. The rename is retried once; a second failure is
// surfaced as a PersistError.
func WriteAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &PersistError{Path: path, Err: fmt.Errorf("create dir: %w", err)}
		}
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return &PersistError{Path: path, Err: fmt.Errorf("create tmp file: %w", err)}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return &PersistError{Path: path, Err: fmt.Errorf("write tmp file: %w", err)}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &PersistError{Path: path, Err: fmt.Errorf("close tmp file: %w", err)}
	}

	if err := os.Rename(tmp, path); err != nil {
		// One retry; the temp file is complete at this point.
		if retryErr := os.Rename(tmp, path); retryErr != nil {
			os.Remove(tmp)
			return &PersistError{Path: path, Err: fmt.Errorf("replace file: %w", retryErr)}
		}
	}
	return nil
}

// Remove deletes the given artifact paths. Missing files are not an error;
// uninstall must be repeatable.
func Remove(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &PersistError{Path: path, Err: err}
		}
	}
	return nil
}
