package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"pricelist-summary/utils"
)

// OutputWriteError reports an output file that could not be written.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }

// writeFile replaces path with data through a temp file and rename, so a
// reader never sees a half-written file. Attempts are retried per retry.
func writeFile(path string, data []byte, retry *utils.RetryConfig) error {
	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	err := retry.Do("write "+filepath.Base(path), func() error {
		return replaceFile(path, data)
	})
	if err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	return nil
}

func replaceFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmpName, path)
}
