package files

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	apperrors "ledgersynth/internal/errors"
)

// WriteAtomic streams into a temp file beside path and renames it over path
// once write succeeds. On any failure path is left untouched and the temp
// file is removed.
func WriteAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).WithContext("path", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.NewStorageError("failed to create temp file", err).WithContext("path", path)
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := write(tmp); err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return fail(appErr.WithContext("path", path))
		}
		return fail(apperrors.NewStorageError("failed to write file", err).WithContext("path", path))
	}
	if err := tmp.Sync(); err != nil {
		return fail(apperrors.NewStorageError("failed to sync file", err).WithContext("path", path))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError("failed to close file", err).WithContext("path", path)
	}
	// CreateTemp opens with 0600
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError("failed to set file mode", err).WithContext("path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError("failed to move file into place", err).WithContext("path", path)
	}
	return nil
}

// WriteFileAtomic atomically replaces path with data
func WriteFileAtomic(path string, data []byte) error {
	return WriteAtomic(path, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	})
}
