package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// WriteFileAtomic writes data to a temporary file beside path and renames it into
// place, creating parent directories as needed. Readers see either the previous
// content or the new content, never a partial write.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temporary file"), "path", path)
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return zerr.With(zerr.Wrap(err, "failed to write temporary file"), "path", name)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return zerr.With(zerr.Wrap(err, "failed to set permissions"), "path", name)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return zerr.With(zerr.Wrap(err, "failed to close temporary file"), "path", name)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return zerr.With(zerr.Wrap(err, "failed to rename temporary file"), "path", path)
	}
	return nil
}
