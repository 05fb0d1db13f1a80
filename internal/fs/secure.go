package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// writeProbe is created and removed by CheckWriteAccess
const writeProbe = ".waterx-write-test"

// SecureMkdirAll creates directories with owner-only permissions. Backup
// files contain every customer record, so the directory is created 0700.
func SecureMkdirAll(fsys afero.Fs, path string) error {
	err := fsys.MkdirAll(path, 0o700)
	if err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// CheckWriteAccess creates dir if needed, then tests it is writable by
// creating and removing a probe file
func CheckWriteAccess(fsys afero.Fs, dir string) error {
	if dir == "" {
		dir = "."
	}
	if err := SecureMkdirAll(fsys, dir); err != nil {
		return err
	}

	probe := filepath.Join(dir, writeProbe)
	f, err := fsys.Create(probe)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("directory is not writable (permission denied): %s", dir)
		}
		return fmt.Errorf("cannot write to directory: %w", err)
	}
	_ = f.Close()

	if err := fsys.Remove(probe); err != nil {
		return fmt.Errorf("cannot remove test file (directory may be read-only): %w", err)
	}
	return nil
}
