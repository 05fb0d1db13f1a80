// Package fs provides filesystem abstraction using spf13/afero for testability.
// Components take an afero.Fs; production code passes OS(), tests pass NewMemMapFs().
package fs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// OS returns the real operating system filesystem
func OS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemMapFs creates a new in-memory filesystem for testing
func NewMemMapFs() afero.Fs {
	return afero.NewMemMapFs()
}

// NewReadOnlyFs wraps a filesystem to make it read-only
func NewReadOnlyFs(base afero.Fs) afero.Fs {
	return afero.NewReadOnlyFs(base)
}

// utf8BOM is dropped from the start of files read as text
const utf8BOM = "\xEF\xBB\xBF"

// ReadText reads the full content of a file as UTF-8 text. A leading byte
// order mark is removed and each invalid byte becomes U+FFFD.
func ReadText(fsys afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", err
	}
	return decodeText(data), nil
}

func decodeText(data []byte) string {
	text := strings.TrimPrefix(string(data), utf8BOM)
	if utf8.ValidString(text) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.WriteString(text[i : i+size])
		}
		i += size
	}
	return b.String()
}

// WriteFileAtomic writes data next to path under a temporary name and renames
// it into place, so readers never observe a partially written file.
func WriteFileAtomic(fsys afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(fsys, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = fsys.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return err
	}
	if err := fsys.Chmod(tmpName, perm); err != nil {
		_ = fsys.Remove(tmpName)
		return err
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		_ = fsys.Remove(tmpName)
		return err
	}
	return nil
}

// ReadJSON best-effort reads path into out; a missing file is not an error.
func ReadJSON(fsys afero.Fs, path string, out any) error {
	b, err := afero.ReadFile(fsys, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// WriteJSON writes v as indented JSON via WriteFileAtomic.
func WriteJSON(fsys afero.Fs, path string, v any, perm os.FileMode) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return WriteFileAtomic(fsys, path, b, perm)
}

// Exists checks if a file or directory exists
func Exists(fsys afero.Fs, path string) (bool, error) {
	return afero.Exists(fsys, path)
}

// FileSize returns the size of a file
func FileSize(fsys afero.Fs, path string) (int64, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// SetupTestDir creates a test directory structure in-memory
func SetupTestDir(files map[string]string) afero.Fs {
	memFs := afero.NewMemMapFs()
	for path, content := range files {
		dir := filepath.Dir(path)
		if dir != "." && dir != "/" {
			_ = memFs.MkdirAll(dir, 0755)
		}
		_ = afero.WriteFile(memFs, path, []byte(content), 0644)
	}
	return memFs
}
