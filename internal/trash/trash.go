// Package trash moves files into the desktop trash instead of deleting them.
package trash

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

var ErrUnsupported = errors.New("trash is not supported on this platform")

// Trash moves files to a recoverable location.
type Trash struct {
	// Dir overrides the trash root. When empty the platform default is used.
	Dir string
	now func() time.Time
}

// New returns a Trash using the platform location.
func New() *Trash {
	return &Trash{now: time.Now}
}

// Trash moves path into the trash.
func (t *Trash) Trash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}

	root, freedesktop, err := t.root()
	if err != nil {
		return err
	}
	if !freedesktop {
		return moveInto(root, abs)
	}
	return t.freedesktop(root, abs)
}

func (t *Trash) root() (string, bool, error) {
	if t.Dir != "" {
		return t.Dir, runtime.GOOS != "darwin", nil
	}
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, err
		}
		return filepath.Join(home, ".Trash"), false, nil
	case "windows", "plan9", "js", "wasip1":
		return "", false, ErrUnsupported
	default:
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", false, err
			}
			dataHome = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(dataHome, "Trash"), true, nil
	}
}

// freedesktop uses the freedesktop.org trash layout: the file goes to files/ and a
// matching .trashinfo records where it came from.
func (t *Trash) freedesktop(root, abs string) error {
	filesDir := filepath.Join(root, "files")
	infoDir := filepath.Join(root, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return fmt.Errorf("creating trash directory: %w", err)
		}
	}

	now := time.Now
	if t.now != nil {
		now = t.now
	}

	base := filepath.Base(abs)
	for i := 0; ; i++ {
		name := uniqueName(base, i)
		infoPath := filepath.Join(infoDir, name+".trashinfo")
		f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("creating trash info: %w", err)
		}

		info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
			escapePath(abs), now().Format("2006-01-02T15:04:05"))
		_, werr := f.WriteString(info)
		cerr := f.Close()
		if werr != nil || cerr != nil {
			os.Remove(infoPath)
			return fmt.Errorf("writing trash info: %w", errors.Join(werr, cerr))
		}

		if err := os.Rename(abs, filepath.Join(filesDir, name)); err != nil {
			os.Remove(infoPath)
			return err
		}
		return nil
	}
}

func moveInto(dir, abs string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	base := filepath.Base(abs)
	for i := 0; ; i++ {
		target := filepath.Join(dir, uniqueName(base, i))
		if _, err := os.Lstat(target); err == nil {
			continue
		}
		return os.Rename(abs, target)
	}
}

// uniqueName returns base for n == 0 and "name.n.ext" otherwise.
func uniqueName(base string, n int) string {
	if n == 0 {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "." + strconv.Itoa(n) + ext
}

func escapePath(p string) string {
	parts := strings.Split(filepath.ToSlash(p), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
