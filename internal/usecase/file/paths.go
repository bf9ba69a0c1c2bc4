package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"browser-keywords/internal/domain/failure"
)

// Paths are the folders searched for a bare file name.
type Paths struct {
	Downloads string
	// Suite is the running script; files/ and images/ are looked up two levels
	// above it.
	Suite   string
	ExecDir string
	// BaseImages is the last resort; names are lowercased there.
	BaseImages string
}

// DefaultPaths uses ~/Downloads and the working directory.
func DefaultPaths(suite string) Paths {
	p := Paths{Suite: suite}
	if home, err := os.UserHomeDir(); err == nil {
		p.Downloads = filepath.Join(home, "Downloads")
	}
	if wd, err := os.Getwd(); err == nil {
		p.ExecDir = wd
	}
	return p
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Resolve returns name itself when it exists, otherwise the first candidate found in
// downloads, files/, images/ and their counterparts under the execution directory.
func (p Paths) Resolve(name string) (string, error) {
	if name == "" {
		return "", failure.Invalid("File name is empty")
	}
	if exists(name) {
		return name, nil
	}
	var candidates []string
	if p.Downloads != "" {
		candidates = append(candidates, filepath.Join(p.Downloads, name))
	}
	if p.Suite != "" {
		root := filepath.Dir(filepath.Dir(p.Suite))
		candidates = append(candidates, filepath.Join(root, "files", name), filepath.Join(root, "images", name))
	}
	if p.ExecDir != "" {
		candidates = append(candidates,
			filepath.Join(subdir(p.ExecDir, "files"), name),
			filepath.Join(subdir(p.ExecDir, "images"), name))
	}
	for _, c := range candidates {
		if exists(c) {
			return c, nil
		}
	}
	if p.BaseImages != "" {
		return filepath.Join(p.BaseImages, strings.ToLower(name)), nil
	}
	return "", failure.New(failure.KindFileNotFound, "File %s not found from default folders", name)
}

var errFound = errors.New("found")

// subdir finds a directory called target anywhere under base, falling back to
// base/target.
func subdir(base, target string) string {
	found := filepath.Join(base, target)
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fs.SkipDir
		}
		if d.IsDir() && path != base && strings.EqualFold(d.Name(), target) {
			found = path
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return filepath.Join(base, target)
	}
	return found
}
