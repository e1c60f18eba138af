// Package archive reads page records out of zip snapshots of the corpus.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
)

// ErrNotFound is returned when archive has no file with requested name.
var ErrNotFound = errors.New("file not found in archive")

// WalkFunc is called for every archive file visited by Walk. Returning error
// stops the walk.
type WalkFunc func(archive string, file *zip.File) error

// Walk visits regular files of the archive with names starting with prefix,
// in archive order. Archive with absolute names or names escaping archive
// root is rejected.
func Walk(archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile returns content of a single archive file.
func ReadFile(archive, name string) ([]byte, error) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")

	var data []byte
	found := errors.New("found")
	err := Walk(archive, name, func(_ string, f *zip.File) error {
		if f.Name != name {
			return nil
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		if data, err = io.ReadAll(rc); err != nil {
			return err
		}
		return found
	})
	switch {
	case errors.Is(err, found):
		return data, nil
	case err != nil:
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	return !slices.Contains(strings.Split(name, "/"), "..")
}
