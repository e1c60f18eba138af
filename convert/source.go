package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"estoria/archive"
	"estoria/page"
)

// LoadSource reads single page record. Source is either path to record file
// or path to zip archive followed by path of the record inside archive:
// "snapshot.zip/transcription/Q/1r.json". Manuscript siglum and page are
// derived from record location.
func LoadSource(ctx context.Context, src string) (*page.Record, PageFile, error) {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return nil, PageFile{}, err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exist, probably path in archive
			continue
		}
		if fi.Mode().IsDir() {
			return nil, PageFile{}, fmt.Errorf("page record was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		if !fi.Mode().IsRegular() {
			return nil, PageFile{}, fmt.Errorf("unexpected path mode for (%s)", head)
		}

		if len(tail) == 0 {
			rec, err := page.Load(head)
			if err != nil {
				return nil, PageFile{}, err
			}
			return rec, pageFile(head, filepath.Base(filepath.Dir(head)), filepath.Base(head)), nil
		}

		inner := filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
		data, err := archive.ReadFile(head, inner)
		if err != nil {
			return nil, PageFile{}, fmt.Errorf("unable to read page record from archive: %w", err)
		}
		rec, err := page.Read(bytes.NewReader(data))
		if err != nil {
			return nil, PageFile{}, fmt.Errorf("unable to read page record (%s): %w", inner, err)
		}
		return rec, pageFile(src, path.Base(path.Dir(inner)), path.Base(inner)), nil
	}
	return nil, PageFile{}, fmt.Errorf("page record was not found (%s)", src)
}

func pageFile(location, dir, name string) PageFile {
	return PageFile{Siglum: dir, Page: strings.TrimSuffix(name, path.Ext(name)), Path: location}
}
