package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

const (
	transcriptionDir = "transcription"
	recordExt        = ".json"
)

// PageFile locates single page record in the corpus.
type PageFile struct {
	Siglum string
	Page   string
	Path   string
}

func (p PageFile) String() string {
	return p.Siglum + "/" + p.Page
}

// Enumerate lists page records under "<dataPath>/transcription/<siglum>/".
// Manuscripts and pages come in natural order, so "2r" is before "12r".
func Enumerate(dataPath string) ([]PageFile, error) {
	root := filepath.Join(dataPath, transcriptionDir)

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("unable to list manuscripts: %w", err)
	}

	sigla := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			sigla = append(sigla, e.Name())
		}
	}
	sort.Sort(natural.StringSlice(sigla))

	var pages []PageFile
	for _, siglum := range sigla {
		list, err := manuscriptPages(filepath.Join(root, siglum))
		if err != nil {
			return nil, err
		}
		for _, name := range list {
			pages = append(pages, PageFile{
				Siglum: siglum,
				Page:   strings.TrimSuffix(name, filepath.Ext(name)),
				Path:   filepath.Join(root, siglum, name),
			})
		}
	}
	if len(pages) == 0 {
		return nil, errors.New("no page records found")
	}
	return pages, nil
}

func manuscriptPages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list pages: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), recordExt) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(natural.StringSlice(names))
	return names, nil
}
