package knowledge

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed docs/*.md
var builtin embed.FS

// Document is one built-in knowledge file.
type Document struct {
	Name string
	Text string
}

// Source reads markdown documents either from the embedded set or from a directory.
type Source struct {
	fsys fs.FS
	root string
}

// NewSource returns the embedded documents when dir is empty, otherwise the *.md
// files found in dir.
func NewSource(dir string) *Source {
	if dir == "" {
		return &Source{fsys: builtin, root: "docs"}
	}
	return &Source{fsys: os.DirFS(dir), root: "."}
}

// Documents returns every *.md document sorted by file name. A missing directory
// yields no documents.
func (s *Source) Documents() ([]Document, error) {
	names, err := fs.Glob(s.fsys, path.Join(s.root, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("list knowledge docs: %w", err)
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(s.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read knowledge doc %s: %w", name, err)
		}
		docs = append(docs, Document{
			Name: path.Base(name),
			Text: strings.ToValidUTF8(string(raw), ""),
		})
	}
	return docs, nil
}
