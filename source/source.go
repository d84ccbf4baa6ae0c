// Package source holds the files handed to lint rules.
package source

import (
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/speakeasy-api/lintperf/errors"
	"github.com/speakeasy-api/lintperf/system"
)

// ErrLoad is returned when a source file cannot be read.
const ErrLoad errors.Error = "failed to load source"

// File is a source file and its content.
type File struct {
	Path    string
	Content string

	indexOnce  sync.Once
	lineStarts []int
}

// New returns a File for content already in memory.
func New(path, content string) *File {
	return &File{Path: path, Content: content}
}

// Load reads path from fsys.
func Load(fsys system.VirtualFS, path string) (*File, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, ErrLoad.Wrapf("%s: %w", path, err)
	}
	return New(path, string(data)), nil
}

// Lines splits the content into lines without their terminators.
func (f *File) Lines() []string {
	if f.Content == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(f.Content, "\r\n", "\n"), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// LineCol converts a byte offset into a 1-based line and column. Offsets outside the content are
// clamped to its bounds.
func (f *File) LineCol(offset int) (line, col int) {
	f.indexOnce.Do(func() {
		f.lineStarts = []int{0}
		for i := 0; i < len(f.Content); i++ {
			if f.Content[i] == '\n' {
				f.lineStarts = append(f.lineStarts, i+1)
			}
		}
	})

	offset = max(0, min(offset, len(f.Content)))

	idx := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1

	return idx + 1, offset - f.lineStarts[idx] + 1
}
