// Package tree renders a plain-text view of a candidate's containing
// directory, with the candidate itself highlighted, so the operator can
// see what else a directory-level decision would affect.
package tree

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chonklab/antichonk/internal/ui"
)

const (
	// maxEntriesPerLevel keeps pathological directories readable.
	maxEntriesPerLevel = 20
	// maxDepth bounds recursion below the candidate's directory.
	maxDepth = 4
)

// Options controls rendering.
type Options struct {
	// Highlight decorates the name of the candidate file. Defaults to
	// identity when nil.
	Highlight func(name string) string
	// ShowSizes annotates files with their size.
	ShowSizes bool
}

// Render returns a tree view of dir. highlightPath is the absolute path of
// the candidate file to mark.
func Render(dir, highlightPath string, opt Options) string {
	if opt.Highlight == nil {
		opt.Highlight = func(name string) string { return name }
	}

	var b strings.Builder
	b.WriteString(filepath.Base(dir) + "/\n")
	renderLevel(&b, dir, highlightPath, "", 1, opt)
	return b.String()
}

func renderLevel(b *strings.Builder, dir, highlightPath, prefix string, depth int, opt Options) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		b.WriteString(prefix + "└── (unreadable: " + err.Error() + ")\n")
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	shown := entries
	var remaining int
	if len(entries) > maxEntriesPerLevel {
		shown = entries[:maxEntriesPerLevel]
		remaining = len(entries) - maxEntriesPerLevel
	}

	for i, entry := range shown {
		last := i == len(shown)-1 && remaining == 0

		connector := "├── "
		childPrefix := "│   "
		if last {
			connector = "└── "
			childPrefix = "    "
		}

		path := filepath.Join(dir, entry.Name())
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		} else if path == highlightPath {
			name = opt.Highlight(name)
		}

		line := prefix + connector + name
		if opt.ShowSizes && !entry.IsDir() {
			if info, err := entry.Info(); err == nil {
				line += "  " + ui.FormatSize(info.Size())
			}
		}
		b.WriteString(line + "\n")

		if entry.IsDir() {
			if depth >= maxDepth {
				b.WriteString(prefix + childPrefix + "└── …\n")
				continue
			}
			renderLevel(b, path, highlightPath, prefix+childPrefix, depth+1, opt)
		}
	}

	if remaining > 0 {
		b.WriteString(prefix + "└── … and " + strconv.Itoa(remaining) + " more entries\n")
	}
}
