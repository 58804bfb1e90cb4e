// Package session implements the decision engine of the review loop: a
// cursor over the ordered candidate list, a monotonically growing prune
// set, and the bookkeeping for deletions and skips.
//
// The engine performs no terminal I/O. Frontends call Next to obtain the
// record to present, collect one keystroke, and hand the parsed Decision
// back through Apply.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chonklab/antichonk/internal/core"
	"github.com/chonklab/antichonk/internal/scan"
)

// Decision is the interpretation of one keystroke against the current
// candidate.
type Decision int

const (
	Invalid Decision = iota
	DeleteFile
	DeleteDirectory
	SkipFile
	SkipDirectory
	Help
	Quit
)

// ParseDecision maps operator input to a Decision. Only the first rune of
// the input is significant. Anything outside {d, D, s, S, ?, q, Q} is
// Invalid, which frontends treat as an implicit help request.
func ParseDecision(input string) Decision {
	input = strings.TrimSpace(input)
	if input == "" {
		return Invalid
	}
	switch []rune(input)[0] {
	case 'd':
		return DeleteFile
	case 'D':
		return DeleteDirectory
	case 's':
		return SkipFile
	case 'S':
		return SkipDirectory
	case '?':
		return Help
	case 'q', 'Q':
		return Quit
	default:
		return Invalid
	}
}

// PruneSet tracks directories whose remaining descendants are suppressed
// for the rest of the run. It only grows.
type PruneSet struct {
	dirs map[string]struct{}
}

// NewPruneSet returns an empty prune set.
func NewPruneSet() *PruneSet {
	return &PruneSet{dirs: make(map[string]struct{})}
}

// Add marks a directory as pruned.
func (p *PruneSet) Add(dir string) {
	p.dirs[filepath.Clean(dir)] = struct{}{}
}

// Pruned reports whether path or any of its ancestors has been pruned.
// Decisions only ever target a record's immediate parent, but a later
// record can sit arbitrarily deep below a pruned directory.
func (p *PruneSet) Pruned(path string) bool {
	path = filepath.Clean(path)
	for {
		if _, ok := p.dirs[path]; ok {
			return true
		}
		parent := filepath.Dir(path)
		if parent == path {
			return false
		}
		path = parent
	}
}

// Summary is the outcome of a run.
type Summary struct {
	// Reviewed counts records that received an advancing decision.
	Reviewed int
	// Dropped counts records never presented: pruned, or gone from disk.
	Dropped int

	DeletedFiles int
	DeletedDirs  int
	SkippedFiles int
	SkippedDirs  int

	// BytesReclaimed is measured from scan-time sizes of successfully
	// deleted candidates.
	BytesReclaimed int64

	Warnings []string
}

// Result reports the effect of applying one Decision.
type Result struct {
	// Advance is false when the same record must be presented again
	// (help, invalid input, or a refused operation).
	Advance bool
	// Warning carries a non-fatal problem to surface to the operator.
	Warning string
}

// Session drives one review run. Single-threaded; the only suspension
// point is the operator prompt, which lives in the frontend.
type Session struct {
	root    string
	records []scan.FileRecord
	pos     int
	prunes  *PruneSet
	deleter core.Deleter
	exists  func(string) bool
	summary Summary
}

// New creates a session over records, which must already be in
// presentation order. root is the scan root; DeleteDirectory refuses to
// act on it.
func New(root string, records []scan.FileRecord, deleter core.Deleter) *Session {
	return &Session{
		root:    filepath.Clean(root),
		records: records,
		prunes:  NewPruneSet(),
		deleter: deleter,
		exists: func(path string) bool {
			_, err := os.Lstat(path)
			return err == nil
		},
	}
}

// Total returns the number of scanned candidates.
func (s *Session) Total() int {
	return len(s.records)
}

// Position returns the 1-based index of the current candidate.
func (s *Session) Position() int {
	return s.pos + 1
}

// Summary returns the run summary accumulated so far.
func (s *Session) Summary() Summary {
	return s.summary
}

// Next returns the record to present, silently dropping records whose
// directory was pruned or which no longer exist on disk. It does not
// advance past the returned record: a record stays current until Apply
// returns an advancing Result, so help and invalid input re-present it.
func (s *Session) Next() (scan.FileRecord, bool) {
	for s.pos < len(s.records) {
		rec := s.records[s.pos]
		if s.prunes.Pruned(rec.Dir) || !s.exists(rec.Path) {
			s.summary.Dropped++
			s.pos++
			continue
		}
		return rec, true
	}
	return scan.FileRecord{}, false
}

// Apply executes a decision against the record most recently returned by
// Next. Delete failures are converted into warnings; nothing past this
// point is fatal.
func (s *Session) Apply(rec scan.FileRecord, d Decision) Result {
	switch d {
	case DeleteFile:
		if err := s.deleter.Remove(rec.Path); err != nil {
			return s.advance(Result{Advance: true, Warning: fmt.Sprintf("delete %s: %v", rec.Path, err)})
		}
		s.summary.DeletedFiles++
		s.summary.BytesReclaimed += rec.Size
		return s.advance(Result{Advance: true})

	case DeleteDirectory:
		if rec.Dir == s.root {
			// Deleting the scan root would take out the tree under review.
			return Result{Warning: fmt.Sprintf("refusing to delete the scan root %s; use 'd' to delete the file", s.root)}
		}
		reclaim := s.pendingBytes(rec.Dir)
		err := s.deleter.RemoveAll(rec.Dir)
		// Prune even on failure so a half-deleted directory is never
		// presented again.
		s.prunes.Add(rec.Dir)
		if err != nil {
			return s.advance(Result{Advance: true, Warning: fmt.Sprintf("delete directory %s: %v", rec.Dir, err)})
		}
		s.summary.DeletedDirs++
		s.summary.BytesReclaimed += reclaim
		return s.advance(Result{Advance: true})

	case SkipFile:
		s.summary.SkippedFiles++
		return s.advance(Result{Advance: true})

	case SkipDirectory:
		s.prunes.Add(rec.Dir)
		s.summary.SkippedDirs++
		return s.advance(Result{Advance: true})

	default: // Help, Quit, Invalid
		return Result{}
	}
}

// advance moves the cursor past the current record and folds the result's
// warning into the summary.
func (s *Session) advance(res Result) Result {
	s.summary.Reviewed++
	s.pos++
	if res.Warning != "" {
		s.summary.Warnings = append(s.summary.Warnings, res.Warning)
	}
	return res
}

// pendingBytes sums scan-time sizes of the current record and every
// not-yet-presented record under dir. Used for DeleteDirectory accounting.
// Records already gone from disk contribute nothing: the deletion that is
// about to run cannot reclaim them.
func (s *Session) pendingBytes(dir string) int64 {
	prefix := dir + string(filepath.Separator)
	var total int64
	for _, rec := range s.records[s.pos:] {
		if rec.Dir != dir && !strings.HasPrefix(rec.Dir, prefix) {
			continue
		}
		if !s.exists(rec.Path) {
			continue
		}
		total += rec.Size
	}
	return total
}
