// Package scan walks a directory tree and produces the ordered candidate
// list the review loop consumes: every regular file reachable from the
// root, sorted largest-first or stalest-first.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
)

// DefaultProgressInterval is the default cadence for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Order selects the presentation order of candidates.
type Order string

const (
	// OrderAge presents the stalest file first.
	OrderAge Order = "age"
	// OrderSize presents the largest file first.
	OrderSize Order = "size"
)

// ParseOrder validates an order-by argument.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case OrderAge:
		return OrderAge, nil
	case OrderSize:
		return OrderSize, nil
	default:
		return "", fmt.Errorf("invalid order %q: must be %q or %q", s, OrderAge, OrderSize)
	}
}

// FileRecord describes one candidate file. Records are immutable once the
// scan completes; Path is absolute and identifies the record.
type FileRecord struct {
	Path    string
	Dir     string
	Size    int64
	ModTime time.Time
}

// Stats summarizes a completed scan.
type Stats struct {
	// Root is the resolved absolute scan root.
	Root       string
	FileCount  int64
	TotalBytes int64
	Skipped    int64
	Elapsed    time.Duration
}

// Options configures a scan.
type Options struct {
	// Root is the directory to scan. Must exist and be a directory.
	Root string
	// Order selects the sort key.
	Order Order
	// MinSize drops files smaller than this many bytes.
	MinSize int64
	// Exclude lists directory names (case-insensitive) pruned from the walk.
	Exclude []string
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug enables per-entry diagnostics on stderr.
	Debug bool
}

// collector gathers records from concurrent fastwalk callbacks.
type collector struct {
	mu         sync.Mutex
	records    []FileRecord
	totalBytes int64
	skipped    int64
}

func (c *collector) add(rec FileRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
	c.totalBytes += rec.Size
}

func (c *collector) addSkipped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skipped++
}

func (c *collector) snapshot() (files, bytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.records)), c.totalBytes
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx
// is done.
func startProgressReporter(ctx context.Context, c *collector, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// debugf prints a diagnostic line when debug output is enabled.
func debugf(enabled bool, format string, args ...any) {
	if enabled {
		fmt.Fprintf(os.Stderr, "[debug]: "+format+"\n", args...)
	}
}

// Run walks opt.Root and returns every regular file as a FileRecord,
// sorted by opt.Order (ties broken by path). The walk never follows
// symbolic links, so cyclic links cannot cause revisits. Files that vanish
// or cannot be stat'ed mid-walk are counted in Stats.Skipped and excluded;
// only a bad root is fatal.
func Run(ctx context.Context, opt Options, progressHook func(int64, int64)) ([]FileRecord, *Stats, error) {
	root, err := filepath.Abs(filepath.Clean(opt.Root))
	if err != nil {
		return nil, nil, fmt.Errorf("resolving %q: %w", opt.Root, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("accessing %q: %w", opt.Root, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("path %q is not a directory", opt.Root)
	}

	exclude := make(map[string]bool, len(opt.Exclude))
	for _, name := range opt.Exclude {
		exclude[strings.ToLower(name)] = true
	}

	coll := &collector{}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	startProgressReporter(ctx, coll, progressHook, opt.ProgressInterval)

	start := time.Now()

	conf := &fastwalk.Config{
		Follow: false, // never follow symlinks
	}

	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			debugf(opt.Debug, "error accessing %s: %v", path, err)
			coll.addSkipped()
			return nil
		}

		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		if d.IsDir() {
			if path != root && exclude[strings.ToLower(d.Name())] {
				debugf(opt.Debug, "excluding directory: %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			// Vanished or unreadable between enumeration and stat.
			debugf(opt.Debug, "cannot stat %s: %v", path, err)
			coll.addSkipped()
			return nil
		}

		if fileInfo.Size() < opt.MinSize {
			return nil
		}

		coll.add(FileRecord{
			Path:    path,
			Dir:     filepath.Dir(path),
			Size:    fileInfo.Size(),
			ModTime: fileInfo.ModTime(),
		})

		return nil
	})
	if walkErr != nil {
		return nil, nil, walkErr
	}

	records := coll.records
	sortRecords(records, opt.Order)

	stats := &Stats{
		Root:       root,
		FileCount:  int64(len(records)),
		TotalBytes: coll.totalBytes,
		Skipped:    coll.skipped,
		Elapsed:    time.Since(start),
	}

	return records, stats, nil
}

// sortRecords orders candidates by the requested key, largest or stalest
// first, with ties broken by path for deterministic output.
func sortRecords(records []FileRecord, order Order) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch order {
		case OrderAge:
			if !a.ModTime.Equal(b.ModTime) {
				return a.ModTime.Before(b.ModTime)
			}
		default: // OrderSize
			if a.Size != b.Size {
				return a.Size > b.Size
			}
		}
		return a.Path < b.Path
	})
}
