package core

import "os"

// Deleter abstracts the filesystem delete primitives so the session engine
// can be exercised in tests (and in --dry-run) without touching disk.
type Deleter interface {
	// Remove deletes a single file.
	Remove(path string) error

	// RemoveAll deletes a directory and everything under it.
	RemoveAll(path string) error
}

// OSDeleter performs real deletions via the os package.
type OSDeleter struct{}

func (OSDeleter) Remove(path string) error {
	return os.Remove(path)
}

func (OSDeleter) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// DryRunDeleter satisfies Deleter without deleting anything. Paths that
// would have been removed are recorded for reporting.
type DryRunDeleter struct {
	Removed []string
}

func (d *DryRunDeleter) Remove(path string) error {
	d.Removed = append(d.Removed, path)
	return nil
}

func (d *DryRunDeleter) RemoveAll(path string) error {
	d.Removed = append(d.Removed, path)
	return nil
}
