package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chonklab/antichonk/internal/scan"
)

// fakeDeleter records delete calls and can be told to fail on a path.
type fakeDeleter struct {
	removed    []string
	removedAll []string
	failOn     map[string]error
}

func (f *fakeDeleter) Remove(path string) error {
	if err := f.failOn[path]; err != nil {
		return err
	}
	f.removed = append(f.removed, path)
	return nil
}

func (f *fakeDeleter) RemoveAll(path string) error {
	if err := f.failOn[path]; err != nil {
		return err
	}
	f.removedAll = append(f.removedAll, path)
	return nil
}

// writeFile creates a file of the given size under root and returns its record.
func writeFile(t *testing.T, root, rel string, size int) scan.FileRecord {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	return scan.FileRecord{
		Path:    path,
		Dir:     filepath.Dir(path),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

func TestParseDecision(t *testing.T) {
	cases := []struct {
		input string
		want  Decision
	}{
		{"d", DeleteFile},
		{"d\n", DeleteFile},
		{"D", DeleteDirectory},
		{"s", SkipFile},
		{"S", SkipDirectory},
		{"?", Help},
		{"q", Quit},
		{"Q", Quit},
		{"", Invalid},
		{"x", Invalid},
		{"delete", DeleteFile}, // only the first rune counts
		{"7", Invalid},
	}
	for _, tc := range cases {
		if got := ParseDecision(tc.input); got != tc.want {
			t.Errorf("ParseDecision(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestPruneSet_AncestorsArePruned(t *testing.T) {
	p := NewPruneSet()
	p.Add("/data/sub")

	if !p.Pruned("/data/sub") {
		t.Error("pruned directory itself should be pruned")
	}
	if !p.Pruned("/data/sub/deep/deeper") {
		t.Error("descendant of pruned directory should be pruned")
	}
	if p.Pruned("/data/other") {
		t.Error("sibling directory should not be pruned")
	}
	if p.Pruned("/data") {
		t.Error("parent of pruned directory should not be pruned")
	}
}

func TestSession_SkipAdvancesExactlyOne(t *testing.T) {
	root := t.TempDir()
	records := []scan.FileRecord{
		writeFile(t, root, "a.txt", 10),
		writeFile(t, root, "b.txt", 10),
		writeFile(t, root, "c.txt", 10),
	}
	del := &fakeDeleter{}
	s := New(root, records, del)

	for i := 0; i < len(records); i++ {
		rec, ok := s.Next()
		if !ok {
			t.Fatalf("Next returned no record at step %d", i)
		}
		if rec.Path != records[i].Path {
			t.Errorf("step %d: got %s, want %s", i, rec.Path, records[i].Path)
		}
		res := s.Apply(rec, SkipFile)
		if !res.Advance {
			t.Error("SkipFile should advance")
		}
	}
	if _, ok := s.Next(); ok {
		t.Error("sequence should be exhausted")
	}
	if len(del.removed)+len(del.removedAll) != 0 {
		t.Error("skip must never delete")
	}
	if sum := s.Summary(); sum.SkippedFiles != 3 || sum.Reviewed != 3 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

func TestSession_HelpAndInvalidDoNotAdvance(t *testing.T) {
	root := t.TempDir()
	records := []scan.FileRecord{writeFile(t, root, "a.txt", 10)}
	s := New(root, records, &fakeDeleter{})

	rec, _ := s.Next()
	for _, d := range []Decision{Help, Invalid} {
		if res := s.Apply(rec, d); res.Advance {
			t.Errorf("decision %v must not advance", d)
		}
	}
	again, ok := s.Next()
	if !ok || again.Path != rec.Path {
		t.Error("record should be re-presented after help/invalid input")
	}
}

func TestSession_DeleteFileCountsBytes(t *testing.T) {
	root := t.TempDir()
	records := []scan.FileRecord{writeFile(t, root, "big.bin", 1000)}
	del := &fakeDeleter{}
	s := New(root, records, del)

	rec, _ := s.Next()
	res := s.Apply(rec, DeleteFile)
	if !res.Advance || res.Warning != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(del.removed) != 1 || del.removed[0] != rec.Path {
		t.Errorf("deleter not invoked on %s", rec.Path)
	}
	sum := s.Summary()
	if sum.DeletedFiles != 1 || sum.BytesReclaimed != 1000 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

func TestSession_DeleteFileFailureContinues(t *testing.T) {
	root := t.TempDir()
	records := []scan.FileRecord{
		writeFile(t, root, "a.txt", 10),
		writeFile(t, root, "b.txt", 10),
	}
	del := &fakeDeleter{failOn: map[string]error{records[0].Path: errors.New("permission denied")}}
	s := New(root, records, del)

	rec, _ := s.Next()
	res := s.Apply(rec, DeleteFile)
	if !res.Advance {
		t.Error("failed delete must still advance")
	}
	if res.Warning == "" {
		t.Error("failed delete must produce a warning")
	}
	if next, ok := s.Next(); !ok || next.Path != records[1].Path {
		t.Error("session should continue to the next record")
	}
	if sum := s.Summary(); sum.DeletedFiles != 0 || sum.BytesReclaimed != 0 {
		t.Errorf("failed delete must not count as reclaimed: %+v", sum)
	}
}

func TestSession_SkipDirectoryPrunesDescendants(t *testing.T) {
	root := t.TempDir()
	records := []scan.FileRecord{
		writeFile(t, root, "sub/one.txt", 30),
		writeFile(t, root, "keep.txt", 20),
		writeFile(t, root, "sub/two.txt", 10),
		writeFile(t, root, "sub/nested/three.txt", 5),
	}
	s := New(root, records, &fakeDeleter{})

	rec, _ := s.Next()
	s.Apply(rec, SkipDirectory)

	next, ok := s.Next()
	if !ok {
		t.Fatal("keep.txt should still be presented")
	}
	if next.Path != records[1].Path {
		t.Errorf("got %s, want %s", next.Path, records[1].Path)
	}
	s.Apply(next, SkipFile)

	if rec, ok := s.Next(); ok {
		t.Errorf("records under pruned directory must not be presented, got %s", rec.Path)
	}
	sum := s.Summary()
	if sum.Dropped != 2 {
		t.Errorf("expected 2 dropped records, got %d", sum.Dropped)
	}
}

func TestSession_DeleteDirectoryPartialFailureStillPrunes(t *testing.T) {
	root := t.TempDir()
	records := []scan.FileRecord{
		writeFile(t, root, "sub/one.txt", 30),
		writeFile(t, root, "sub/two.txt", 10),
		writeFile(t, root, "after.txt", 5),
	}
	dir := records[0].Dir
	del := &fakeDeleter{failOn: map[string]error{dir: errors.New("directory not empty")}}
	s := New(root, records, del)

	rec, _ := s.Next()
	res := s.Apply(rec, DeleteDirectory)
	if !res.Advance || res.Warning == "" {
		t.Fatalf("partial failure should warn and advance: %+v", res)
	}

	next, ok := s.Next()
	if !ok || next.Path != records[2].Path {
		t.Error("session should continue at the next non-pruned record")
	}
	if sum := s.Summary(); sum.DeletedDirs != 0 || sum.Dropped != 1 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

func TestSession_DeleteDirectoryReclaimsPendingBytes(t *testing.T) {
	root := t.TempDir()
	records := []scan.FileRecord{
		writeFile(t, root, "sub/one.txt", 30),
		writeFile(t, root, "other.txt", 20),
		writeFile(t, root, "sub/two.txt", 10),
		writeFile(t, root, "sub/nested/three.txt", 7),
	}
	del := &fakeDeleter{}
	s := New(root, records, del)

	rec, _ := s.Next()
	res := s.Apply(rec, DeleteDirectory)
	if !res.Advance || res.Warning != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(del.removedAll) != 1 || del.removedAll[0] != rec.Dir {
		t.Errorf("RemoveAll not invoked on %s", rec.Dir)
	}
	sum := s.Summary()
	if want := int64(30 + 10 + 7); sum.BytesReclaimed != want {
		t.Errorf("BytesReclaimed = %d, want %d", sum.BytesReclaimed, want)
	}
	if sum.DeletedDirs != 1 {
		t.Errorf("DeletedDirs = %d, want 1", sum.DeletedDirs)
	}
}

func TestSession_DeleteDirectoryIgnoresVanishedBytes(t *testing.T) {
	root := t.TempDir()
	records := []scan.FileRecord{
		writeFile(t, root, "sub/one.txt", 30),
		writeFile(t, root, "sub/gone.txt", 50),
		writeFile(t, root, "sub/two.txt", 10),
	}
	// gone.txt disappears out-of-band between scan and decision.
	if err := os.Remove(records[1].Path); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	del := &fakeDeleter{}
	s := New(root, records, del)

	rec, _ := s.Next()
	if res := s.Apply(rec, DeleteDirectory); !res.Advance || res.Warning != "" {
		t.Fatalf("unexpected result: %+v", res)
	}

	sum := s.Summary()
	if want := int64(30 + 10); sum.BytesReclaimed != want {
		t.Errorf("BytesReclaimed = %d, want %d (vanished file must not count)", sum.BytesReclaimed, want)
	}
}

func TestSession_DeleteDirectoryOnScanRootRefused(t *testing.T) {
	root := t.TempDir()
	records := []scan.FileRecord{writeFile(t, root, "big.log", 1000)}
	del := &fakeDeleter{}
	s := New(root, records, del)

	rec, _ := s.Next()
	res := s.Apply(rec, DeleteDirectory)
	if res.Advance {
		t.Error("refused directory delete must not advance")
	}
	if res.Warning == "" {
		t.Error("refusal must be reported")
	}
	if len(del.removed)+len(del.removedAll) != 0 {
		t.Error("nothing may be deleted")
	}
	if again, ok := s.Next(); !ok || again.Path != rec.Path {
		t.Error("the record must be presented again")
	}
}

func TestSession_OutOfBandDeletionDroppedSilently(t *testing.T) {
	root := t.TempDir()
	records := []scan.FileRecord{
		writeFile(t, root, "gone.txt", 10),
		writeFile(t, root, "here.txt", 10),
	}
	if err := os.Remove(records[0].Path); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	s := New(root, records, &fakeDeleter{})
	rec, ok := s.Next()
	if !ok || rec.Path != records[1].Path {
		t.Errorf("vanished file should be skipped, got %v %v", rec.Path, ok)
	}
	if sum := s.Summary(); sum.Dropped != 1 || len(sum.Warnings) != 0 {
		t.Errorf("vanished file should drop silently: %+v", sum)
	}
}

// End-to-end: /root/big.log (1000B), /root/sub/old.txt (10B, old),
// /root/sub/new.txt (10B, recent) reviewed in size order.
func TestSession_EndToEndSizeMode(t *testing.T) {
	root := t.TempDir()
	big := writeFile(t, root, "big.log", 1000)
	oldRec := writeFile(t, root, "sub/old.txt", 10)
	newRec := writeFile(t, root, "sub/new.txt", 10)

	past := time.Now().Add(-4000 * time.Hour)
	if err := os.Chtimes(oldRec.Path, past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	// Size order, ties broken by path: new.txt < old.txt.
	records := []scan.FileRecord{big, newRec, oldRec}
	del := &fakeDeleter{}
	s := New(root, records, del)

	rec, _ := s.Next()
	if rec.Path != big.Path {
		t.Fatalf("first candidate = %s, want big.log", rec.Path)
	}

	// D on a root-level file is refused; d deletes the file itself.
	if res := s.Apply(rec, DeleteDirectory); res.Advance || res.Warning == "" {
		t.Fatalf("D on root-level file should refuse: %+v", res)
	}
	rec, _ = s.Next()
	s.Apply(rec, DeleteFile)

	rec, _ = s.Next()
	s.Apply(rec, SkipFile)
	rec, _ = s.Next()
	s.Apply(rec, SkipFile)

	if _, ok := s.Next(); ok {
		t.Error("sequence should be exhausted")
	}
	sum := s.Summary()
	if sum.DeletedFiles != 1 || sum.SkippedFiles != 2 || sum.BytesReclaimed != 1000 {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if len(del.removed) != 1 || del.removed[0] != big.Path {
		t.Errorf("only big.log should be deleted, got %v", del.removed)
	}
}
