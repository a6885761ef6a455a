package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls   int
	changed []string
	removed []string
}

func (r *recorder) handle(changed, removed []string) {
	r.calls++
	r.changed = changed
	r.removed = removed
}

func TestScanReportsChanges(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.blade.php")
	require.NoError(t, os.WriteFile(existing, []byte("<p>a</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	rec := &recorder{}
	w := NewWatcher([]string{dir}, rec.handle)
	w.snapshot()

	w.Scan()
	assert.Equal(t, 0, rec.calls, "nothing changed since the snapshot")

	added := filepath.Join(dir, "views", "b.blade.php")
	require.NoError(t, os.MkdirAll(filepath.Dir(added), 0o755))
	require.NoError(t, os.WriteFile(added, []byte("<p>b</p>"), 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(existing, later, later))

	w.Scan()
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, []string{existing, added}, rec.changed)
	assert.Empty(t, rec.removed)

	require.NoError(t, os.Remove(existing))
	w.Scan()
	assert.Equal(t, 2, rec.calls)
	assert.Empty(t, rec.changed)
	assert.Equal(t, []string{existing}, rec.removed)
}

func TestScanSkipsHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w := NewWatcher([]string{dir}, rec.handle)
	w.snapshot()

	hidden := filepath.Join(dir, ".cache", "c.blade.php")
	require.NoError(t, os.MkdirAll(filepath.Dir(hidden), 0o755))
	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0o644))

	w.Scan()
	assert.Equal(t, 0, rec.calls)
}

func TestWatchSingleFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	rec := &recorder{}
	w := NewWatcher([]string{file}, rec.handle)
	w.snapshot()

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(file, later, later))
	w.Scan()
	assert.Equal(t, []string{file}, rec.changed)
}

func TestStartStop(t *testing.T) {
	w := NewWatcher([]string{t.TempDir()}, func(changed, removed []string) {})
	w.SetInterval(10 * time.Millisecond)
	w.Start()
	time.Sleep(30 * time.Millisecond)
	w.Stop()
}
