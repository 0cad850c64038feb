package spool

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driving"
)

type recordingIngestor struct {
	mu       sync.Mutex
	batches  [][]domain.Item
	failures []driving.ThreadFailure
}

func (r *recordingIngestor) Import(_ context.Context, items []domain.Item) (*driving.ImportReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, items)

	report := &driving.ImportReport{Failures: r.failures}
	if len(r.failures) == 0 {
		for _, item := range items {
			report.ItemIDs = append(report.ItemIDs, item.ID)
		}
	}
	return report, nil
}

func (r *recordingIngestor) batchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func (r *recordingIngestor) firstBatch() []domain.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[0]
}

func startWatcher(t *testing.T, dir string, ingestor driving.Ingestor) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	w := NewWatcher(dir, ingestor, WithDebounce(10*time.Millisecond))
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestWatcherImportsDroppedFile(t *testing.T) {
	dir := t.TempDir()
	ingestor := &recordingIngestor{}
	startWatcher(t, dir, ingestor)

	path := filepath.Join(dir, "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleBatch), 0600))

	require.Eventually(t, func() bool {
		return ingestor.batchCount() == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.Len(t, ingestor.firstBatch(), 3)
	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, 5*time.Second, 10*time.Millisecond, "imported file is removed")
}

func TestWatcherDrainsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pending.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleBatch), 0600))

	ingestor := &recordingIngestor{}
	startWatcher(t, dir, ingestor)

	require.Eventually(t, func() bool {
		return ingestor.batchCount() == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcherLeavesMalformedFile(t *testing.T) {
	dir := t.TempDir()
	ingestor := &recordingIngestor{}
	startWatcher(t, dir, ingestor)

	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, ingestor.batchCount())
	_, err := os.Stat(path)
	assert.NoError(t, err, "malformed file stays for inspection")
}

func TestWatcherLeavesFileOnThreadFailure(t *testing.T) {
	dir := t.TempDir()
	ingestor := &recordingIngestor{
		failures: []driving.ThreadFailure{{ThreadKey: "k", Err: domain.ErrInvalidInput}},
	}
	startWatcher(t, dir, ingestor)

	path := filepath.Join(dir, "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleBatch), 0600))

	require.Eventually(t, func() bool {
		return ingestor.batchCount() == 1
	}, 5*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	ingestor := &recordingIngestor{}
	startWatcher(t, dir, ingestor)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, ingestor.batchCount())
}
