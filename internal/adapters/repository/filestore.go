package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	dataset "github.com/hearlab/audex/internal/domain/dataset"
	"github.com/hearlab/audex/pkg/logger"
	"github.com/hearlab/audex/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultRefreshInterval = 30 * time.Second
	defaultRetryWindow     = 30 * time.Second
)

// FileStore implements Store over the externally-owned flat dataset file.
// The file has no concurrent writers on our side; the snapshot is replaced
// wholesale when the file identity changes.
type FileStore struct {
	mu   sync.RWMutex
	path string

	snapshot Snapshot
	loaded   bool

	refreshInterval time.Duration
	retryWindow     time.Duration

	stopCh  chan struct{}
	stopped bool

	log logger.Logger
}

// NewFileStore creates a snapshot store for the given dataset path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:            path,
		refreshInterval: defaultRefreshInterval,
		retryWindow:     defaultRetryWindow,
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start performs the initial load and, when configured, launches the
// background refresh loop. The initial load retries with exponential
// backoff while the file is absent, since the data-preparation process
// owns the file and may still be writing it.
func (s *FileStore) Start(ctx context.Context) error {
	s.log = logger.Named("repository")

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = s.retryWindow

	load := func() error {
		err := s.load(ctx)
		if err != nil && !errors.Is(err, dataset.ErrNotFound) {
			// Schema errors will not heal by waiting; fail fast.
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.Retry(load, backoff.WithContext(policy, ctx)); err != nil {
		return fmt.Errorf("initial dataset load: %w", err)
	}

	if s.refreshInterval > 0 {
		go s.refreshLoop(ctx)
	}
	return nil
}

// Stop terminates the background refresh loop.
func (s *FileStore) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		close(s.stopCh)
	}
}

// Snapshot returns the current snapshot without touching the filesystem.
func (s *FileStore) Snapshot(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return Snapshot{}, ErrNotLoaded
	}
	return s.snapshot, nil
}

// Reload re-reads the file if mtime or size changed since the last load.
func (s *FileStore) Reload(ctx context.Context) (bool, error) {
	s.mu.RLock()
	stopped := s.stopped
	s.mu.RUnlock()
	if stopped {
		return false, ErrClosed
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", s.path, err)
	}

	s.mu.RLock()
	unchanged := s.loaded &&
		info.ModTime().Equal(s.snapshot.ModTime) &&
		info.Size() == s.snapshot.Size
	s.mu.RUnlock()
	if unchanged {
		return false, nil
	}

	if err := s.load(ctx); err != nil {
		return false, err
	}
	metrics.RecordDatasetRefresh()
	return true, nil
}

// Count returns the number of records in the current snapshot.
func (s *FileStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot.Records)
}

// load reads the file and installs a fresh snapshot.
func (s *FileStore) load(ctx context.Context) error {
	start := time.Now()
	records, err := dataset.Load(s.path)
	if err != nil {
		metrics.RecordDatasetLoadError()
		return err
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.snapshot = Snapshot{
		Records:  records,
		Path:     s.path,
		LoadedAt: time.Now(),
		ModTime:  info.ModTime(),
		Size:     info.Size(),
	}
	s.loaded = true
	s.mu.Unlock()

	metrics.RecordDatasetLoad()
	metrics.RecordDatasetLoadDuration(float64(time.Since(start).Milliseconds()))
	metrics.UpdateDatasetRecords(len(records))
	if s.log != nil {
		s.log.Info(ctx, "dataset snapshot installed",
			logger.String("path", s.path),
			logger.Int("records", len(records)))
	}
	return nil
}

// refreshLoop re-checks the file identity on a ticker until stopped.
func (s *FileStore) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			changed, err := s.Reload(ctx)
			if err != nil && s.log != nil {
				// A transient stat/parse failure keeps the last good snapshot.
				s.log.Warn(ctx, "dataset refresh failed", logger.Error(err))
				continue
			}
			if changed && s.log != nil {
				s.log.Info(ctx, "dataset file changed; snapshot refreshed")
			}
		}
	}
}
