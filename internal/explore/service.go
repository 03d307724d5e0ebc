// Package explore provides the core exploration pipeline that implements
// the dependencies required by the HTTP API. Every interaction re-runs the
// full pipeline against the current dataset snapshot: filter, aggregate,
// then build render-ready views. The pipeline holds no state between runs.
package explore

import (
	"context"
	"fmt"
	"sync"
	"time"

	repository "github.com/hearlab/audex/internal/adapters/repository"
	aggregate "github.com/hearlab/audex/internal/domain/aggregate"
	dataset "github.com/hearlab/audex/internal/domain/dataset"
	model "github.com/hearlab/audex/internal/domain/model"
	views "github.com/hearlab/audex/internal/domain/views"
	"github.com/hearlab/audex/pkg/logger"
	"github.com/hearlab/audex/pkg/metrics"
)

// Service runs the exploration pipeline over the dataset snapshot store.
type Service struct {
	mu sync.RWMutex

	// Core components
	store repository.Store

	// Configuration
	datasetPath     string
	radarScale      views.RadarScale
	maxTableRows    int
	refreshInterval time.Duration
	retryWindow     time.Duration

	// State
	started   bool
	ownsStore bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects a pre-built snapshot store. The service will not
// start or stop an injected store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDatasetPath sets the dataset file the service loads at startup.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.datasetPath = path
		}
	}
}

// WithRadarScale sets the radial axis preset for radar charts.
func WithRadarScale(scale views.RadarScale) Option {
	return func(s *Service) {
		s.radarScale = scale
	}
}

// WithMaxTableRows caps the rows rendered into the records table.
// Zero means no cap.
func WithMaxTableRows(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxTableRows = n
		}
	}
}

// WithRefreshInterval sets the dataset file re-check interval.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval >= 0 {
			s.refreshInterval = interval
		}
	}
}

// WithRetryWindow bounds the startup retry while the dataset file appears.
func WithRetryWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.retryWindow = window
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		datasetPath:     "audiogram_df.csv",
		radarScale:      views.ClinicalScale(),
		maxTableRows:    1_000,
		refreshInterval: 30 * time.Second,
		retryWindow:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset snapshot and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("explore")
	}

	s.logger.Info(ctx, "starting explorer service",
		logger.String("dataset", s.datasetPath),
		logger.String("radarScale", s.radarScale.Name),
	)

	if s.store == nil {
		store := repository.NewFileStore(s.datasetPath,
			repository.WithRefreshInterval(s.refreshInterval),
			repository.WithRetryWindow(s.retryWindow),
		)
		if err := store.Start(ctx); err != nil {
			return fmt.Errorf("start dataset store: %w", err)
		}
		s.store = store
		s.ownsStore = true
	}

	s.started = true
	s.logger.Info(ctx, "explorer service started",
		logger.Int("records", s.store.Count(ctx)),
	)
	return nil
}

// Stop shuts down the service and any store it owns.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.ownsStore {
		if stopper, ok := s.store.(interface{ Stop() }); ok {
			stopper.Stop()
		}
	}
	s.started = false
	s.logger.Info(context.Background(), "explorer service stopped")
}

// Explore runs the full pipeline for one interaction: snapshot, filter,
// aggregate, views. The result is a pure function of the snapshot and the
// selection.
func (s *Service) Explore(ctx context.Context, sel Selection) (Result, error) {
	start := time.Now()
	metrics.RecordExploreRun()

	res, err := s.explore(ctx, sel)
	metrics.RecordExploreDuration(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordExploreError()
		s.log().Error(ctx, "explore run failed", logger.Error(err))
		return Result{}, err
	}
	return res, nil
}

func (s *Service) explore(ctx context.Context, sel Selection) (Result, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	sel = normalize(sel)

	filtered := dataset.Filter(snap.Records, sel.Categories)
	metrics.UpdateFilteredRows(len(filtered))
	if len(filtered) == 0 && len(snap.Records) > 0 {
		metrics.RecordEmptySelection()
	}

	groups, summaryCols, err := s.summarize(filtered, sel)
	if err != nil {
		return Result{}, err
	}
	radar, fallback := s.radar(filtered, sel)
	if fallback {
		metrics.RecordRadarFallback()
	}

	heatGroups, err := aggregate.GroupMeansWide(filtered, aggregate.DefaultSummaryColumns)
	if err != nil {
		return Result{}, err
	}

	tableRecords, truncated := capRows(filtered, s.maxTableRows)
	groupLabel := "Category"
	if sel.GroupBy == model.GroupByHLType {
		groupLabel = "HL Type"
	}

	return Result{
		Meta:      s.meta(snap, filtered),
		Records:   views.BuildRecordsTable("Audiogram Records", tableRecords),
		Summary:   views.BuildSummaryTable("Group Means", groupLabel, groups, summaryCols),
		Bar:       views.BuildGroupedBar("Mean Thresholds by Group", groups, summaryCols),
		Radar:     radar,
		Heatmap:   views.BuildHeatmap("Group Means Heatmap", heatGroups, wideNames(aggregate.DefaultSummaryColumns)),
		Groups:    groups,
		Fallback:  fallback,
		Truncated: truncated,
	}, nil
}

// summarize computes group means for the selection: wide by Category, or
// long per-ear rows when grouping by HL type.
func (s *Service) summarize(filtered []model.AudiogramRecord, sel Selection) ([]model.GroupSummary, []string, error) {
	switch sel.GroupBy {
	case model.GroupByCategory:
		cols := wideColumns(sel.Metrics)
		groups, err := aggregate.GroupMeansWide(filtered, cols)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrBadSelection, err)
		}
		return groups, wideNames(cols), nil
	case model.GroupByHLType:
		ears := aggregate.Reshape(filtered)
		groups, err := aggregate.GroupMeansByEar(ears, sel.GroupBy, sel.Metrics)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrBadSelection, err)
		}
		return groups, metricNames(sel.Metrics), nil
	}
	return nil, nil, fmt.Errorf("%w: unknown grouping column %q", ErrBadSelection, sel.GroupBy)
}

// radar builds the radar chart for the selection. A requested patient
// missing from the filtered set falls back to the first patient present,
// so a stale selection still renders something coherent.
func (s *Service) radar(filtered []model.AudiogramRecord, sel Selection) (*views.RadarConfig, bool) {
	if sel.PatientID != "" || sel.RadarMode == RadarModeIsolated {
		return s.patientRadar(filtered, sel)
	}
	return s.groupRadar(filtered, sel), false
}

func (s *Service) patientRadar(filtered []model.AudiogramRecord, sel Selection) (*views.RadarConfig, bool) {
	if len(filtered) == 0 {
		return views.BuildRadarChart("Patient Audiometric Profile", nil, s.radarScale), false
	}

	rec, ok := dataset.SelectPatient(filtered, sel.PatientID)
	fallback := false
	if !ok {
		rec = filtered[0]
		fallback = true
	}

	var vec model.RadarVector
	title := "Patient Audiometric Profile"
	if sel.RadarMode == RadarModeIsolated {
		vec = aggregate.MetricRadar(rec, sel.IsolatedMetric)
		title = fmt.Sprintf("Isolated %s Profile", sel.IsolatedMetric)
	} else {
		vec = aggregate.PatientRadar(rec)
	}
	return views.BuildRadarChart(title, []model.RadarVector{vec}, s.radarScale), fallback
}

func (s *Service) groupRadar(filtered []model.AudiogramRecord, sel Selection) *views.RadarConfig {
	sums, err := aggregate.GroupMeansWide(filtered, aggregate.RadarColumns)
	if err != nil {
		// RadarColumns only touch known metric/ear combinations.
		return views.BuildRadarChart("Group Audiometric Profiles", nil, s.radarScale)
	}

	vectors := make([]model.RadarVector, 0, len(sums))
	for _, sum := range sums {
		if sel.RadarGroup != "" && sum.Group != sel.RadarGroup {
			continue
		}
		vectors = append(vectors, aggregate.GroupRadar(sum))
	}
	return views.BuildRadarChart("Group Audiometric Profiles", vectors, s.radarScale)
}

// meta lists selection-control values from the filtered set plus snapshot
// provenance. Categories always come from the full snapshot so unchecking
// one never removes it from the control.
func (s *Service) meta(snap repository.Snapshot, filtered []model.AudiogramRecord) Meta {
	return Meta{
		Categories: dataset.DistinctCategories(snap.Records),
		HLTypes:    dataset.DistinctHLTypes(filtered),
		PatientIDs: dataset.PatientIDs(filtered),
		Dataset: DatasetInfo{
			Path:     snap.Path,
			LoadedAt: snap.LoadedAt,
			Records:  len(snap.Records),
		},
	}
}

func (s *Service) snapshot(ctx context.Context) (repository.Snapshot, error) {
	s.mu.RLock()
	started := s.started
	store := s.store
	s.mu.RUnlock()
	if !started {
		return repository.Snapshot{}, ErrNotStarted
	}
	return store.Snapshot(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"datasetPath":  s.datasetPath,
		"radarScale":   s.radarScale.Name,
		"maxTableRows": s.maxTableRows,
	}
	if s.started {
		ctx := context.Background()
		stats["records"] = s.store.Count(ctx)
		if snap, err := s.store.Snapshot(ctx); err == nil {
			stats["loadedAt"] = snap.LoadedAt
			stats["path"] = snap.Path
		}
	}
	return stats
}

// log returns the configured logger, falling back to the global one so
// error paths before Start stay safe.
func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger != nil {
		return s.logger
	}
	return logger.Get()
}

// normalize fills selection defaults.
func normalize(sel Selection) Selection {
	if sel.GroupBy == "" {
		sel.GroupBy = model.GroupByCategory
	}
	if len(sel.Metrics) == 0 {
		sel.Metrics = []model.Metric{model.MetricPTA, model.MetricWRS}
	}
	if sel.RadarMode == "" {
		sel.RadarMode = RadarModeCombined
	}
	if sel.RadarMode == RadarModeIsolated && sel.IsolatedMetric == "" {
		sel.IsolatedMetric = model.MetricPTA
	}
	return sel
}

// wideColumns expands per-ear wide columns for each metric, right ear
// first to match the schema column order.
func wideColumns(ms []model.Metric) []aggregate.WideColumn {
	cols := make([]aggregate.WideColumn, 0, 2*len(ms))
	for _, m := range ms {
		cols = append(cols,
			aggregate.WideColumn{Metric: m, Ear: model.EarRight},
			aggregate.WideColumn{Metric: m, Ear: model.EarLeft},
		)
	}
	return cols
}

func wideNames(cols []aggregate.WideColumn) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	return names
}

func metricNames(ms []model.Metric) []string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = string(m)
	}
	return names
}

func capRows(records []model.AudiogramRecord, limit int) ([]model.AudiogramRecord, bool) {
	if limit <= 0 || len(records) <= limit {
		return records, false
	}
	return records[:limit], true
}
