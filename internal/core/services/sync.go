package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
	"github.com/margin-labs/margin-cli/internal/core/ports/driving"
	"github.com/margin-labs/margin-cli/internal/logger"
)

// SyncService orchestrates sync cycles: fetch from the remote service,
// merge sources, link tags, inject the daily reflection. Cycles are
// serialised by a try-lock; concurrent callers fail fast with
// domain.ErrSyncInProgress instead of queueing.
type SyncService struct {
	api      driven.HighlightsAPI
	settings driving.SettingsService
	merge    *MergeEngine
	tags     *TagLinker
	refl     *ReflectionInjector
	history  driven.HistoryStore

	// running serialises cycles.
	running sync.Mutex

	// statusMu guards status.
	statusMu sync.RWMutex
	status   driving.SyncStatus

	// now is swappable for tests.
	now func() time.Time
}

var _ driving.SyncOrchestrator = (*SyncService)(nil)

// NewSyncService creates a new sync orchestrator. history may be nil to
// disable the run journal.
func NewSyncService(api driven.HighlightsAPI, settings driving.SettingsService, vault driven.Vault, history driven.HistoryStore) *SyncService {
	return &SyncService{
		api:      api,
		settings: settings,
		merge:    NewMergeEngine(vault),
		tags:     NewTagLinker(vault),
		refl:     NewReflectionInjector(vault),
		history:  history,
		now:      time.Now,
	}
}

// RunCycle runs the full fetch -> merge -> link -> inject cycle.
func (s *SyncService) RunCycle(ctx context.Context, trigger domain.SyncTrigger) (*driving.CycleSummary, error) {
	if !s.running.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.running.Unlock()

	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	today := domain.FormatDate(s.now(), domain.DefaultDateFormat)
	if trigger != domain.TriggerManual {
		if !settings.AutoSync {
			logger.Debug("auto sync disabled, skipping %s cycle", trigger)
			return &driving.CycleSummary{Skipped: true}, nil
		}
		if settings.LastSyncDate == today {
			logger.Debug("already synced today (%s), skipping %s cycle", today, trigger)
			return &driving.CycleSummary{Skipped: true}, nil
		}
	}

	started := s.now()
	summary, cycleErr := s.cycle(ctx, *settings)

	run := domain.SyncRun{
		ID:         uuid.NewString(),
		Trigger:    trigger,
		StartedAt:  started,
		FinishedAt: s.now(),
	}
	if summary != nil {
		run.SourcesSeen = summary.SourcesSeen
		run.QuotesAdded = summary.QuotesAdded
		run.TagsLinked = summary.TagsLinked
		run.ReflectionAdded = summary.ReflectionAdded
		run.ErrorCount = summary.ErrorCount
	}
	if cycleErr != nil {
		run.Err = cycleErr.Error()
	}
	s.record(ctx, run)

	if cycleErr != nil {
		return summary, cycleErr
	}

	if trigger != domain.TriggerManual {
		if err := s.settings.SetLastSyncDate(today); err != nil {
			logger.Warn("persist last sync date: %v", err)
		}
	}
	return summary, nil
}

// cycle runs the three stages under an already-held lock, threading the
// merge step's name index into the later stages.
func (s *SyncService) cycle(ctx context.Context, settings domain.SyncSettings) (*driving.CycleSummary, error) {
	summary := &driving.CycleSummary{}
	defer s.setIdle()

	s.setStage("sources", 0, 0)
	logger.Section("Syncing sources")
	sources, err := s.api.FetchSources(ctx)
	if err != nil {
		return summary, fmt.Errorf("fetch sources: %w", err)
	}
	names, mergeStats, err := s.merge.Run(ctx, settings, sources)
	summary.SourcesSeen = mergeStats.SourcesSeen
	summary.QuotesAdded = mergeStats.QuotesAdded
	summary.ErrorCount += mergeStats.ErrorCount
	if err != nil {
		return summary, fmt.Errorf("merge sources: %w", err)
	}

	s.setStage("tags", summary.SourcesSeen, summary.ErrorCount)
	logger.Section("Linking tags")
	tags, err := s.api.FetchTags(ctx)
	if err != nil {
		return summary, fmt.Errorf("fetch tags: %w", err)
	}
	tagStats, err := s.tags.Run(ctx, settings, tags, names)
	summary.TagsLinked = tagStats.TagsLinked
	summary.ErrorCount += tagStats.ErrorCount
	if err != nil {
		return summary, fmt.Errorf("link tags: %w", err)
	}

	s.setStage("reflection", summary.SourcesSeen, summary.ErrorCount)
	logger.Section("Injecting daily reflection")
	if err := s.injectInto(ctx, settings, names, summary); err != nil {
		// The daily note is user-owned; its absence or unset location
		// degrades the cycle instead of failing it.
		if errors.Is(err, domain.ErrDailyNoteMissing) || errors.Is(err, domain.ErrMissingPrerequisite) {
			logger.Warn("reflection skipped: %v", err)
			summary.ErrorCount++
		} else {
			return summary, fmt.Errorf("inject reflection: %w", err)
		}
	}

	return summary, nil
}

// injectInto fetches today's reflection and injects it, recording the
// outcome on summary.
func (s *SyncService) injectInto(ctx context.Context, settings domain.SyncSettings, names domain.NameIndex, summary *driving.CycleSummary) error {
	refl, err := s.api.FetchDailyReflection(ctx)
	if err != nil {
		return fmt.Errorf("fetch reflection: %w", err)
	}
	if refl == nil {
		logger.Debug("no reflection offered today")
		return nil
	}
	added, err := s.refl.Run(ctx, settings, refl, names)
	if err != nil {
		return err
	}
	summary.ReflectionAdded = added
	return nil
}

// SyncSources fetches and merges sources only.
func (s *SyncService) SyncSources(ctx context.Context) (*driving.CycleSummary, error) {
	if !s.running.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.running.Unlock()
	defer s.setIdle()

	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	s.setStage("sources", 0, 0)
	sources, err := s.api.FetchSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch sources: %w", err)
	}
	_, stats, err := s.merge.Run(ctx, *settings, sources)
	summary := &driving.CycleSummary{
		SourcesSeen: stats.SourcesSeen,
		QuotesAdded: stats.QuotesAdded,
		ErrorCount:  stats.ErrorCount,
	}
	if err != nil {
		return summary, fmt.Errorf("merge sources: %w", err)
	}
	return summary, nil
}

// LinkTags fetches and links tags only. Without a same-cycle merge the
// linker runs with an empty name index and relies on its fallback
// resolution paths.
func (s *SyncService) LinkTags(ctx context.Context) (*driving.CycleSummary, error) {
	if !s.running.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.running.Unlock()
	defer s.setIdle()

	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	s.setStage("tags", 0, 0)
	tags, err := s.api.FetchTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tags: %w", err)
	}
	stats, err := s.tags.Run(ctx, *settings, tags, domain.NameIndex{})
	summary := &driving.CycleSummary{
		TagsLinked: stats.TagsLinked,
		ErrorCount: stats.ErrorCount,
	}
	if err != nil {
		return summary, fmt.Errorf("link tags: %w", err)
	}
	return summary, nil
}

// InjectReflection injects today's reflection only.
func (s *SyncService) InjectReflection(ctx context.Context) (*driving.CycleSummary, error) {
	if !s.running.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.running.Unlock()
	defer s.setIdle()

	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	s.setStage("reflection", 0, 0)
	summary := &driving.CycleSummary{}
	if err := s.injectInto(ctx, *settings, domain.NameIndex{}, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

// Status returns the progress of the cycle in flight.
func (s *SyncService) Status() *driving.SyncStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	status := s.status
	return &status
}

func (s *SyncService) setStage(stage string, processed, errs int) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status = driving.SyncStatus{
		Running:          true,
		Stage:            stage,
		SourcesProcessed: processed,
		ErrorCount:       errs,
	}
}

func (s *SyncService) setIdle() {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status = driving.SyncStatus{}
}

// record journals a finished run. Best effort: journal failures are
// logged, never surfaced.
func (s *SyncService) record(ctx context.Context, run domain.SyncRun) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, run); err != nil {
		logger.Warn("record sync run: %v", err)
	}
}
