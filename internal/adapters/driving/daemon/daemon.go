// Package daemon runs the background watch mode: a filesystem watcher
// on the daily notes folder plus a periodic automatic sync tick.
package daemon

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driving"
	"github.com/margin-labs/margin-cli/internal/logger"
)

// DefaultInterval is how often the daemon attempts an automatic sync.
// The orchestrator's once-per-day gate makes frequent ticks harmless.
const DefaultInterval = time.Hour

// Daemon watches the vault and keeps it synced while running.
type Daemon struct {
	orch      driving.SyncOrchestrator
	settings  driving.SettingsService
	vaultRoot string
	interval  time.Duration
}

// New creates a daemon. vaultRoot is the absolute filesystem path of
// the vault; the daily notes folder is resolved beneath it.
func New(orch driving.SyncOrchestrator, settings driving.SettingsService, vaultRoot string) *Daemon {
	return &Daemon{
		orch:      orch,
		settings:  settings,
		vaultRoot: vaultRoot,
		interval:  DefaultInterval,
	}
}

// Run blocks until ctx is cancelled. One sync attempt runs immediately,
// then on every tick; daily note creation triggers a reflection check.
func (d *Daemon) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dailyDir := d.dailyDir()
	if dailyDir != "" {
		if err := watcher.Add(dailyDir); err != nil {
			logger.Warn("watch %s: %v", dailyDir, err)
		} else {
			logger.Info("watching %s", dailyDir)
		}
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.trySync(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			d.trySync(ctx)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) && strings.HasSuffix(event.Name, ".md") {
				logger.Debug("daily note event: %s", event.Name)
				d.tryReflect(ctx)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// dailyDir resolves the configured daily notes folder to a filesystem
// path, empty when unconfigured.
func (d *Daemon) dailyDir() string {
	settings, err := d.settings.Get()
	if err != nil || settings.DailyNotesFolder == "" {
		return ""
	}
	return filepath.Join(d.vaultRoot, filepath.FromSlash(settings.DailyNotesFolder))
}

func (d *Daemon) trySync(ctx context.Context) {
	summary, err := d.orch.RunCycle(ctx, domain.TriggerWatch)
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		logger.Debug("sync already running, skipping tick")
	case err != nil:
		logger.Warn("watch sync: %v", err)
	case summary != nil && !summary.Skipped:
		logger.Info("watch sync: %d new highlights", summary.QuotesAdded)
	}
}

func (d *Daemon) tryReflect(ctx context.Context) {
	summary, err := d.orch.InjectReflection(ctx)
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		logger.Debug("sync running, reflection deferred to next event")
	case errors.Is(err, domain.ErrDailyNoteMissing), errors.Is(err, domain.ErrMissingPrerequisite):
		logger.Debug("reflection not applicable: %v", err)
	case err != nil:
		logger.Warn("watch reflection: %v", err)
	case summary != nil && summary.ReflectionAdded:
		logger.Info("reflection added to today's note")
	}
}
