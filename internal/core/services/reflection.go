package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
	"github.com/margin-labs/margin-cli/internal/logger"
)

// ReflectionInjector appends the daily reflection block to the
// externally-owned daily note, at most once per calendar day.
type ReflectionInjector struct {
	vault driven.Vault

	// now is swappable for tests.
	now func() time.Time
}

// NewReflectionInjector creates a new reflection injector.
func NewReflectionInjector(vault driven.Vault) *ReflectionInjector {
	return &ReflectionInjector{vault: vault, now: time.Now}
}

// Run injects the reflection into today's daily note. Returns true when
// a block was appended, false when one was already present.
//
// The daily note is owned by the user: a missing note fails with
// domain.ErrDailyNoteMissing, unset daily-note settings with
// domain.ErrMissingPrerequisite. Both are reported by the caller and
// leave the rest of the cycle untouched.
func (r *ReflectionInjector) Run(ctx context.Context, settings domain.SyncSettings, refl *domain.DailyReflection, names domain.NameIndex) (bool, error) {
	if refl == nil {
		return false, nil
	}
	if settings.DailyNotesFolder == "" {
		return false, fmt.Errorf("daily notes folder unset: %w", domain.ErrMissingPrerequisite)
	}
	if settings.DailyNoteFormat == "" {
		return false, fmt.Errorf("daily note date format unset: %w", domain.ErrMissingPrerequisite)
	}

	notePath := settings.DailyNotesFolder + "/" + domain.FormatDate(r.now(), settings.DailyNoteFormat) + ".md"

	exists, err := r.vault.Exists(ctx, notePath)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", notePath, err)
	}
	if !exists {
		return false, fmt.Errorf("%s: %w", notePath, domain.ErrDailyNoteMissing)
	}

	text, err := r.vault.Read(ctx, notePath)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", notePath, err)
	}

	// Presence mode mirrors quote identity: marker scan when a template
	// is configured, the fixed heading otherwise.
	var present bool
	if settings.ReflectionTemplate != "" {
		present = domain.HasMarked(text)
	} else {
		present = strings.Contains(text, domain.FallbackReflectionHeading)
	}
	if present {
		logger.Debug("reflection already present in %s", notePath)
		return false, nil
	}

	block := renderReflectionBlock(settings, refl, names)
	if err := r.vault.Modify(ctx, notePath, text+block); err != nil {
		return false, fmt.Errorf("modify %s: %w", notePath, err)
	}

	logger.Info("reflection injected into %s", notePath)
	return true, nil
}
