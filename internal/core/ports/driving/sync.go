package driving

import (
	"context"

	"github.com/margin-labs/margin-cli/internal/core/domain"
)

// SyncOrchestrator coordinates the fetch -> merge -> link -> inject
// cycle. Every method is independently invocable; RunCycle threads the
// cycle-scoped name index from the merge step into the later steps,
// while the standalone entry points run with an empty index and rely on
// their fallback resolution paths.
//
// Cycles are serialised: a call made while another is in flight fails
// with domain.ErrSyncInProgress.
type SyncOrchestrator interface {
	// RunCycle runs the full cycle. An auto trigger is gated to at
	// most once per calendar day via the persisted last-sync-date
	// marker; manual triggers are ungated.
	RunCycle(ctx context.Context, trigger domain.SyncTrigger) (*CycleSummary, error)

	// SyncSources fetches and merges sources only.
	SyncSources(ctx context.Context) (*CycleSummary, error)

	// LinkTags fetches and links tags only.
	LinkTags(ctx context.Context) (*CycleSummary, error)

	// InjectReflection injects today's reflection only.
	InjectReflection(ctx context.Context) (*CycleSummary, error)

	// Status returns the progress of the cycle in flight, or an idle
	// status when none is.
	Status() *SyncStatus
}

// CycleSummary reports what one invocation did.
type CycleSummary struct {
	// SourcesSeen counts sources processed by the merge engine.
	SourcesSeen int

	// QuotesAdded counts newly appended highlight blocks.
	QuotesAdded int

	// TagsLinked counts newly materialised tag files.
	TagsLinked int

	// ReflectionAdded is true when a reflection block was injected.
	ReflectionAdded bool

	// Skipped is true when an auto cycle was gated by the once-per-day
	// marker and did nothing.
	Skipped bool

	// ErrorCount counts per-record failures that were skipped.
	ErrorCount int
}

// SyncStatus is the live progress of a running cycle.
type SyncStatus struct {
	// Running indicates a cycle is in flight.
	Running bool

	// Stage names the component currently running
	// ("sources", "tags", "reflection").
	Stage string

	// SourcesProcessed counts sources handled so far.
	SourcesProcessed int

	// ErrorCount counts per-record failures so far.
	ErrorCount int
}
