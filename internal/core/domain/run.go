package domain

import "time"

// SyncTrigger identifies what started a sync cycle.
type SyncTrigger string

// Available triggers.
const (
	// TriggerManual is a user-invoked cycle; never gated.
	TriggerManual SyncTrigger = "manual"

	// TriggerAuto is the once-per-day automatic cycle.
	TriggerAuto SyncTrigger = "auto"

	// TriggerWatch is a cycle started by the watch daemon.
	TriggerWatch SyncTrigger = "watch"
)

// SyncRun is the journal record of one finished cycle.
type SyncRun struct {
	// ID is a generated run identifier.
	ID string

	Trigger SyncTrigger

	StartedAt  time.Time
	FinishedAt time.Time

	// SourcesSeen counts sources processed by the merge engine.
	SourcesSeen int

	// QuotesAdded counts newly appended highlight blocks.
	QuotesAdded int

	// TagsLinked counts newly materialised tag files.
	TagsLinked int

	// ReflectionAdded is true when a reflection block was injected.
	ReflectionAdded bool

	// ErrorCount counts per-record failures that were skipped.
	ErrorCount int

	// Err is the cycle-aborting error message, empty on success.
	Err string
}
