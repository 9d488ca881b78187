// Package domain defines the core business entities for margin.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Source: A book/article/podcast with child highlights
//   - Quote: A single highlight belonging to a Source
//   - Tag: A user label grouping Sources
//   - DailyReflection: A server-selected daily highlight pick
//   - SyncSettings: The persisted sync configuration
//
// It also holds the pure logic the sync engine is built on: safe filename
// derivation, placeholder template rendering, moment-style date formatting
// and marker-based content-identity tracking.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
