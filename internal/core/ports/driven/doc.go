// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Vault: Hierarchical markdown file storage (the user's vault)
//   - HighlightsAPI: The remote highlights service
//   - ConfigStore: Application configuration
//   - CredentialsProvider: API key and cached session secret
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryStore: Sync-run journal. Without it, `margin history` is
//     disabled and cycles simply go unrecorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
