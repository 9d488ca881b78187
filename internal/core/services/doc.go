// Package services implements the core sync logic behind the driving
// ports: the source merge engine, the tag cross-linker, the daily
// reflection injector and the orchestrator that threads one cycle's
// name index through all three.
//
// Services depend only on domain types and driven ports; all I/O goes
// through injected interfaces so every engine is testable against the
// in-memory adapters.
package services
