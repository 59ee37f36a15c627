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
//   - NodeStore: read-only queries over curriculum documents and nodes
//   - ArtifactStore: trained model artifacts on disk
//   - JudgmentStore: human relevance judgment persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EvaluationStore: evaluation results. Without it, evaluations are not persisted.
//   - SchedulerStore: background task state. Without it, task state lives in memory.
//   - ArtifactWatcher: file change notifications. Without it, changes are seen on the next load.
//   - TreeImporter: bulk node loading, used only by the import command.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
