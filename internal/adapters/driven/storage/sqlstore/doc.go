// Package sqlstore provides a SQL implementation of the persistent driven
// port interfaces, backed by SQLite or PostgreSQL.
//
// SQLite uses modernc.org/sqlite, a pure Go implementation that requires
// no CGO. PostgreSQL uses the pgx database/sql driver. One Store serves:
//
//   - NodeStore and TreeImporter: curriculum documents and node trees
//   - JudgmentStore: human relevance judgments
//   - EvaluationStore: per-version model evaluation results
//   - SchedulerStore: background task state and history
//
// # Schema
//
// Each dialect has its own versioned migrations under migrations/. Queries
// are written once with ? placeholders and rebound for PostgreSQL.
//
// # Data Location
//
// With an empty DSN the database is stored at ~/.alignpro/data/alignpro.db.
package sqlstore
