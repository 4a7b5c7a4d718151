// Package store persists the normalized camera-trap model in SQLite and
// exposes the queries the rest of trailquiz builds on.
//
// Three reference tables (taxa, sequences, images) are written once by
// ingestion and read-only afterwards, which is what makes the search index and
// the sampler safe for concurrent sessions without coordination. The
// high_scores table is the single mutable table at play time; its top-ten
// retention is enforced inside one transaction per offer.
//
// Treat this package as the single source of truth for storage semantics; when
// the model changes, update schema.sql and bump schemaVersion.
package store
