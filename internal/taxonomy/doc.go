// Package taxonomy defines the fixed taxonomic rank hierarchy and the
// normalization of raw camera-trap records into taxon keys.
//
// The twenty ranks run from kingdom (coarsest) to variety (finest). A taxon is
// identified by its full ordered 20-tuple of rank values; two records belong to
// the same taxon exactly when every rank value matches, empty values included.
// Normalization canonicalizes the null-ish tokens that appear in flat exports
// ("NA", "null", "nan", ...) to the empty string but never folds case: case
// folding belongs to search, not to identity.
//
// Everything in this package is pure; ingestion and scoring both build on it.
package taxonomy
