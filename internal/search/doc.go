// Package search provides autocompletion and guess resolution over taxon
// names.
//
// The index is built once from the taxa table and is immutable, so concurrent
// sessions query it without coordination. Both scientific (most-specific) and
// common names are indexed case-folded. Lookup is a binary search over a
// sorted suffix list: exact and prefix matches come from whole-name keys,
// substring matches from suffix keys, so a query costs O(log n + matches)
// rather than a scan per keystroke.
package search
