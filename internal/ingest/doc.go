// Package ingest turns flat camera-trap CSV exports into the relational
// taxa/sequences/images model. Two streaming passes keep memory bounded by
// the unique-taxa count and one pending group batch, so input size is limited
// by disk, not RAM.
package ingest
