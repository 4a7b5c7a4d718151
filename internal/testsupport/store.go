package testsupport

import (
	"context"
	"strconv"
	"testing"

	"trailquiz/internal/config"
	"trailquiz/internal/store"
	"trailquiz/internal/taxonomy"
)

// MustOpenStore opens a store for the test config and closes it on cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

// NewTaxon builds a taxon with values at the provided ranks and derives the
// most-specific fields, matching what ingestion produces.
func NewTaxon(t testing.TB, commonName string, values map[taxonomy.Rank]string) *store.Taxon {
	t.Helper()

	taxon := &store.Taxon{CommonName: commonName}
	for rank, value := range values {
		idx, ok := taxonomy.RankIndex(rank)
		if !ok {
			t.Fatalf("unknown rank %q", rank)
		}
		taxon.Ranks[idx] = value
	}
	if rank, name, ok := taxonomy.MostSpecific(taxon.Ranks); ok {
		taxon.MostSpecificRank = rank
		taxon.MostSpecificName = name
	}
	return taxon
}

// SeedTaxon inserts a taxon and returns it with its assigned id.
func SeedTaxon(t testing.TB, st *store.Store, commonName string, values map[taxonomy.Rank]string) *store.Taxon {
	t.Helper()

	taxon := NewTaxon(t, commonName, values)
	if err := st.InsertTaxa(context.Background(), []*store.Taxon{taxon}); err != nil {
		t.Fatalf("insert taxon: %v", err)
	}
	return taxon
}

// SeedSequence inserts one sequence with frames numbered by frameIndexes and
// a GCP locator per frame. Returns the sequence with its assigned id.
func SeedSequence(t testing.TB, st *store.Store, taxonID int64, key string, frameIndexes ...int) *store.Sequence {
	t.Helper()

	seq := &store.Sequence{SourceSequenceKey: key, TaxonID: taxonID}
	images := make([]*store.Image, 0, len(frameIndexes))
	for _, frame := range frameIndexes {
		images = append(images, &store.Image{
			SourceImageKey: key + "-img-" + strconv.Itoa(frame),
			FrameIndex:     frame,
			URLGCP:         "https://storage.example/" + key + "/" + strconv.Itoa(frame) + ".jpg",
		})
	}
	_, _, err := st.WriteSequences(context.Background(), func(w *store.SequenceWriter) error {
		return w.AddSequence(seq, images)
	})
	if err != nil {
		t.Fatalf("seed sequence: %v", err)
	}
	return seq
}

