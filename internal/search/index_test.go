package search_test

import (
	"testing"

	"trailquiz/internal/search"
	"trailquiz/internal/store"
	"trailquiz/internal/taxonomy"
	"trailquiz/internal/testsupport"
)

func buildIndex(t *testing.T) *search.Index {
	t.Helper()

	taxa := []*store.Taxon{
		testsupport.NewTaxon(t, "American Black Bear", map[taxonomy.Rank]string{
			taxonomy.RankFamily:  "Ursidae",
			taxonomy.RankGenus:   "Ursus",
			taxonomy.RankSpecies: "americanus",
		}),
		testsupport.NewTaxon(t, "Brown Bear", map[taxonomy.Rank]string{
			taxonomy.RankFamily:  "Ursidae",
			taxonomy.RankGenus:   "Ursus",
			taxonomy.RankSpecies: "arctos",
		}),
		testsupport.NewTaxon(t, "Red Fox", map[taxonomy.Rank]string{
			taxonomy.RankFamily:  "Canidae",
			taxonomy.RankGenus:   "Vulpes",
			taxonomy.RankSpecies: "vulpes",
		}),
		testsupport.NewTaxon(t, "", map[taxonomy.Rank]string{
			taxonomy.RankFamily: "Ursidae",
		}),
	}
	for i, taxon := range taxa {
		taxon.ID = int64(i + 1)
	}
	return search.NewIndex(taxa)
}

func TestQueryTooShort(t *testing.T) {
	idx := buildIndex(t)
	if got := idx.Query("a", 10); got != nil {
		t.Fatalf("expected no results for single character, got %d", len(got))
	}
}

func TestQueryExactBeforePrefixBeforeSubstring(t *testing.T) {
	idx := buildIndex(t)

	// "ursidae" is an exact scientific name, a prefix of nothing else, and a
	// substring of nothing else; "urs" prefixes Ursidae while "bear" is a
	// substring of two common names.
	results := idx.Query("Ursidae", 10)
	if len(results) == 0 || results[0].ScientificName != "Ursidae" {
		t.Fatalf("expected exact Ursidae first, got %+v", results)
	}

	results = idx.Query("urs", 10)
	if len(results) == 0 {
		t.Fatal("expected prefix matches for urs")
	}
	if results[0].DisplayName != "Ursidae" {
		t.Fatalf("expected Ursidae (prefix) first, got %q", results[0].DisplayName)
	}

	results = idx.Query("bear", 10)
	if len(results) != 2 {
		t.Fatalf("expected two bear common-name matches, got %d", len(results))
	}
	// Substring ties sort lexicographically by matched name.
	if results[0].DisplayName != "American Black Bear" || results[1].DisplayName != "Brown Bear" {
		t.Fatalf("unexpected order: %q then %q", results[0].DisplayName, results[1].DisplayName)
	}
}

func TestQueryCaseInsensitive(t *testing.T) {
	idx := buildIndex(t)
	upper := idx.Query("VULPES", 10)
	lower := idx.Query("vulpes", 10)
	if len(upper) == 0 || len(lower) == 0 {
		t.Fatal("expected case-insensitive matches")
	}
	if upper[0].TaxonID != lower[0].TaxonID {
		t.Fatal("folded queries must match the same taxon")
	}
}

func TestQueryLimit(t *testing.T) {
	idx := buildIndex(t)
	results := idx.Query("ur", 1)
	if len(results) != 1 {
		t.Fatalf("expected limit respected, got %d", len(results))
	}
}

func TestResolve(t *testing.T) {
	idx := buildIndex(t)

	result, ok := idx.Resolve("american black bear")
	if !ok {
		t.Fatal("expected resolution for full common name")
	}
	if result.ScientificName != "americanus" {
		t.Fatalf("resolved wrong taxon: %+v", result)
	}

	if _, ok := idx.Resolve("pangolin"); ok {
		t.Fatal("expected no resolution for unknown name")
	}
	if _, ok := idx.Resolve("x"); ok {
		t.Fatal("expected no resolution below the minimum query length")
	}
}

func TestIndexSkipsEmptyNames(t *testing.T) {
	taxon := testsupport.NewTaxon(t, "Ghost", nil)
	taxon.ID = 1
	idx := search.NewIndex([]*store.Taxon{taxon})
	// A taxon with no scientific name still indexes its common name.
	if idx.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", idx.Len())
	}
	if _, ok := idx.Resolve("ghost"); !ok {
		t.Fatal("expected common-name-only taxon to resolve")
	}
}
