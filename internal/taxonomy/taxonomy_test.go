package taxonomy_test

import (
	"testing"

	"trailquiz/internal/taxonomy"
)

func TestRankIndexOrdering(t *testing.T) {
	ranks := taxonomy.Ranks()
	if ranks[0] != taxonomy.RankKingdom {
		t.Fatalf("expected kingdom first, got %s", ranks[0])
	}
	if ranks[taxonomy.NumRanks-1] != taxonomy.RankVariety {
		t.Fatalf("expected variety last, got %s", ranks[taxonomy.NumRanks-1])
	}
	prev := -1
	for _, r := range ranks {
		idx, ok := taxonomy.RankIndex(r)
		if !ok {
			t.Fatalf("RankIndex(%s) not found", r)
		}
		if idx <= prev {
			t.Fatalf("rank %s out of order: index %d after %d", r, idx, prev)
		}
		prev = idx
	}
	if _, ok := taxonomy.RankIndex("domain"); ok {
		t.Fatal("expected unknown rank to be rejected")
	}
}

func TestMostSpecific(t *testing.T) {
	var values [taxonomy.NumRanks]string
	if _, _, ok := taxonomy.MostSpecific(values); ok {
		t.Fatal("expected all-empty tuple to have no most specific rank")
	}

	values[0] = "Animalia"
	rank, name, ok := taxonomy.MostSpecific(values)
	if !ok || rank != taxonomy.RankKingdom || name != "Animalia" {
		t.Fatalf("unexpected most specific: %s %q %v", rank, name, ok)
	}

	speciesIdx, _ := taxonomy.RankIndex(taxonomy.RankSpecies)
	familyIdx, _ := taxonomy.RankIndex(taxonomy.RankFamily)
	values[familyIdx] = "Ursidae"
	values[speciesIdx] = "americanus"
	rank, name, ok = taxonomy.MostSpecific(values)
	if !ok || rank != taxonomy.RankSpecies || name != "americanus" {
		t.Fatalf("unexpected most specific: %s %q %v", rank, name, ok)
	}
}

func TestClean(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Ursus ", "Ursus"},
		{"NA", ""},
		{"n/a", ""},
		{"NULL", ""},
		{"none", ""},
		{"NaN", ""},
		{"", ""},
		{"Naja", "Naja"},
	}
	for _, tc := range cases {
		if got := taxonomy.Clean(tc.in); got != tc.want {
			t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := taxonomy.CleanCommonName("Empty"); got != "" {
		t.Fatalf("CleanCommonName(Empty) = %q, want empty", got)
	}
	if got := taxonomy.CleanCommonName("Black Bear"); got != "Black Bear" {
		t.Fatalf("CleanCommonName(Black Bear) = %q", got)
	}
}

func TestRecordKeyIdentity(t *testing.T) {
	a := taxonomy.Record{}
	b := taxonomy.Record{}
	a.Ranks[0] = "Animalia"
	b.Ranks[0] = "Animalia"
	if a.Key() != b.Key() {
		t.Fatal("identical tuples must produce identical keys")
	}

	b.Ranks[19] = "alba"
	if a.Key() == b.Key() {
		t.Fatal("differing tuples must produce distinct keys")
	}

	// Case matters for identity; folding happens only in search.
	b = a
	b.Ranks[0] = "animalia"
	if a.Key() == b.Key() {
		t.Fatal("taxon keys must be case sensitive")
	}
}

func TestRecordWildlife(t *testing.T) {
	var rec taxonomy.Record
	rec.CommonName = "mystery blob"
	if rec.Wildlife() {
		t.Fatal("record with empty rank tuple must not count as wildlife")
	}
	rec.Ranks[0] = "Animalia"
	if !rec.Wildlife() {
		t.Fatal("record with a populated rank must count as wildlife")
	}
}

func TestFiner(t *testing.T) {
	if !taxonomy.Finer(taxonomy.RankSpecies, taxonomy.RankFamily) {
		t.Fatal("species should be finer than family")
	}
	if taxonomy.Finer(taxonomy.RankOrder, taxonomy.RankFamily) {
		t.Fatal("order should not be finer than family")
	}
	if !taxonomy.Finer(taxonomy.RankFamily, taxonomy.RankFamily) {
		t.Fatal("a rank is as fine as itself")
	}
}
