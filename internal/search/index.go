package search

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"trailquiz/internal/store"
	"trailquiz/internal/taxonomy"
)

// MinQueryLength is the shortest query the index answers; the UI issues one
// query per keystroke and single characters match half the table.
const MinQueryLength = 2

// DefaultLimit caps result lists when the caller does not.
const DefaultLimit = 20

// Result is one autocompletion candidate.
type Result struct {
	TaxonID        int64
	DisplayName    string
	Rank           taxonomy.Rank
	ScientificName string
	CommonName     string
}

// matchClass orders result quality: exact sorts before prefix before substring.
type matchClass int

const (
	matchExact matchClass = iota
	matchPrefix
	matchSubstring
)

// entry is one indexed name (a taxon contributes one entry per distinct name).
type entry struct {
	taxonID        int64
	name           string
	folded         string
	rank           taxonomy.Rank
	scientificName string
	commonName     string
}

// suffixKey points at one suffix of one entry's folded name. offset 0 keys
// carry exact and prefix matches; deeper offsets carry substring matches.
type suffixKey struct {
	suffix string
	entry  int
	offset int
}

// Index answers prefix/substring queries over taxon names.
type Index struct {
	entries []entry
	keys    []suffixKey
}

// Build loads every taxon and constructs the index. Call once after ingestion.
func Build(ctx context.Context, st *store.Store) (*Index, error) {
	taxa, err := st.AllTaxa(ctx)
	if err != nil {
		return nil, err
	}
	return NewIndex(taxa), nil
}

// NewIndex constructs the index from taxon rows.
func NewIndex(taxa []*store.Taxon) *Index {
	folder := cases.Fold()
	idx := &Index{}

	for _, taxon := range taxa {
		names := make([]string, 0, 2)
		if taxon.MostSpecificName != "" {
			names = append(names, taxon.MostSpecificName)
		}
		if taxon.CommonName != "" && !strings.EqualFold(taxon.CommonName, taxon.MostSpecificName) {
			names = append(names, taxon.CommonName)
		}
		for _, name := range names {
			idx.entries = append(idx.entries, entry{
				taxonID:        taxon.ID,
				name:           name,
				folded:         folder.String(name),
				rank:           taxon.MostSpecificRank,
				scientificName: taxon.MostSpecificName,
				commonName:     taxon.CommonName,
			})
		}
	}

	for i := range idx.entries {
		folded := idx.entries[i].folded
		for offset := 0; offset < len(folded); offset++ {
			// Index suffixes at rune starts only.
			if offset > 0 && folded[offset]&0xC0 == 0x80 {
				continue
			}
			idx.keys = append(idx.keys, suffixKey{
				suffix: folded[offset:],
				entry:  i,
				offset: offset,
			})
		}
	}

	sort.Slice(idx.keys, func(a, b int) bool {
		return idx.keys[a].suffix < idx.keys[b].suffix
	})
	return idx
}

// Len returns the number of indexed names.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Query returns ranked candidates for a free-text query: exact matches first,
// then prefix matches, then substring matches, ties broken lexicographically
// by the matched name. Queries shorter than MinQueryLength return nothing.
func (idx *Index) Query(query string, limit int) []Result {
	folded := cases.Fold().String(strings.TrimSpace(query))
	if len(folded) < MinQueryLength {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	best := make(map[int]matchClass)
	lo := sort.Search(len(idx.keys), func(i int) bool {
		return idx.keys[i].suffix >= folded
	})
	for i := lo; i < len(idx.keys); i++ {
		key := idx.keys[i]
		if !strings.HasPrefix(key.suffix, folded) {
			break
		}
		class := matchSubstring
		if key.offset == 0 {
			if key.suffix == folded {
				class = matchExact
			} else {
				class = matchPrefix
			}
		}
		if current, ok := best[key.entry]; !ok || class < current {
			best[key.entry] = class
		}
	}

	type ranked struct {
		entry int
		class matchClass
	}
	order := make([]ranked, 0, len(best))
	for entryIdx, class := range best {
		order = append(order, ranked{entry: entryIdx, class: class})
	}
	sort.Slice(order, func(a, b int) bool {
		if order[a].class != order[b].class {
			return order[a].class < order[b].class
		}
		ea, eb := idx.entries[order[a].entry], idx.entries[order[b].entry]
		if ea.folded != eb.folded {
			return ea.folded < eb.folded
		}
		return ea.taxonID < eb.taxonID
	})

	results := make([]Result, 0, min(limit, len(order)))
	for _, r := range order {
		if len(results) == limit {
			break
		}
		e := idx.entries[r.entry]
		results = append(results, Result{
			TaxonID:        e.taxonID,
			DisplayName:    e.name,
			Rank:           e.rank,
			ScientificName: e.scientificName,
			CommonName:     e.commonName,
		})
	}
	return results
}

// Resolve maps free guess text onto a taxon: the top-ranked candidate wins.
// The bool is false when nothing in the index matches.
func (idx *Index) Resolve(text string) (Result, bool) {
	results := idx.Query(text, 1)
	if len(results) == 0 {
		return Result{}, false
	}
	return results[0], true
}
