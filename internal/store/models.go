package store

import (
	"time"

	"trailquiz/internal/taxonomy"
)

// Taxon is one deduplicated row of the taxa table. Immutable after ingestion.
type Taxon struct {
	ID               int64
	Ranks            [taxonomy.NumRanks]string
	CommonName       string
	MostSpecificRank taxonomy.Rank
	MostSpecificName string
}

// RankKey returns the canonical 20-tuple identity key stored alongside the row.
func (t *Taxon) RankKey() string {
	rec := taxonomy.Record{Ranks: t.Ranks}
	return rec.Key()
}

// RankValue returns the value at a rank, or "" for unknown ranks.
func (t *Taxon) RankValue(r taxonomy.Rank) string {
	idx, ok := taxonomy.RankIndex(r)
	if !ok {
		return ""
	}
	return t.Ranks[idx]
}

// DisplayName renders "Common Name (Scientific)" or just the scientific name.
func (t *Taxon) DisplayName() string {
	if t.CommonName != "" && t.MostSpecificName != "" {
		return t.CommonName + " (" + t.MostSpecificName + ")"
	}
	if t.CommonName != "" {
		return t.CommonName
	}
	return t.MostSpecificName
}

// Sequence is one single-taxon burst of images. Immutable after ingestion.
type Sequence struct {
	ID                int64
	SourceSequenceKey string
	TaxonID           int64
	LocationID        string
	CapturedAt        string
}

// Image is one frame of a sequence. Immutable after ingestion.
type Image struct {
	ID             int64
	SourceImageKey string
	SequenceID     int64
	FrameIndex     int
	URLGCP         string
	URLAWS         string
	URLAzure       string
}

// URL returns the locator for the preferred provider, falling back to any
// non-empty one.
func (i *Image) URL(provider string) string {
	var preferred string
	switch provider {
	case "aws":
		preferred = i.URLAWS
	case "azure":
		preferred = i.URLAzure
	default:
		preferred = i.URLGCP
	}
	if preferred != "" {
		return preferred
	}
	for _, url := range []string{i.URLGCP, i.URLAWS, i.URLAzure} {
		if url != "" {
			return url
		}
	}
	return ""
}

// HighScoreEntry is one leaderboard row.
type HighScoreEntry struct {
	PlayerName string
	Score      int
	CreatedAt  time.Time
}

// Counts summarizes table sizes for the ingest report and diagnostics.
type Counts struct {
	Taxa      int64
	Sequences int64
	Images    int64
}
