package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"trailquiz/internal/store"
	"trailquiz/internal/taxonomy"
)

// QuestionSpec fixes one question of a session: the target taxon and the
// sequences shown for it, in display order.
type QuestionSpec struct {
	TaxonID     int64
	SequenceIDs []int64
}

// Sampler draws session question lists from the store. Taxa never repeat
// within a session, and sequences never repeat within a question.
type Sampler struct {
	store *store.Store

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a sampler backed by st.
func NewSampler(st *store.Store) *Sampler {
	return &Sampler{
		store: st,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// eligibleRanks lists every rank at least as fine as the floor.
func eligibleRanks(floor taxonomy.Rank) []taxonomy.Rank {
	idx, ok := taxonomy.RankIndex(floor)
	if !ok {
		idx = 0
	}
	ranks := taxonomy.Ranks()
	return ranks[idx:]
}

// Pick samples one target taxon per question and perQuestion sequence ids
// for each. Only taxa at or finer than the floor rank with at least
// perQuestion sequences are eligible, so every question shows a full set.
func (s *Sampler) Pick(ctx context.Context, questions, perQuestion int, floor taxonomy.Rank) ([]QuestionSpec, error) {
	ids, err := s.store.EligibleTaxonIDs(ctx, eligibleRanks(floor), perQuestion)
	if err != nil {
		return nil, fmt.Errorf("sample taxa: %w", err)
	}
	if len(ids) < questions {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientTaxa, len(ids), questions)
	}

	s.mu.Lock()
	s.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	s.mu.Unlock()

	specs := make([]QuestionSpec, 0, questions)
	for _, taxonID := range ids[:questions] {
		seqIDs, err := s.store.SequenceIDsForTaxon(ctx, taxonID)
		if err != nil {
			return nil, fmt.Errorf("sample sequences for taxon %d: %w", taxonID, err)
		}
		s.mu.Lock()
		s.rng.Shuffle(len(seqIDs), func(i, j int) { seqIDs[i], seqIDs[j] = seqIDs[j], seqIDs[i] })
		s.mu.Unlock()
		specs = append(specs, QuestionSpec{TaxonID: taxonID, SequenceIDs: seqIDs[:perQuestion]})
	}
	return specs, nil
}
