package game

import (
	"fmt"
	"strings"

	"trailquiz/internal/config"
	"trailquiz/internal/store"
	"trailquiz/internal/taxonomy"
)

// Schedule maps each taxonomic rank to the points a match at that rank earns.
// Ranks absent from the schedule score zero.
type Schedule map[taxonomy.Rank]int

// DefaultSchedule returns the graduated point table: full credit at species
// level and below, tapering off toward kingdom.
func DefaultSchedule() Schedule {
	return Schedule{
		taxonomy.RankSpecies:     10,
		taxonomy.RankSubspecies:  10,
		taxonomy.RankVariety:     10,
		taxonomy.RankSubgenus:    8,
		taxonomy.RankGenus:       5,
		taxonomy.RankTribe:       4,
		taxonomy.RankSubfamily:   4,
		taxonomy.RankFamily:      3,
		taxonomy.RankSuperfamily: 2,
		taxonomy.RankInfraorder:  2,
		taxonomy.RankSuborder:    2,
		taxonomy.RankOrder:       2,
		taxonomy.RankSuperorder:  1,
		taxonomy.RankInfraclass:  1,
		taxonomy.RankSubclass:    1,
		taxonomy.RankClass:       1,
		taxonomy.RankSuperclass:  1,
		taxonomy.RankSubphylum:   1,
		taxonomy.RankPhylum:      1,
		taxonomy.RankKingdom:     1,
	}
}

// ScheduleFromConfig overlays any configured per-rank overrides on the
// default table. Unknown rank names were already rejected by config
// validation.
func ScheduleFromConfig(cfg config.Scoring) Schedule {
	schedule := DefaultSchedule()
	for name, points := range cfg.Points {
		schedule[taxonomy.Rank(name)] = points
	}
	return schedule
}

// Points returns the award for a match at rank r.
func (s Schedule) Points(r taxonomy.Rank) int {
	return s[r]
}

// Max returns the highest award in the schedule, the per-question ceiling.
func (s Schedule) Max() int {
	max := 0
	for _, points := range s {
		if points > max {
			max = points
		}
	}
	return max
}

// MatchResult describes how close a guess landed to the target taxon.
type MatchResult struct {
	Points      int
	MatchedRank taxonomy.Rank
	MatchedName string
	Explanation string
}

// Score compares a guessed taxon against the target and awards points for the
// finest rank at which both carry the same non-empty value. Ranks where
// either side is empty are skipped rather than treated as a mismatch, so a
// family-level record can still match a fully resolved one at family.
func (s Schedule) Score(target, guess *store.Taxon) MatchResult {
	for i := taxonomy.NumRanks - 1; i >= 0; i-- {
		tv := target.Ranks[i]
		gv := guess.Ranks[i]
		if tv == "" || gv == "" {
			continue
		}
		if strings.EqualFold(tv, gv) {
			rank := taxonomy.Ranks()[i]
			return MatchResult{
				Points:      s.Points(rank),
				MatchedRank: rank,
				MatchedName: tv,
				Explanation: fmt.Sprintf("matched at %s: %s", rank, tv),
			}
		}
	}
	return MatchResult{Explanation: "no shared taxonomic rank"}
}

// Unresolved is the result recorded when a guess matched no known taxon.
func Unresolved() MatchResult {
	return MatchResult{Explanation: "no recognized taxon"}
}
