package game_test

import (
	"testing"

	"trailquiz/internal/config"
	"trailquiz/internal/game"
	"trailquiz/internal/store"
	"trailquiz/internal/taxonomy"
	"trailquiz/internal/testsupport"
)

func blackBear(t *testing.T) *store.Taxon {
	t.Helper()
	return testsupport.NewTaxon(t, "American Black Bear", map[taxonomy.Rank]string{
		taxonomy.RankKingdom: "Animalia",
		taxonomy.RankPhylum:  "Chordata",
		taxonomy.RankClass:   "Mammalia",
		taxonomy.RankOrder:   "Carnivora",
		taxonomy.RankFamily:  "Ursidae",
		taxonomy.RankGenus:   "Ursus",
		taxonomy.RankSpecies: "americanus",
	})
}

func TestScoreExactSpecies(t *testing.T) {
	schedule := game.DefaultSchedule()
	target := blackBear(t)
	guess := blackBear(t)

	res := schedule.Score(target, guess)
	if res.Points != 10 || res.MatchedRank != taxonomy.RankSpecies {
		t.Fatalf("expected species match for 10, got %+v", res)
	}
	if res.Explanation != "matched at species: americanus" {
		t.Fatalf("unexpected explanation %q", res.Explanation)
	}
}

func TestScoreGenusMatch(t *testing.T) {
	schedule := game.DefaultSchedule()
	target := blackBear(t)
	guess := testsupport.NewTaxon(t, "Brown Bear", map[taxonomy.Rank]string{
		taxonomy.RankKingdom: "Animalia",
		taxonomy.RankClass:   "Mammalia",
		taxonomy.RankOrder:   "Carnivora",
		taxonomy.RankFamily:  "Ursidae",
		taxonomy.RankGenus:   "Ursus",
		taxonomy.RankSpecies: "arctos",
	})

	res := schedule.Score(target, guess)
	if res.Points != 5 || res.MatchedRank != taxonomy.RankGenus {
		t.Fatalf("expected genus match for 5, got %+v", res)
	}
}

func TestScoreSkipsEmptyRanks(t *testing.T) {
	// A family-level guess still matches a fully resolved target at family:
	// the empty genus and species slots are skipped, not treated as misses.
	schedule := game.DefaultSchedule()
	target := blackBear(t)
	guess := testsupport.NewTaxon(t, "bear family", map[taxonomy.Rank]string{
		taxonomy.RankKingdom: "Animalia",
		taxonomy.RankClass:   "Mammalia",
		taxonomy.RankOrder:   "Carnivora",
		taxonomy.RankFamily:  "Ursidae",
	})

	res := schedule.Score(target, guess)
	if res.Points != 3 || res.MatchedRank != taxonomy.RankFamily {
		t.Fatalf("expected family match for 3, got %+v", res)
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	schedule := game.DefaultSchedule()
	target := blackBear(t)
	guess := testsupport.NewTaxon(t, "", map[taxonomy.Rank]string{
		taxonomy.RankFamily:  "URSIDAE",
		taxonomy.RankGenus:   "ursus",
		taxonomy.RankSpecies: "AMERICANUS",
	})

	res := schedule.Score(target, guess)
	if res.Points != 10 || res.MatchedRank != taxonomy.RankSpecies {
		t.Fatalf("expected case-insensitive species match, got %+v", res)
	}
}

func TestScoreNoOverlap(t *testing.T) {
	schedule := game.DefaultSchedule()
	target := blackBear(t)
	guess := testsupport.NewTaxon(t, "Monarch", map[taxonomy.Rank]string{
		taxonomy.RankKingdom: "Animalia",
		taxonomy.RankClass:   "Insecta",
		taxonomy.RankOrder:   "Lepidoptera",
	})

	res := schedule.Score(target, guess)
	// Both are animals, so the coarsest rank still matches.
	if res.Points != 1 || res.MatchedRank != taxonomy.RankKingdom {
		t.Fatalf("expected kingdom match for 1, got %+v", res)
	}

	alien := testsupport.NewTaxon(t, "", map[taxonomy.Rank]string{
		taxonomy.RankKingdom: "Fungi",
	})
	res = schedule.Score(target, alien)
	if res.Points != 0 || res.MatchedRank != "" {
		t.Fatalf("expected no match, got %+v", res)
	}
}

func TestScheduleFromConfigOverrides(t *testing.T) {
	schedule := game.ScheduleFromConfig(config.Scoring{Points: map[string]int{
		"species": 12,
		"family":  6,
	}})
	if schedule.Points(taxonomy.RankSpecies) != 12 {
		t.Fatalf("species override not applied: %d", schedule.Points(taxonomy.RankSpecies))
	}
	if schedule.Points(taxonomy.RankFamily) != 6 {
		t.Fatalf("family override not applied: %d", schedule.Points(taxonomy.RankFamily))
	}
	if schedule.Points(taxonomy.RankGenus) != 5 {
		t.Fatalf("untouched rank should keep default, got %d", schedule.Points(taxonomy.RankGenus))
	}
	if schedule.Max() != 12 {
		t.Fatalf("expected max 12, got %d", schedule.Max())
	}
}
