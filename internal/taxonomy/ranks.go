package taxonomy

// Rank is one level of the fixed taxonomic hierarchy.
type Rank string

const (
	RankKingdom     Rank = "kingdom"
	RankPhylum      Rank = "phylum"
	RankSubphylum   Rank = "subphylum"
	RankSuperclass  Rank = "superclass"
	RankClass       Rank = "class"
	RankSubclass    Rank = "subclass"
	RankInfraclass  Rank = "infraclass"
	RankSuperorder  Rank = "superorder"
	RankOrder       Rank = "order"
	RankSuborder    Rank = "suborder"
	RankInfraorder  Rank = "infraorder"
	RankSuperfamily Rank = "superfamily"
	RankFamily      Rank = "family"
	RankSubfamily   Rank = "subfamily"
	RankTribe       Rank = "tribe"
	RankGenus       Rank = "genus"
	RankSubgenus    Rank = "subgenus"
	RankSpecies     Rank = "species"
	RankSubspecies  Rank = "subspecies"
	RankVariety     Rank = "variety"
)

// NumRanks is the number of levels in the hierarchy.
const NumRanks = 20

// ranks holds the hierarchy in order, index 0 coarsest, index 19 finest.
var ranks = [NumRanks]Rank{
	RankKingdom, RankPhylum, RankSubphylum, RankSuperclass, RankClass,
	RankSubclass, RankInfraclass, RankSuperorder, RankOrder, RankSuborder,
	RankInfraorder, RankSuperfamily, RankFamily, RankSubfamily, RankTribe,
	RankGenus, RankSubgenus, RankSpecies, RankSubspecies, RankVariety,
}

var rankIndexes = func() map[Rank]int {
	m := make(map[Rank]int, NumRanks)
	for i, r := range ranks {
		m[r] = i
	}
	return m
}()

// Ranks returns the hierarchy in order from kingdom to variety.
func Ranks() [NumRanks]Rank {
	return ranks
}

// RankIndex returns the position of a rank in the hierarchy (0 = kingdom,
// 19 = variety) and whether the rank is known.
func RankIndex(r Rank) (int, bool) {
	i, ok := rankIndexes[r]
	return i, ok
}

// Finer reports whether a is at least as fine as b. Unknown ranks compare
// as coarser than every known rank.
func Finer(a, b Rank) bool {
	ai, aok := rankIndexes[a]
	bi, bok := rankIndexes[b]
	if !aok {
		return false
	}
	if !bok {
		return true
	}
	return ai >= bi
}

// MostSpecific returns the finest rank with a non-empty value and that value.
// The third return is false when all twenty values are empty, which marks the
// record as non-wildlife.
func MostSpecific(values [NumRanks]string) (Rank, string, bool) {
	for i := NumRanks - 1; i >= 0; i-- {
		if values[i] != "" {
			return ranks[i], values[i], true
		}
	}
	return "", "", false
}
