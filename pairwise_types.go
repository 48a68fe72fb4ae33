package votecount

// pairwiseRelation is the outcome of a head to head contest
type pairwiseRelation int8

const (
	// pairwiseLoss means the row candidate loses against the column one
	pairwiseLoss pairwiseRelation = iota - 1

	// pairwiseTie means both candidates are equally preferred
	pairwiseTie

	// pairwiseWin means the row candidate beats the column one
	pairwiseWin
)

// PairwiseGraph holds, for every ordered candidate pair, whether the first
// beats, ties or loses to the second. It is built once from the full ballot
// set and never modified afterwards
type PairwiseGraph struct {
	// candidates are all candidates found on ballots sorted by name
	candidates []Candidate

	// index maps a candidate to its row in preferences and relations
	index map[Candidate]int

	// preferences[a][b] is the number of ballots preferring a over b
	preferences [][]int

	// relations[a][b] is the pairwise outcome of a against b
	relations [][]pairwiseRelation
}
