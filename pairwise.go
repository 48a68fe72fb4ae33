package votecount

// NewPairwiseGraph compares every candidate pair on every ballot.
// A ranked candidate is preferred over any candidate left unranked
func NewPairwiseGraph(ballots []Ballot) *PairwiseGraph {
	candidates := sortCandidates(ballotCandidates(ballots))
	total := len(candidates)
	g := &PairwiseGraph{
		candidates:  candidates,
		index:       make(map[Candidate]int, total),
		preferences: make([][]int, total),
		relations:   make([][]pairwiseRelation, total),
	}
	for i, c := range candidates {
		g.index[c] = i
		g.preferences[i] = make([]int, total)
		g.relations[i] = make([]pairwiseRelation, total)
	}

	ranks := make([]int, total)
	ranked := make([]bool, total)
	for _, b := range ballots {
		clear(ranked)
		for _, v := range b.votes {
			i := g.index[v.Candidate]
			ranks[i] = v.Value
			ranked[i] = true
		}
		for _, v := range b.votes {
			a := g.index[v.Candidate]
			for other := range total {
				if other == a {
					continue
				}
				if !ranked[other] || ranks[a] < ranks[other] {
					g.preferences[a][other]++
				}
			}
		}
	}

	for a := range total {
		for b := range total {
			switch {
			case a == b:
				g.relations[a][b] = pairwiseTie
			case g.preferences[a][b] > g.preferences[b][a]:
				g.relations[a][b] = pairwiseWin
			case g.preferences[a][b] < g.preferences[b][a]:
				g.relations[a][b] = pairwiseLoss
			default:
				g.relations[a][b] = pairwiseTie
			}
		}
	}
	return g
}

// Candidates returns all candidates of the graph sorted by name
func (g *PairwiseGraph) Candidates() []Candidate {
	out := make([]Candidate, len(g.candidates))
	copy(out, g.candidates)
	return out
}

// Preferences returns the number of ballots preferring a over b
func (g *PairwiseGraph) Preferences(a, b Candidate) int {
	i, okA := g.index[a]
	j, okB := g.index[b]
	if !okA || !okB {
		return 0
	}
	return g.preferences[i][j]
}

// relation returns the outcome of a against b.
// Unknown candidates are reported as a tie
func (g *PairwiseGraph) relation(a, b Candidate) pairwiseRelation {
	i, okA := g.index[a]
	j, okB := g.index[b]
	if !okA || !okB {
		return pairwiseTie
	}
	return g.relations[i][j]
}

// Beats tells if a wins the head to head contest against b
func (g *PairwiseGraph) Beats(a, b Candidate) bool {
	return g.relation(a, b) == pairwiseWin
}

// Tied tells if a and b are distinct candidates tied head to head
func (g *PairwiseGraph) Tied(a, b Candidate) bool {
	_, okA := g.index[a]
	_, okB := g.index[b]
	return okA && okB && a != b && g.relation(a, b) == pairwiseTie
}

// Wins returns candidates beaten by c, restricted to among when not nil
func (g *PairwiseGraph) Wins(c Candidate, among CandidateSet) []Candidate {
	return g.related(c, among, pairwiseWin)
}

// Ties returns candidates tied with c, restricted to among when not nil
func (g *PairwiseGraph) Ties(c Candidate, among CandidateSet) []Candidate {
	return g.related(c, among, pairwiseTie)
}

// related returns candidates in relation r with c sorted by name
func (g *PairwiseGraph) related(c Candidate, among CandidateSet, r pairwiseRelation) []Candidate {
	i, ok := g.index[c]
	if !ok {
		return nil
	}
	var out []Candidate
	for j, other := range g.candidates {
		if i == j || g.relations[i][j] != r {
			continue
		}
		if among != nil && !among.Contains(other) {
			continue
		}
		out = append(out, other)
	}
	return out
}

// CondorcetWinner returns the candidate beating every other one among
// the provided set, if any
func (g *PairwiseGraph) CondorcetWinner(among CandidateSet) (Candidate, bool) {
	for _, c := range g.candidates {
		if among != nil && !among.Contains(c) {
			continue
		}
		size := len(g.candidates)
		if among != nil {
			size = len(among)
		}
		if len(g.Wins(c, among)) == size-1 {
			return c, true
		}
	}
	return Candidate{}, false
}
