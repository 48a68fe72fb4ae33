package votecount

import (
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// randomTiebreakerStream is the second PCG word derived from the seed
const randomTiebreakerStream uint64 = 0x9e3779b97f4a7c15

// NewTiebreakerChain returns a chain consulting strategies in the provided order
func NewTiebreakerChain(strategies ...Tiebreaker) *TiebreakerChain {
	return &TiebreakerChain{strategies: strategies}
}

// NewTiebreaker builds a single strategy from its name
func NewTiebreaker(name string, seed uint64) (Tiebreaker, error) {
	switch name {
	case LastDifferenceTiebreakerName:
		return NewLastDifferenceTiebreaker(), nil
	case FirstDifferenceTiebreakerName:
		return NewFirstDifferenceTiebreaker(), nil
	case PairwiseTiebreakerName:
		return NewPairwiseTiebreaker(), nil
	case RandomTiebreakerName:
		return NewRandomTiebreaker(seed), nil
	case LexicographicTiebreakerName:
		return LexicographicTiebreaker{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTiebreaker, name)
}

// NewTiebreakerChainFromNames builds a chain from strategy names.
// DefaultTiebreakers is used when names is empty. A lexicographic
// tiebreaker is appended when the chain does not end with a strategy
// able to resolve any tie
func NewTiebreakerChainFromNames(names []string, seed uint64) (*TiebreakerChain, error) {
	if len(names) == 0 {
		names = DefaultTiebreakers
	}
	var strategies []Tiebreaker
	for _, name := range names {
		s, err := NewTiebreaker(name, seed)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	switch names[len(names)-1] {
	case RandomTiebreakerName, LexicographicTiebreakerName:
	default:
		strategies = append(strategies, LexicographicTiebreaker{})
	}
	return NewTiebreakerChain(strategies...), nil
}

// attach wires the chain to the tabulator mediator
func (c *TiebreakerChain) attach(r *Tabulator) {
	c.mediator = r.mediator
	c.logger = r.Logger
	c.metrics = r.metrics
	r.mediator.Subscribe(c)
}

// Strategies returns the strategy names in consultation order
func (c *TiebreakerChain) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// GetTieWinner returns the top candidate of the tie
func (c *TiebreakerChain) GetTieWinner(candidates []Candidate, ballotWeights []decimal.Decimal) (Candidate, error) {
	decision, err := c.BreakTie(candidates, ballotWeights, true)
	return decision.Candidate, err
}

// GetTieLoser returns the bottom candidate of the tie
func (c *TiebreakerChain) GetTieLoser(candidates []Candidate, ballotWeights []decimal.Decimal) (Candidate, error) {
	decision, err := c.BreakTie(candidates, ballotWeights, false)
	return decision.Candidate, err
}

// BreakTie consults every strategy in order until one decides
func (c *TiebreakerChain) BreakTie(candidates []Candidate, ballotWeights []decimal.Decimal, findWinner bool) (TieDecision, error) {
	tied := NewCandidateSet(candidates...).Slice()
	switch len(tied) {
	case 0:
		return TieDecision{}, ErrNoCandidates
	case 1:
		return TieDecision{Candidate: tied[0], FullyInformed: true}, nil
	}

	for _, s := range c.strategies {
		winner, ok := s.BreakTie(tied, ballotWeights, findWinner)
		if !ok {
			continue
		}
		if c.metrics != nil {
			c.metrics.tieBroken(s.Name())
		}
		if c.logger != nil {
			c.logger.Debug().
				Str("tabulationId", c.tabulationID).
				Str("strategy", s.Name()).
				Str("candidates", fmt.Sprintf("%v", tied)).
				Str("findWinner", fmt.Sprintf("%t", findWinner)).
				Str("decision", winner.Name).
				Msgf("Tie broken")
		}
		return TieDecision{
			Candidate:     winner,
			Strategy:      s.Name(),
			FullyInformed: s.FullyInformed(),
		}, nil
	}
	return TieDecision{}, fmt.Errorf("%w: %v", ErrUnresolvedTie, tied)
}

// Notify refreshes strategies on tabulation begin and round complete
func (c *TiebreakerChain) Notify(event Event) {
	switch e := event.(type) {
	case TabulationBeginEvent:
		c.tabulationID = e.TabulationID
		for _, s := range c.strategies {
			if h, ok := s.(TabulationBeginHandler); ok {
				h.BeginTabulation(e.Ballots, e.Seats)
				c.publish(s)
			}
		}
	case RoundCompleteEvent:
		c.UpdateTiebreaker(e.CandidateStates)
	}
}

// UpdateTiebreaker feeds the current candidate states to strategies
func (c *TiebreakerChain) UpdateTiebreaker(states CandidateStates) {
	for _, s := range c.strategies {
		if u, ok := s.(StateUpdater); ok && u.UpdateTiebreaker(states) {
			c.publish(s)
		}
	}
}

// publish sends the strategy win pairs to observers
func (c *TiebreakerChain) publish(s Tiebreaker) {
	r, ok := s.(WinPairsReporter)
	if !ok || c.mediator == nil {
		return
	}
	c.mediator.ChangeTiebreakerState(TiebreakerStateEvent{
		TabulationID: c.tabulationID,
		Strategy:     s.Name(),
		WinPairs:     r.WinPairs(),
	})
}

// set records the outcome of a tie between a and b.
// It returns true when something changed
func (p winPairs) set(a, b Candidate, aWins bool) bool {
	if p[a] == nil {
		p[a] = make(map[Candidate]bool)
	}
	if p[b] == nil {
		p[b] = make(map[Candidate]bool)
	}
	current, ok := p[a][b]
	p[a][b] = aWins
	p[b][a] = !aWins
	return !ok || current != aWins
}

// has tells if the outcome between a and b is known
func (p winPairs) has(a, b Candidate) bool {
	_, ok := p[a][b]
	return ok
}

// breakTie returns the candidate winning (or losing) against every other one
func (p winPairs) breakTie(candidates []Candidate, findWinner bool) (Candidate, bool) {
	for _, c := range candidates {
		decided := true
		for _, d := range candidates {
			if c == d {
				continue
			}
			wins, ok := p[c][d]
			if !ok || wins != findWinner {
				decided = false
				break
			}
		}
		if decided {
			return c, true
		}
	}
	return Candidate{}, false
}

// updateFromVoteCounts records the outcome of every pair with different
// vote counts. When overwrite is false, known outcomes are kept
func (p winPairs) updateFromVoteCounts(states CandidateStates, overwrite bool) bool {
	candidates := make([]Candidate, 0, len(states))
	for c := range states {
		candidates = append(candidates, c)
	}
	sortCandidates(candidates)

	changed := false
	for i, a := range candidates {
		for _, b := range candidates[i+1:] {
			va, vb := states[a].VoteCount, states[b].VoteCount
			if va.Equal(vb) || (!overwrite && p.has(a, b)) {
				continue
			}
			if p.set(a, b, va.GreaterThan(vb)) {
				changed = true
			}
		}
	}
	return changed
}

// NewLastDifferenceTiebreaker returns a last difference tiebreaker
func NewLastDifferenceTiebreaker() *LastDifferenceTiebreaker {
	return &LastDifferenceTiebreaker{pairs: make(winPairs)}
}

// Name implements Tiebreaker
func (t *LastDifferenceTiebreaker) Name() string { return LastDifferenceTiebreakerName }

// FullyInformed is false as a batch elimination changes the next round counts
func (t *LastDifferenceTiebreaker) FullyInformed() bool { return false }

// BreakTie implements Tiebreaker
func (t *LastDifferenceTiebreaker) BreakTie(candidates []Candidate, _ []decimal.Decimal, findWinner bool) (Candidate, bool) {
	return t.pairs.breakTie(candidates, findWinner)
}

// BeginTabulation forgets previous tabulations
func (t *LastDifferenceTiebreaker) BeginTabulation([]Ballot, int) {
	t.pairs = make(winPairs)
}

// UpdateTiebreaker overwrites outcomes with the latest differing counts
func (t *LastDifferenceTiebreaker) UpdateTiebreaker(states CandidateStates) bool {
	return t.pairs.updateFromVoteCounts(states, true)
}

// WinPairs implements WinPairsReporter
func (t *LastDifferenceTiebreaker) WinPairs() map[Candidate]map[Candidate]bool {
	return copyWinPairs(t.pairs)
}

// NewFirstDifferenceTiebreaker returns a first difference tiebreaker
func NewFirstDifferenceTiebreaker() *FirstDifferenceTiebreaker {
	return &FirstDifferenceTiebreaker{pairs: make(winPairs)}
}

// Name implements Tiebreaker
func (t *FirstDifferenceTiebreaker) Name() string { return FirstDifferenceTiebreakerName }

// FullyInformed is true as earlier rounds never change
func (t *FirstDifferenceTiebreaker) FullyInformed() bool { return true }

// BreakTie implements Tiebreaker
func (t *FirstDifferenceTiebreaker) BreakTie(candidates []Candidate, _ []decimal.Decimal, findWinner bool) (Candidate, bool) {
	return t.pairs.breakTie(candidates, findWinner)
}

// BeginTabulation forgets previous tabulations
func (t *FirstDifferenceTiebreaker) BeginTabulation([]Ballot, int) {
	t.pairs = make(winPairs)
}

// UpdateTiebreaker only records outcomes never seen before
func (t *FirstDifferenceTiebreaker) UpdateTiebreaker(states CandidateStates) bool {
	return t.pairs.updateFromVoteCounts(states, false)
}

// WinPairs implements WinPairsReporter
func (t *FirstDifferenceTiebreaker) WinPairs() map[Candidate]map[Candidate]bool {
	return copyWinPairs(t.pairs)
}

// NewPairwiseTiebreaker returns a head to head tiebreaker
func NewPairwiseTiebreaker() *PairwiseTiebreaker {
	return &PairwiseTiebreaker{pairs: make(winPairs)}
}

// Name implements Tiebreaker
func (t *PairwiseTiebreaker) Name() string { return PairwiseTiebreakerName }

// FullyInformed is true as pairwise outcomes are fixed for the whole run
func (t *PairwiseTiebreaker) FullyInformed() bool { return true }

// BreakTie implements Tiebreaker
func (t *PairwiseTiebreaker) BreakTie(candidates []Candidate, _ []decimal.Decimal, findWinner bool) (Candidate, bool) {
	return t.pairs.breakTie(candidates, findWinner)
}

// BeginTabulation builds the head to head outcomes from the ballots
func (t *PairwiseTiebreaker) BeginTabulation(ballots []Ballot, _ int) {
	t.pairs = make(winPairs)
	g := NewPairwiseGraph(ballots)
	for _, a := range g.candidates {
		for _, b := range g.Wins(a, nil) {
			t.pairs.set(a, b, true)
		}
	}
}

// WinPairs implements WinPairsReporter
func (t *PairwiseTiebreaker) WinPairs() map[Candidate]map[Candidate]bool {
	return copyWinPairs(t.pairs)
}

// NewRandomTiebreaker returns a random tiebreaker using the provided seed
func NewRandomTiebreaker(seed uint64) *RandomTiebreaker {
	t := &RandomTiebreaker{seed: seed}
	t.reset()
	return t
}

// reset restarts the generator from the seed and forgets the order
func (t *RandomTiebreaker) reset() {
	t.rng = rand.New(rand.NewPCG(t.seed, t.seed^randomTiebreakerStream))
	t.order = make(map[Candidate]int)
}

// extend appends unknown candidates to the order in random order
func (t *RandomTiebreaker) extend(candidates []Candidate) {
	var unknown []Candidate
	for _, c := range candidates {
		if _, ok := t.order[c]; !ok {
			unknown = append(unknown, c)
		}
	}
	sortCandidates(unknown)
	t.rng.Shuffle(len(unknown), func(i, j int) {
		unknown[i], unknown[j] = unknown[j], unknown[i]
	})
	for _, c := range unknown {
		t.order[c] = len(t.order)
	}
}

// Name implements Tiebreaker
func (t *RandomTiebreaker) Name() string { return RandomTiebreakerName }

// FullyInformed implements Tiebreaker
func (t *RandomTiebreaker) FullyInformed() bool { return true }

// BreakTie always decides
func (t *RandomTiebreaker) BreakTie(candidates []Candidate, _ []decimal.Decimal, findWinner bool) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	t.extend(candidates)
	best := candidates[0]
	for _, c := range candidates[1:] {
		if (t.order[c] < t.order[best]) == findWinner {
			best = c
		}
	}
	return best, true
}

// BeginTabulation draws the order of all ballot candidates
func (t *RandomTiebreaker) BeginTabulation(ballots []Ballot, _ int) {
	t.reset()
	t.extend(ballotCandidates(ballots))
}

// WinPairs implements WinPairsReporter
func (t *RandomTiebreaker) WinPairs() map[Candidate]map[Candidate]bool {
	pairs := make(winPairs)
	for a, i := range t.order {
		for b, j := range t.order {
			if a != b {
				pairs.set(a, b, i < j)
			}
		}
	}
	return pairs
}

// Name implements Tiebreaker
func (LexicographicTiebreaker) Name() string { return LexicographicTiebreakerName }

// FullyInformed implements Tiebreaker
func (LexicographicTiebreaker) FullyInformed() bool { return true }

// BreakTie picks the first name as winner and the last one as loser
func (LexicographicTiebreaker) BreakTie(candidates []Candidate, _ []decimal.Decimal, findWinner bool) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	sorted := sortCandidates(append([]Candidate(nil), candidates...))
	if findWinner {
		return sorted[0], true
	}
	return sorted[len(sorted)-1], true
}
