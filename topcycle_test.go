package votecount

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

func TestTopCycle(t *testing.T) {
	assert := assert.New(t)

	t.Run("condorcet_winner", func(t *testing.T) {
		tc := NewTopCycle(NewPairwiseGraph(parseTestBallots(t, "3:A>B>C", "2:B>C>A")))
		assert.Equal(candidates("A"), tc.Smith(nil))
		assert.Equal(candidates("A"), tc.Schwartz(nil))
	})

	t.Run("three_way_cycle", func(t *testing.T) {
		tc := NewTopCycle(NewPairwiseGraph(parseTestBallots(t, "A>B>C", "B>C>A", "C>A>B")))
		assert.Equal(candidates("A", "B", "C"), tc.Smith(nil))
		assert.Equal(candidates("A", "B", "C"), tc.Schwartz(nil))
		assert.Equal(candidates("A"), tc.Get(SchwartzSet, NewCandidateSet(NewCandidate("C"))))
	})

	t.Run("schwartz_smaller_than_smith", func(t *testing.T) {
		// A beats B, B ties C and C ties A
		tc := NewTopCycle(NewPairwiseGraph(parseTestBallots(t, "A>B>C", "C>A>B")))
		assert.Equal(candidates("A", "B", "C"), tc.Smith(nil))
		assert.Equal(candidates("A", "C"), tc.Schwartz(nil))
	})

	t.Run("empty_universe", func(t *testing.T) {
		tc := NewTopCycle(NewPairwiseGraph(parseTestBallots(t, "A>B")))
		assert.Empty(tc.Smith(NewCandidateSet(candidates("A", "B")...)))
		assert.Empty(tc.Schwartz(NewCandidateSet(candidates("A", "B")...)))
	})

	t.Run("set_name", func(t *testing.T) {
		assert.Equal("smith", SmithSet.String())
		assert.Equal("schwartz", SchwartzSet.String())
	})

	t.Run("random_graphs", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(7, 11))
		for range 50 {
			names := randomCandidateNames(2 + rng.IntN(6))
			g := NewPairwiseGraph(randomBallots(t, rng, names, 1+rng.IntN(12)))
			tc := NewTopCycle(g)

			withdrawn := make(CandidateSet)
			for _, name := range names {
				if rng.IntN(4) == 0 {
					withdrawn[NewCandidate(name)] = struct{}{}
				}
			}
			smith := NewCandidateSet(tc.Smith(withdrawn)...)
			schwartz := tc.Schwartz(withdrawn)
			for _, c := range schwartz {
				assert.True(smith.Contains(c))
			}
			if len(withdrawn) < len(g.Candidates()) {
				assert.NotEmpty(schwartz)
			}

			if winner, ok := g.CondorcetWinner(nil); ok {
				assert.Equal([]Candidate{winner}, tc.Smith(nil))
				assert.Equal([]Candidate{winner}, tc.Schwartz(nil))
			}
		}
	})

	t.Run("components_match_gonum", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(3, 5))
		for range 30 {
			names := randomCandidateNames(3 + rng.IntN(5))
			g := NewPairwiseGraph(randomBallots(t, rng, names, 1+rng.IntN(9)))
			for _, includeTies := range []bool{true, false} {
				universe := NewCandidateSet(g.Candidates()...)
				f := newSCCFinder(g, universe, includeTies)
				f.run()

				dg := simple.NewDirectedGraph()
				for i := range g.candidates {
					dg.AddNode(simple.Node(i))
				}
				for i, c := range g.candidates {
					for _, d := range f.neighbors(c) {
						dg.SetEdge(dg.NewEdge(simple.Node(i), simple.Node(g.index[d])))
					}
				}

				var expected []string
				for _, component := range topo.TarjanSCC(dg) {
					var members []Candidate
					for _, n := range component {
						members = append(members, g.candidates[n.ID()])
					}
					expected = append(expected, componentKey(members))
				}
				var found []string
				for _, component := range f.components {
					found = append(found, componentKey(component))
				}
				slices.Sort(expected)
				slices.Sort(found)
				assert.Equal(expected, found)
			}
		}
	})
}

// componentKey returns a comparable representation of a component
func componentKey(members []Candidate) string {
	sorted := sortCandidates(append([]Candidate(nil), members...))
	names := make([]string, len(sorted))
	for i, c := range sorted {
		names[i] = c.Name
	}
	return strings.Join(names, ",")
}
