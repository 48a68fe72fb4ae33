package votecount

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/jackc/fake"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// parseTestBallots parses ballots in the file format, one per argument
func parseTestBallots(t *testing.T, lines ...string) []Ballot {
	t.Helper()
	ballots, err := ParseBallots(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	return ballots
}

// candidates returns candidates from names
func candidates(names ...string) []Candidate {
	out := make([]Candidate, len(names))
	for i, name := range names {
		out[i] = NewCandidate(name)
	}
	return out
}

// testOptions returns options with a silent logger
func testOptions() Options {
	nop := zerolog.Nop()
	return Options{Logger: &nop}
}

// newTestTabulator returns a tabulator running the method with a silent logger
func newTestTabulator(t *testing.T, method Method, options Options) *Tabulator {
	t.Helper()
	if options.Logger == nil {
		nop := zerolog.Nop()
		options.Logger = &nop
	}
	r, err := NewTabulator(method, options)
	require.NoError(t, err)
	return r
}

// tabulate runs a tabulation of the named method
func tabulate(t *testing.T, name string, ballots []Ballot, seats int) CandidateStates {
	t.Helper()
	method, err := NewMethod(name)
	require.NoError(t, err)
	states, err := newTestTabulator(t, method, testOptions()).Tabulate(ballots, nil, seats)
	require.NoError(t, err)
	return states
}

// randomCandidateNames returns n distinct names
func randomCandidateNames(n int) []string {
	seen := make(map[string]bool)
	var names []string
	for len(names) < n {
		name := fmt.Sprintf("%s%d", fake.FirstName(), len(names))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// randomBallots returns count ballots ranking a random prefix of a random
// permutation of names
func randomBallots(t *testing.T, rng *rand.Rand, names []string, count int) []Ballot {
	t.Helper()
	ballots := make([]Ballot, 0, count)
	for range count {
		perm := rng.Perm(len(names))
		length := 1 + rng.IntN(len(names))
		ranked := make([]Candidate, length)
		for i := range length {
			ranked[i] = NewCandidate(names[perm[i]])
		}
		ballot, err := NewRankedBallot(ranked...)
		require.NoError(t, err)
		ballots = append(ballots, ballot)
	}
	return ballots
}

// stubMethod is a method whose rounds are driven by the test
type stubMethod struct {
	tabulateRound func(t *Tabulation) (RoundResult, error)
}

func (m *stubMethod) Name() string { return "stub" }

func (m *stubMethod) InitializeTabulation(*Tabulation) error { return nil }

func (m *stubMethod) CountBallot(t *Tabulation, ballot Ballot) error {
	return countFirstContender(t, ballot)
}

func (m *stubMethod) TabulateRound(t *Tabulation) (RoundResult, error) {
	return m.tabulateRound(t)
}

// dec parses a decimal and panics on error
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testStates builds candidate states from status and vote count pairs
func testStates(entries map[string]CandidateState) CandidateStates {
	states := make(CandidateStates, len(entries))
	for name, state := range entries {
		if state.KeepFactor.IsZero() && state.Status != Defeated {
			state.KeepFactor = decimal.NewFromInt(1)
		}
		states[NewCandidate(name)] = state
	}
	return states
}

// assertStatesEqual compares candidate states by decimal value
func assertStatesEqual(t *testing.T, expected, actual CandidateStates, msgAndArgs ...any) {
	t.Helper()
	require.Len(t, actual, len(expected), msgAndArgs...)
	for c, want := range expected {
		got, ok := actual[c]
		require.True(t, ok, msgAndArgs...)
		require.Equal(t, want.Status, got.Status, msgAndArgs...)
		require.True(t, want.VoteCount.Equal(got.VoteCount), msgAndArgs...)
		require.True(t, want.KeepFactor.Equal(got.KeepFactor), msgAndArgs...)
	}
}
