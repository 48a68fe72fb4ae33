package votecount

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// NewCandidate returns a candidate with the provided name
func NewCandidate(name string) Candidate {
	return Candidate{Name: name}
}

// String return the name of the candidate
func (c Candidate) String() string {
	return c.Name
}

// compareCandidates orders candidates by name
func compareCandidates(a, b Candidate) int {
	return strings.Compare(a.Name, b.Name)
}

// sortCandidates sorts candidates by name in place and return them
func sortCandidates(candidates []Candidate) []Candidate {
	slices.SortFunc(candidates, compareCandidates)
	return candidates
}

// String return a human readable status
func (s CandidateStatus) String() string {
	switch s {
	case Elected:
		return "elected"
	case Defeated:
		return "defeated"
	}
	return "hopeful"
}

// ParseCandidateStatus is the reverse of String
func ParseCandidateStatus(s string) (CandidateStatus, error) {
	switch s {
	case "hopeful":
		return Hopeful, nil
	case "elected":
		return Elected, nil
	case "defeated":
		return Defeated, nil
	}
	return Hopeful, fmt.Errorf("%w: unknown candidate status %q", ErrInvalidArgument, s)
}

// newCandidateState returns the initial state for the provided status
func newCandidateState(status CandidateStatus) CandidateState {
	state := CandidateState{
		Status:     status,
		VoteCount:  decimal.Zero,
		KeepFactor: decimal.NewFromInt(1),
	}
	if status == Defeated {
		state.KeepFactor = decimal.Zero
	}
	return state
}

// Copy returns an independent copy of the snapshot
func (s CandidateStates) Copy() CandidateStates {
	if s == nil {
		return nil
	}
	out := make(CandidateStates, len(s))
	for c, state := range s {
		out[c] = state
	}
	return out
}

// WithStatus returns candidates with the provided status sorted by name
func (s CandidateStates) WithStatus(status CandidateStatus) []Candidate {
	var out []Candidate
	for c, state := range s {
		if state.Status == status {
			out = append(out, c)
		}
	}
	return sortCandidates(out)
}

// Winners returns elected candidates sorted by name
func (s CandidateStates) Winners() []Candidate {
	return s.WithStatus(Elected)
}

// TotalVotes returns the sum of all vote counts
func (s CandidateStates) TotalVotes() decimal.Decimal {
	total := decimal.Zero
	for _, state := range s {
		total = total.Add(state.VoteCount)
	}
	return total
}

// NewCandidateSet returns a set holding the provided candidates
func NewCandidateSet(candidates ...Candidate) CandidateSet {
	set := make(CandidateSet, len(candidates))
	for _, c := range candidates {
		set[c] = struct{}{}
	}
	return set
}

// Contains tells if the candidate is part of the set
func (s CandidateSet) Contains(c Candidate) bool {
	_, ok := s[c]
	return ok
}

// Slice returns set members sorted by name
func (s CandidateSet) Slice() []Candidate {
	out := make([]Candidate, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	return sortCandidates(out)
}

// newCandidateArena returns an empty arena
func newCandidateArena() *candidateArena {
	return &candidateArena{index: make(map[Candidate]int)}
}

// add registers the candidate with the provided status if not yet seen
// and returns its id
func (a *candidateArena) add(c Candidate, status CandidateStatus) int {
	if id, ok := a.index[c]; ok {
		return id
	}
	id := len(a.candidates)
	a.index[c] = id
	a.candidates = append(a.candidates, c)
	a.states = append(a.states, newCandidateState(status))
	return id
}

// get returns a pointer to the state of the candidate
func (a *candidateArena) get(c Candidate) (*CandidateState, bool) {
	id, ok := a.index[c]
	if !ok {
		return nil, false
	}
	return &a.states[id], true
}

// count returns how many candidates have the provided status
func (a *candidateArena) count(status CandidateStatus) int {
	total := 0
	for i := range a.states {
		if a.states[i].Status == status {
			total++
		}
	}
	return total
}

// withStatus returns candidates with the provided status in arena order
func (a *candidateArena) withStatus(status CandidateStatus) []Candidate {
	var out []Candidate
	for i := range a.states {
		if a.states[i].Status == status {
			out = append(out, a.candidates[i])
		}
	}
	return out
}

// zeroVoteCounts resets every vote count
func (a *candidateArena) zeroVoteCounts() {
	for i := range a.states {
		a.states[i].VoteCount = decimal.Zero
	}
}

// snapshot returns a deep copy of all states
func (a *candidateArena) snapshot() CandidateStates {
	out := make(CandidateStates, len(a.candidates))
	for i, c := range a.candidates {
		out[c] = a.states[i]
	}
	return out
}
