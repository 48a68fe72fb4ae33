package votecount

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

const (
	// ballotRankSeparator separates candidates in the textual ballot format
	ballotRankSeparator string = ">"

	// ballotCountSeparator separates the optional repeat count from the ballot
	ballotCountSeparator string = ":"

	// ballotComment starts a comment line in a ballot file
	ballotComment string = "#"

	// ballotEqualRank is not supported by the textual format
	ballotEqualRank string = "="
)

// Beats tells if this vote is strictly preferred to the provided one
func (v RankedVote) Beats(vote RankedVote) bool {
	return v.Value < vote.Value
}

// NewBallot builds an immutable ballot from the provided votes.
// Votes are copied and sorted by preference value
func NewBallot(votes ...RankedVote) (Ballot, error) {
	if len(votes) == 0 {
		return Ballot{}, ErrEmptyBallot
	}
	seen := make(CandidateSet, len(votes))
	sorted := make([]RankedVote, len(votes))
	copy(sorted, votes)
	for _, v := range sorted {
		if seen.Contains(v.Candidate) {
			return Ballot{}, fmt.Errorf("%w: %s", ErrDuplicateCandidate, v.Candidate)
		}
		seen[v.Candidate] = struct{}{}
	}
	slices.SortStableFunc(sorted, func(a, b RankedVote) int {
		return cmp.Compare(a.Value, b.Value)
	})
	return Ballot{votes: sorted}, nil
}

// NewRankedBallot builds a ballot ranking candidates in the provided order
func NewRankedBallot(candidates ...Candidate) (Ballot, error) {
	votes := make([]RankedVote, len(candidates))
	for i, c := range candidates {
		votes[i] = RankedVote{Candidate: c, Value: i + 1}
	}
	return NewBallot(votes...)
}

// Votes returns a copy of the ballot votes sorted by preference
func (b Ballot) Votes() []RankedVote {
	out := make([]RankedVote, len(b.votes))
	copy(out, b.votes)
	return out
}

// Len returns the number of ranked candidates
func (b Ballot) Len() int {
	return len(b.votes)
}

// Rank returns the preference value of the candidate, if ranked
func (b Ballot) Rank(c Candidate) (int, bool) {
	for _, v := range b.votes {
		if v.Candidate == c {
			return v.Value, true
		}
	}
	return 0, false
}

// String returns the ballot in the textual format A>B>C
func (b Ballot) String() string {
	names := make([]string, len(b.votes))
	for i, v := range b.votes {
		names[i] = v.Candidate.Name
	}
	return strings.Join(names, ballotRankSeparator)
}

// ParseBallot parses a ballot like Chris>Alice>Bob.
// Equal ranks cannot be expressed, NewBallot accepts them
func ParseBallot(s string) (Ballot, error) {
	if strings.Contains(s, ballotEqualRank) {
		return Ballot{}, fmt.Errorf("%w: equal ranks in %q", ErrMalformedBallot, s)
	}
	var candidates []Candidate
	for _, name := range strings.Split(s, ballotRankSeparator) {
		name = strings.TrimSpace(name)
		if name == "" {
			return Ballot{}, fmt.Errorf("%w: %q", ErrMalformedBallot, s)
		}
		candidates = append(candidates, NewCandidate(name))
	}
	return NewRankedBallot(candidates...)
}

// ParseBallots reads one ballot per line with an optional repeat count
// like 3:Chris>Alice>Bob. Empty lines and lines starting with # are skipped
func ParseBallots(r io.Reader) ([]Ballot, error) {
	var ballots []Ballot
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, ballotComment) {
			continue
		}
		count := 1
		if before, after, found := strings.Cut(text, ballotCountSeparator); found {
			n, err := strconv.Atoi(strings.TrimSpace(before))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: line %d: bad count %q", ErrMalformedBallot, line, before)
			}
			count, text = n, after
		}
		ballot, err := ParseBallot(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for range count {
			ballots = append(ballots, ballot)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ballots, nil
}

// ballotCandidates returns every candidate ranked on the ballots
// in order of first appearance
func ballotCandidates(ballots []Ballot) []Candidate {
	seen := make(CandidateSet)
	var out []Candidate
	for _, b := range ballots {
		for _, v := range b.votes {
			if !seen.Contains(v.Candidate) {
				seen[v.Candidate] = struct{}{}
				out = append(out, v.Candidate)
			}
		}
	}
	return out
}
