package votecount

// RankedVote binds a candidate to an ordinal preference.
// The lower the value, the more preferred the candidate
type RankedVote struct {
	// Candidate is the ranked candidate
	Candidate Candidate

	// Value is the ordinal preference
	Value int
}

// Ballot is an ordered sequence of ranked votes.
// It is immutable once built, use NewBallot or ParseBallot
type Ballot struct {
	// votes are sorted by increasing preference value
	votes []RankedVote
}
