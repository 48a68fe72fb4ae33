package votecount

import (
	"fmt"
	"time"

	"github.com/Lord-Y/votecount/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewTabulator returns a tabulator running the provided method
func NewTabulator(method Method, options Options) (*Tabulator, error) {
	if method == nil {
		return nil, ErrNilMethod
	}
	if options.Precision == 0 {
		options.Precision = defaultPrecision
	}
	if options.Precision < 1 || options.Precision > maxPrecision {
		return nil, ErrInvalidPrecision
	}
	if options.Logger == nil {
		options.Logger = logger.NewLogger()
	}
	chain := options.Tiebreaker
	if chain == nil {
		var err error
		if chain, err = NewTiebreakerChainFromNames(options.TiebreakerNames, options.TiebreakerSeed); err != nil {
			return nil, err
		}
	}

	m, err := newMetrics(method.Name(), options.MetricsNamespacePrefix)
	if err != nil {
		return nil, err
	}

	r := &Tabulator{
		Logger:     options.Logger,
		method:     method,
		options:    options,
		mediator:   NewMediator(),
		tiebreaker: chain,
		metrics:    m,
	}
	chain.attach(r)
	for _, o := range options.Observers {
		r.mediator.Subscribe(o)
	}
	return r, nil
}

// Subscribe adds an observer notified of every tabulation event
func (r *Tabulator) Subscribe(observer Observer) {
	r.mediator.Subscribe(observer)
}

// Method returns the tabulation method
func (r *Tabulator) Method() Method {
	return r.method
}

// Tiebreaker returns the tiebreaker chain
func (r *Tabulator) Tiebreaker() *TiebreakerChain {
	return r.tiebreaker
}

// Tabulate performs a complete tabulation of the provided ballots.
// Withdrawn candidates are defeated before the first count.
// The final candidate states are returned
func (r *Tabulator) Tabulate(ballots []Ballot, withdrawn []Candidate, seats int) (CandidateStates, error) {
	if seats < 1 {
		return nil, ErrInvalidSeats
	}
	if len(ballots) == 0 {
		return nil, ErrNoBallots
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	t := &Tabulation{
		ID:         uuid.NewString(),
		Seats:      seats,
		ballots:    append([]Ballot(nil), ballots...),
		arena:      newCandidateArena(),
		tiebreaker: r.tiebreaker,
		options:    r.options,
		logger:     r.Logger,
	}
	for _, c := range withdrawn {
		t.arena.add(c, Defeated)
	}

	if err := r.method.InitializeTabulation(t); err != nil {
		return nil, err
	}
	r.mediator.BeginTabulation(TabulationBeginEvent{
		TabulationID: t.ID,
		Method:       r.method.Name(),
		Ballots:      t.ballots,
		Seats:        seats,
	})
	r.Logger.Info().
		Str("tabulationId", t.ID).
		Str("method", r.method.Name()).
		Str("ballots", fmt.Sprintf("%d", len(t.ballots))).
		Str("withdrawn", fmt.Sprintf("%d", len(withdrawn))).
		Str("seats", fmt.Sprintf("%d", seats)).
		Msgf("Tabulation started")

	for {
		t.Round++
		if r.options.MaxRounds > 0 && t.Round > r.options.MaxRounds {
			return nil, fmt.Errorf("%w: %d", ErrRoundLimitExceeded, r.options.MaxRounds)
		}
		if err := t.countBallots(r.method); err != nil {
			return nil, err
		}
		result, err := r.method.TabulateRound(t)
		if err != nil {
			return nil, err
		}
		if elected := t.arena.count(Elected); elected > seats {
			return nil, fmt.Errorf("%w: %d elected for %d seats", ErrTooManyElected, elected, seats)
		}

		r.metrics.roundComplete(len(result.Elected), len(result.Defeated))
		r.Logger.Debug().
			Str("tabulationId", t.ID).
			Str("method", r.method.Name()).
			Str("round", fmt.Sprintf("%d", t.Round)).
			Str("elected", fmt.Sprintf("%v", result.Elected)).
			Str("defeated", fmt.Sprintf("%v", result.Defeated)).
			Str("hopeful", fmt.Sprintf("%d", t.arena.count(Hopeful))).
			Msgf("Round complete")

		r.mediator.CompleteRound(RoundCompleteEvent{
			TabulationID:    t.ID,
			Round:           t.Round,
			CandidateStates: t.Snapshot(),
			Note:            result.Note,
		})
		if t.isComplete() {
			break
		}
	}

	// final count so that reported totals match the final states
	if err := t.countBallots(r.method); err != nil {
		return nil, err
	}
	final := t.Snapshot()
	r.metrics.tabulationComplete(start)
	r.Logger.Info().
		Str("tabulationId", t.ID).
		Str("method", r.method.Name()).
		Str("rounds", fmt.Sprintf("%d", t.Round)).
		Str("winners", fmt.Sprintf("%v", final.Winners())).
		Msgf("Tabulation complete")

	r.mediator.CompleteTabulation(TabulationCompleteEvent{
		TabulationID:    t.ID,
		Rounds:          t.Round,
		CandidateStates: final,
	})
	return final, nil
}

// countBallots registers unseen candidates as hopeful, zeroes all counts
// and lets the method count every ballot
func (t *Tabulation) countBallots(method Method) error {
	for _, b := range t.ballots {
		for _, v := range b.votes {
			t.arena.add(v.Candidate, Hopeful)
		}
	}
	t.arena.zeroVoteCounts()

	if counter, ok := method.(BallotsCounter); ok {
		return counter.CountBallots(t)
	}
	for _, b := range t.ballots {
		if err := method.CountBallot(t, b); err != nil {
			return err
		}
	}
	return nil
}

// isComplete tells if no candidate is hopeful anymore
func (t *Tabulation) isComplete() bool {
	return t.arena.count(Hopeful) == 0
}

// Ballots returns the ballots being tabulated
func (t *Tabulation) Ballots() []Ballot {
	return append([]Ballot(nil), t.ballots...)
}

// Candidates returns every known candidate in order of first observation
func (t *Tabulation) Candidates() []Candidate {
	return append([]Candidate(nil), t.arena.candidates...)
}

// State returns a copy of the candidate state
func (t *Tabulation) State(c Candidate) (CandidateState, bool) {
	state, ok := t.arena.get(c)
	if !ok {
		return CandidateState{}, false
	}
	return *state, true
}

// Hopefuls returns hopeful candidates in order of first observation
func (t *Tabulation) Hopefuls() []Candidate {
	return t.arena.withStatus(Hopeful)
}

// Elected returns elected candidates in order of first observation
func (t *Tabulation) Elected() []Candidate {
	return t.arena.withStatus(Elected)
}

// Defeated returns defeated candidates in order of first observation
func (t *Tabulation) Defeated() []Candidate {
	return t.arena.withStatus(Defeated)
}

// Snapshot returns a deep copy of every candidate state
func (t *Tabulation) Snapshot() CandidateStates {
	return t.arena.snapshot()
}

// Tiebreaker returns the tiebreaker chain
func (t *Tabulation) Tiebreaker() *TiebreakerChain {
	return t.tiebreaker
}

// Precision returns the configured decimal precision
func (t *Tabulation) Precision() int {
	return t.options.Precision
}

// BatchElimination tells if runoff eliminations may defeat several candidates at once
func (t *Tabulation) BatchElimination() bool {
	return t.options.BatchElimination
}

// ActiveVotes returns the sum of all vote counts
func (t *Tabulation) ActiveVotes() decimal.Decimal {
	return t.arena.snapshot().TotalVotes()
}

// AddVotes adds amount to the vote count of the candidate
func (t *Tabulation) AddVotes(c Candidate, amount decimal.Decimal) error {
	state, ok := t.arena.get(c)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCandidate, c)
	}
	state.VoteCount = state.VoteCount.Add(amount)
	return nil
}

// SetStatus moves a hopeful candidate to the elected or defeated status.
// Defeated candidates get a keep factor of zero
func (t *Tabulation) SetStatus(c Candidate, status CandidateStatus) error {
	state, ok := t.arena.get(c)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCandidate, c)
	}
	if state.Status == status {
		return nil
	}
	if state.Status != Hopeful || status == Hopeful {
		return fmt.Errorf("%w: %s from %s to %s", ErrInvalidStateTransition, c, state.Status, status)
	}
	state.Status = status
	if status == Defeated {
		state.KeepFactor = decimal.Zero
	}
	return nil
}

// setStatuses applies the status to all candidates
func (t *Tabulation) setStatuses(candidates []Candidate, status CandidateStatus) error {
	for _, c := range candidates {
		if err := t.SetStatus(c, status); err != nil {
			return err
		}
	}
	return nil
}

// IsFinalRound tells if all seats are filled or if there are
// only as many hopefuls as open seats
func (t *Tabulation) IsFinalRound() bool {
	possibleWinners := t.arena.count(Elected)
	if possibleWinners < t.Seats {
		possibleWinners += t.arena.count(Hopeful)
	}
	return possibleWinners <= t.Seats
}

// SetFinalWinners elects remaining hopefuls when they fit in the open seats,
// or defeats them when every seat is filled. Nothing happens when
// IsFinalRound is false
func (t *Tabulation) SetFinalWinners() (RoundResult, error) {
	var result RoundResult
	if !t.IsFinalRound() {
		return result, nil
	}

	elected, hopefuls := t.arena.count(Elected), t.Hopefuls()
	switch {
	case elected+len(hopefuls) <= t.Seats:
		result.Elected = hopefuls
		result.Note = "remaining hopefuls fill the open seats"
	case elected == t.Seats:
		result.Defeated = hopefuls
		result.Note = "all seats are filled"
	}
	if err := t.setStatuses(result.Elected, Elected); err != nil {
		return result, err
	}
	if err := t.setStatuses(result.Defeated, Defeated); err != nil {
		return result, err
	}
	return result, nil
}
