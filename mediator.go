package votecount

// Notify calls f(event)
func (f ObserverFunc) Notify(event Event) {
	f(event)
}

// Kind implements Event
func (TabulationBeginEvent) Kind() EventKind { return TabulationBegin }

// Kind implements Event
func (RoundCompleteEvent) Kind() EventKind { return RoundComplete }

// Kind implements Event
func (TiebreakerStateEvent) Kind() EventKind { return TiebreakerStateChanged }

// Kind implements Event
func (TabulationCompleteEvent) Kind() EventKind { return TabulationComplete }

// String return a human readable event kind
func (k EventKind) String() string {
	switch k {
	case TabulationBegin:
		return "tabulationBegin"
	case RoundComplete:
		return "roundComplete"
	case TiebreakerStateChanged:
		return "tiebreakerStateChanged"
	}
	return "tabulationComplete"
}

// NewMediator returns a mediator without observers
func NewMediator() *Mediator {
	return &Mediator{}
}

// Subscribe appends the observer to the notification list
func (m *Mediator) Subscribe(observer Observer) {
	if observer == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, observer)
}

// getObservers returns a copy of the observer list so that observers
// can subscribe from within Notify
func (m *Mediator) getObservers() []Observer {
	m.mu.Lock()
	defer m.mu.Unlock()
	observers := make([]Observer, len(m.observers))
	copy(observers, m.observers)
	return observers
}

// dispatch runs deliver against the observers, or queues it when
// another dispatch is in progress. Queued deliveries are drained in order
// by the dispatching caller
func (m *Mediator) dispatch(deliver func([]Observer)) {
	m.mu.Lock()
	if m.dispatching {
		m.pending = append(m.pending, deliver)
		m.mu.Unlock()
		return
	}
	m.dispatching = true
	m.mu.Unlock()

	// a panicking observer must not leave the mediator dispatching
	defer func() {
		if deliver != nil {
			m.mu.Lock()
			m.dispatching = false
			m.pending = nil
			m.mu.Unlock()
		}
	}()

	for deliver != nil {
		deliver(m.getObservers())

		m.mu.Lock()
		deliver = nil
		if len(m.pending) > 0 {
			deliver = m.pending[0]
			m.pending[0] = nil
			m.pending = m.pending[1:]
		} else {
			m.dispatching = false
			m.pending = nil
		}
		m.mu.Unlock()
	}
}

// BeginTabulation informs observers of a tabulation beginning
func (m *Mediator) BeginTabulation(event TabulationBeginEvent) {
	m.dispatch(func(observers []Observer) {
		for _, o := range observers {
			e := event
			e.Ballots = make([]Ballot, len(event.Ballots))
			copy(e.Ballots, event.Ballots)
			o.Notify(e)
		}
	})
}

// CompleteRound informs observers of a completed round.
// Each observer receives its own copy of the candidate states
func (m *Mediator) CompleteRound(event RoundCompleteEvent) {
	event.CandidateStates = event.CandidateStates.Copy()
	m.dispatch(func(observers []Observer) {
		for _, o := range observers {
			e := event
			e.CandidateStates = event.CandidateStates.Copy()
			o.Notify(e)
		}
	})
}

// ChangeTiebreakerState informs observers of new tiebreaker win pairs
func (m *Mediator) ChangeTiebreakerState(event TiebreakerStateEvent) {
	event.WinPairs = copyWinPairs(event.WinPairs)
	m.dispatch(func(observers []Observer) {
		for _, o := range observers {
			e := event
			e.WinPairs = copyWinPairs(event.WinPairs)
			o.Notify(e)
		}
	})
}

// CompleteTabulation informs observers of a completed tabulation.
// Each observer receives its own copy of the candidate states
func (m *Mediator) CompleteTabulation(event TabulationCompleteEvent) {
	event.CandidateStates = event.CandidateStates.Copy()
	m.dispatch(func(observers []Observer) {
		for _, o := range observers {
			e := event
			e.CandidateStates = event.CandidateStates.Copy()
			o.Notify(e)
		}
	})
}

// copyWinPairs returns a deep copy of win pairs
func copyWinPairs(winPairs map[Candidate]map[Candidate]bool) map[Candidate]map[Candidate]bool {
	out := make(map[Candidate]map[Candidate]bool, len(winPairs))
	for a, row := range winPairs {
		out[a] = make(map[Candidate]bool, len(row))
		for b, wins := range row {
			out[a][b] = wins
		}
	}
	return out
}
