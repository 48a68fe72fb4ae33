package votecount

import "sync"

// EventKind identifies a notification
type EventKind uint8

const (
	// TabulationBegin is sent once the tabulation is initialized
	TabulationBegin EventKind = iota

	// RoundComplete is sent after each tabulation round
	RoundComplete

	// TiebreakerStateChanged is sent when a tiebreaker learned new win pairs
	TiebreakerStateChanged

	// TabulationComplete is sent after the final count
	TabulationComplete
)

// Event is a notification published to observers
type Event interface {
	// Kind returns the kind of event
	Kind() EventKind
}

// Observer receives tabulation notifications.
// Notify is called synchronously on the tabulating goroutine
type Observer interface {
	Notify(event Event)
}

// ObserverFunc is an adapter allowing a func to be used as Observer
type ObserverFunc func(event Event)

// TabulationBeginEvent announces a new tabulation
type TabulationBeginEvent struct {
	// TabulationID is the unique id of the tabulation run
	TabulationID string

	// Method is the name of the tabulation method
	Method string

	// Ballots being tabulated
	Ballots []Ballot

	// Seats to fill
	Seats int
}

// RoundCompleteEvent carries the candidate states at the end of a round
type RoundCompleteEvent struct {
	// TabulationID is the unique id of the tabulation run
	TabulationID string

	// Round number starting at 1
	Round uint

	// CandidateStates is a copy owned by the receiving observer
	CandidateStates CandidateStates

	// Note is an optional description of the round
	Note string
}

// TiebreakerStateEvent carries the win pairs learned by a tiebreaker
type TiebreakerStateEvent struct {
	// TabulationID is the unique id of the tabulation run
	TabulationID string

	// Strategy is the name of the tiebreaker
	Strategy string

	// WinPairs[a][b] is true when a wins a tie against b
	WinPairs map[Candidate]map[Candidate]bool

	// Note is an optional description
	Note string
}

// TabulationCompleteEvent carries the final candidate states
type TabulationCompleteEvent struct {
	// TabulationID is the unique id of the tabulation run
	TabulationID string

	// Rounds is the number of rounds performed
	Rounds uint

	// CandidateStates is a copy owned by the receiving observer
	CandidateStates CandidateStates

	// Note is an optional description
	Note string
}

// Mediator dispatches notifications between the tabulator, the tiebreakers
// and any external observer.
// Events published while a dispatch is in progress are queued and
// delivered in publication order once every observer received the
// current one
type Mediator struct {
	// mu protects observers, dispatching and pending
	mu sync.Mutex

	// observers in subscription order
	observers []Observer

	// dispatching is true while observers are being notified
	dispatching bool

	// pending holds deliveries published during a dispatch
	pending []func([]Observer)
}
