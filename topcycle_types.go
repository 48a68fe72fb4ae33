package votecount

// TopCycleSet selects which top cycle to compute
type TopCycleSet uint8

const (
	// SmithSet is the smallest non empty set whose members beat or tie
	// every non member
	SmithSet TopCycleSet = iota

	// SchwartzSet is the union of the smallest sets whose members are
	// never beaten by a non member. It is always a subset of the SmithSet
	SchwartzSet
)

// TopCycle computes Smith and Schwartz sets from a pairwise graph
type TopCycle struct {
	// graph is the pairwise graph of the whole ballot set
	graph *PairwiseGraph
}

// sccFinder runs Tarjan's strongly connected component algorithm
// over the pairwise graph restricted to a candidate universe
type sccFinder struct {
	// graph is the pairwise graph
	graph *PairwiseGraph

	// universe restricts the nodes visited
	universe CandidateSet

	// includeTies adds tie edges to win edges, used for the Smith set
	includeTies bool

	// next is the next discovery index to hand out
	next int

	// nodeIndex is the discovery index of visited nodes
	nodeIndex map[Candidate]int

	// lowLink is the smallest discovery index reachable from the node
	// through nodes still on the stack
	lowLink map[Candidate]int

	// stack holds visited nodes not yet assigned to a component
	stack []Candidate

	// onStack tells if a node is on stack
	onStack map[Candidate]bool

	// components holds found components in discovery order
	components [][]Candidate

	// componentOf maps a node to its position in components
	componentOf map[Candidate]int
}
