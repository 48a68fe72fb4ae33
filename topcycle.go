package votecount

// String return a human readable top cycle name
func (s TopCycleSet) String() string {
	if s == SchwartzSet {
		return "schwartz"
	}
	return "smith"
}

// NewTopCycle returns a top cycle analyzer reading the provided graph
func NewTopCycle(graph *PairwiseGraph) *TopCycle {
	return &TopCycle{graph: graph}
}

// Smith returns the Smith set of graph candidates minus withdrawn ones
func (t *TopCycle) Smith(withdrawn CandidateSet) []Candidate {
	return t.Get(SmithSet, withdrawn)
}

// Schwartz returns the Schwartz set of graph candidates minus withdrawn ones
func (t *TopCycle) Schwartz(withdrawn CandidateSet) []Candidate {
	return t.Get(SchwartzSet, withdrawn)
}

// Get returns the requested top cycle of graph candidates minus withdrawn ones,
// sorted by name. The Smith set is always computed first as the Schwartz set
// is only searched among its members
func (t *TopCycle) Get(set TopCycleSet, withdrawn CandidateSet) []Candidate {
	universe := make(CandidateSet)
	for _, c := range t.graph.candidates {
		if !withdrawn.Contains(c) {
			universe[c] = struct{}{}
		}
	}
	smith := t.dominatingSet(universe, true)
	if set == SmithSet {
		return smith
	}
	return t.dominatingSet(NewCandidateSet(smith...), false)
}

// dominatingSet returns the union of all components that no other
// component can reach
func (t *TopCycle) dominatingSet(universe CandidateSet, includeTies bool) []Candidate {
	if len(universe) == 0 {
		return nil
	}
	f := newSCCFinder(t.graph, universe, includeTies)
	f.run()

	// reachable[x][y] tells if component x reaches component y
	total := len(f.components)
	reachable := make([][]bool, total)
	for x := range reachable {
		reachable[x] = make([]bool, total)
	}
	for c := range universe {
		for _, d := range f.neighbors(c) {
			x, y := f.componentOf[c], f.componentOf[d]
			if x != y {
				reachable[x][y] = true
			}
		}
	}
	for k := range total {
		for x := range total {
			if !reachable[x][k] {
				continue
			}
			for y := range total {
				if reachable[k][y] {
					reachable[x][y] = true
				}
			}
		}
	}

	var out []Candidate
	for y := range total {
		dominated := false
		for x := range total {
			if x != y && reachable[x][y] {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, f.components[y]...)
		}
	}
	return sortCandidates(out)
}

// newSCCFinder returns a finder over the universe
func newSCCFinder(graph *PairwiseGraph, universe CandidateSet, includeTies bool) *sccFinder {
	return &sccFinder{
		graph:       graph,
		universe:    universe,
		includeTies: includeTies,
		nodeIndex:   make(map[Candidate]int, len(universe)),
		lowLink:     make(map[Candidate]int, len(universe)),
		onStack:     make(map[Candidate]bool, len(universe)),
		componentOf: make(map[Candidate]int, len(universe)),
	}
}

// neighbors returns the successors of c inside the universe
func (f *sccFinder) neighbors(c Candidate) []Candidate {
	out := f.graph.Wins(c, f.universe)
	if f.includeTies {
		out = append(out, f.graph.Ties(c, f.universe)...)
	}
	return out
}

// run visits every node of the universe in name order
func (f *sccFinder) run() {
	for _, c := range f.universe.Slice() {
		if _, visited := f.nodeIndex[c]; !visited {
			f.strongConnect(c)
		}
	}
}

// strongConnect is the depth first step of Tarjan's algorithm
func (f *sccFinder) strongConnect(c Candidate) {
	f.nodeIndex[c] = f.next
	f.lowLink[c] = f.next
	f.next++
	f.stack = append(f.stack, c)
	f.onStack[c] = true

	for _, d := range f.neighbors(c) {
		if _, visited := f.nodeIndex[d]; !visited {
			f.strongConnect(d)
			f.lowLink[c] = min(f.lowLink[c], f.lowLink[d])
		} else if f.onStack[d] {
			f.lowLink[c] = min(f.lowLink[c], f.nodeIndex[d])
		}
	}

	if f.lowLink[c] != f.nodeIndex[c] {
		return
	}
	id := len(f.components)
	var component []Candidate
	for {
		top := f.stack[len(f.stack)-1]
		f.stack = f.stack[:len(f.stack)-1]
		f.onStack[top] = false
		f.componentOf[top] = id
		component = append(component, top)
		if top == c {
			break
		}
	}
	f.components = append(f.components, component)
}
