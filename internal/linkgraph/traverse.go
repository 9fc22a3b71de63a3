package linkgraph

import "sort"

// IsAcyclic reports whether the whole graph contains no directed cycle.
func (g *Graph) IsAcyclic() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[string]bool, len(g.outgoing))
	for v := range g.outgoing {
		if visited[v] {
			continue
		}
		if g.cycleFromLocked(v, visited) != nil {
			return false
		}
	}
	return true
}

// FindCycleFrom searches for a directed cycle reachable from start and
// returns the explicit vertex path forming it, or nil when none exists.
// A self-loop is a valid 1-vertex cycle.
func (g *Graph) FindCycleFrom(start string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.outgoing[start]; !ok {
		return nil
	}
	return g.cycleFromLocked(start, make(map[string]bool))
}

// cycleFromLocked runs an iterative depth-first walk with an explicit path
// stack. Recursion is avoided so the worst case stays linear in vertex
// count without growing the call stack.
func (g *Graph) cycleFromLocked(start string, visited map[string]bool) []string {
	type frame struct {
		vertex string
		next   []string
	}

	onPath := make(map[string]int)
	stack := []frame{{vertex: start, next: g.sortedTargetsLocked(start)}}
	onPath[start] = 0
	visited[start] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if len(top.next) == 0 {
			delete(onPath, top.vertex)
			stack = stack[:len(stack)-1]
			continue
		}

		dst := top.next[0]
		top.next = top.next[1:]

		if at, ok := onPath[dst]; ok {
			cycle := make([]string, 0, len(stack)-at)
			for _, f := range stack[at:] {
				cycle = append(cycle, f.vertex)
			}
			return cycle
		}
		if visited[dst] {
			continue
		}

		visited[dst] = true
		onPath[dst] = len(stack)
		stack = append(stack, frame{vertex: dst, next: g.sortedTargetsLocked(dst)})
	}
	return nil
}

// ReachableWithin returns every vertex reachable from start within maxHops
// edges, capped at maxResults entries. The start vertex is excluded.
// Traversal is breadth-first so nearer documents fill the cap first.
func (g *Graph) ReachableWithin(start string, maxHops, maxResults int) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if maxHops <= 0 || maxResults <= 0 {
		return nil
	}
	if _, ok := g.outgoing[start]; !ok {
		return nil
	}

	type hop struct {
		vertex string
		depth  int
	}

	seen := map[string]bool{start: true}
	queue := []hop{{vertex: start, depth: 0}}
	var results []string

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth == maxHops {
			continue
		}
		for _, dst := range g.sortedTargetsLocked(current.vertex) {
			if seen[dst] {
				continue
			}
			seen[dst] = true
			results = append(results, dst)
			if len(results) == maxResults {
				return results
			}
			queue = append(queue, hop{vertex: dst, depth: current.depth + 1})
		}
	}
	return results
}

// sortedTargetsLocked returns the outgoing targets of v in stable order so
// traversal results are deterministic.
func (g *Graph) sortedTargetsLocked(v string) []string {
	targets := keys(g.outgoing[v])
	sort.Strings(targets)
	return targets
}
