// Package linkgraph provides a thread-safe directed graph over document
// paths. Vertices are root-relative paths; edges point from a referencing
// document to its resolved target. The graph is a pure in-memory structure
// with no I/O, owned by one resolver instance.
package linkgraph

import "sync"

// Graph is a concurrent directed graph with set-based adjacency.
// Edge insertion is idempotent; parallel duplicate edges collapse.
// Self-loops are permitted and represent self-referential documents.
type Graph struct {
	mu       sync.RWMutex
	outgoing map[string]map[string]struct{}
	incoming map[string]map[string]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		outgoing: make(map[string]map[string]struct{}),
		incoming: make(map[string]map[string]struct{}),
	}
}

// AddVertex inserts a vertex. Adding an existing vertex is a no-op.
func (g *Graph) AddVertex(v string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addVertexLocked(v)
}

func (g *Graph) addVertexLocked(v string) {
	if _, ok := g.outgoing[v]; !ok {
		g.outgoing[v] = make(map[string]struct{})
	}
	if _, ok := g.incoming[v]; !ok {
		g.incoming[v] = make(map[string]struct{})
	}
}

// AddEdge inserts a directed edge from src to dst, implicitly adding both
// endpoint vertices. Inserting an existing edge leaves the graph unchanged.
func (g *Graph) AddEdge(src, dst string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addVertexLocked(src)
	g.addVertexLocked(dst)
	g.outgoing[src][dst] = struct{}{}
	g.incoming[dst][src] = struct{}{}
}

// RemoveEdge deletes the edge from src to dst if present.
func (g *Graph) RemoveEdge(src, dst string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if out, ok := g.outgoing[src]; ok {
		delete(out, dst)
	}
	if in, ok := g.incoming[dst]; ok {
		delete(in, src)
	}
}

// RemoveVertex deletes a vertex and every incident edge, both directions.
func (g *Graph) RemoveVertex(v string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for dst := range g.outgoing[v] {
		delete(g.incoming[dst], v)
	}
	for src := range g.incoming[v] {
		delete(g.outgoing[src], v)
	}
	delete(g.outgoing, v)
	delete(g.incoming, v)
}

// ClearOutgoing removes every edge leaving src, keeping the vertex.
func (g *Graph) ClearOutgoing(src string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for dst := range g.outgoing[src] {
		delete(g.incoming[dst], src)
	}
	if _, ok := g.outgoing[src]; ok {
		g.outgoing[src] = make(map[string]struct{})
	}
}

// HasVertex reports whether v is in the graph.
func (g *Graph) HasVertex(v string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.outgoing[v]
	return ok
}

// Outgoing returns the targets of every edge leaving v.
func (g *Graph) Outgoing(v string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return keys(g.outgoing[v])
}

// Incoming returns the sources of every edge entering v.
func (g *Graph) Incoming(v string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return keys(g.incoming[v])
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.outgoing)
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	count := 0
	for _, out := range g.outgoing {
		count += len(out)
	}
	return count
}

// Degree returns the number of incident edges of v, both directions.
// A self-loop counts once.
func (g *Graph) Degree(v string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	degree := len(g.outgoing[v]) + len(g.incoming[v])
	if _, ok := g.outgoing[v][v]; ok {
		degree--
	}
	return degree
}

func keys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
