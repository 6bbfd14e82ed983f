package introspect

import (
	"sort"
	"strings"

	"github.com/aledsdavies/ftlengine/ast"
)

// NodeID namespaces an entry id so message and term nodes with the same
// name never collide in the dependency graph.
type NodeID string

func messageNode(id string) NodeID { return NodeID("msg:" + id) }
func termNode(id string) NodeID    { return NodeID("term:" + id) }

// Graph is a directed dependency graph over message and term entries: an
// edge A -> B means A's pattern references B.
type Graph struct {
	edges map[NodeID][]NodeID
}

// BuildDependencyGraph walks every message and term in res and records an
// edge from its node to every message/term it references.
func BuildDependencyGraph(res *ast.Resource) *Graph {
	g := &Graph{edges: make(map[NodeID][]NodeID)}
	for _, entry := range res.Entries {
		var node NodeID
		switch e := entry.(type) {
		case *ast.Message:
			node = messageNode(e.Id.Name)
		case *ast.Term:
			node = termNode(e.Id.Name)
		default:
			continue
		}
		info := Extract(entry)
		for _, ref := range info.Refs {
			var target NodeID
			if ref.Kind == RefKindMessage {
				target = messageNode(ref.Id)
			} else {
				target = termNode(ref.Id)
			}
			g.edges[node] = append(g.edges[node], target)
		}
		if _, ok := g.edges[node]; !ok {
			g.edges[node] = nil
		}
	}
	return g
}

// Nodes returns every node in the graph, sorted for deterministic output.
func (g *Graph) Nodes() []NodeID {
	out := make([]NodeID, 0, len(g.edges))
	for n := range g.edges {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Edges returns the outgoing edges of node, in the order they were recorded.
func (g *Graph) Edges(node NodeID) []NodeID {
	return g.edges[node]
}

// Messages returns the bare ids of every message node in the graph,
// sorted for deterministic output.
func (g *Graph) Messages() []string {
	return g.idsWithPrefix("msg:")
}

// Terms returns the bare ids of every term node in the graph, sorted for
// deterministic output.
func (g *Graph) Terms() []string {
	return g.idsWithPrefix("term:")
}

func (g *Graph) idsWithPrefix(prefix string) []string {
	var out []string
	for _, n := range g.Nodes() {
		if id, ok := strings.CutPrefix(string(n), prefix); ok {
			out = append(out, id)
		}
	}
	return out
}

// frame is one stack entry of the iterative DFS: the node being visited and
// how many of its edges have already been pushed.
type frame struct {
	node    NodeID
	edgeIdx int
}

// DetectCycles finds every simple cycle reachable from the graph's nodes
// using an iterative (explicit-stack) depth-first traversal — never
// recursive, so an adversarially long reference chain cannot overflow the
// host goroutine stack the way a naive recursive DFS would. Each cycle is
// returned as the sequence of nodes traversed, normalized to its
// lexicographic rotation so that the same cycle found starting from
// different entry points is reported exactly once.
func (g *Graph) DetectCycles() [][]NodeID {
	var cycles [][]NodeID
	seenCycles := make(map[string]bool)

	for _, start := range g.Nodes() {
		g.dfsFrom(start, &cycles, seenCycles)
	}
	return cycles
}

func (g *Graph) dfsFrom(start NodeID, cycles *[][]NodeID, seenCycles map[string]bool) {
	onStack := map[NodeID]int{} // node -> index in path
	var path []NodeID
	var stack []frame

	stack = append(stack, frame{node: start})
	path = append(path, start)
	onStack[start] = 0

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		edges := g.edges[top.node]

		if top.edgeIdx >= len(edges) {
			// Exhausted this node's edges: backtrack.
			delete(onStack, top.node)
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
			continue
		}

		next := edges[top.edgeIdx]
		top.edgeIdx++

		if idx, visiting := onStack[next]; visiting {
			cycle := append([]NodeID(nil), path[idx:]...)
			canon := canonicalRotation(cycle)
			key := joinNodes(canon)
			if !seenCycles[key] {
				seenCycles[key] = true
				*cycles = append(*cycles, canon)
			}
			continue
		}

		onStack[next] = len(path)
		path = append(path, next)
		stack = append(stack, frame{node: next})
	}
}

// canonicalRotation rotates cycle so that its lexicographically smallest
// node comes first, giving a single canonical representative for a cycle
// regardless of which node the traversal happened to discover it from.
func canonicalRotation(cycle []NodeID) []NodeID {
	if len(cycle) == 0 {
		return cycle
	}
	minIdx := 0
	for i, n := range cycle {
		if n < cycle[minIdx] {
			minIdx = i
		}
	}
	out := make([]NodeID, len(cycle))
	for i := range cycle {
		out[i] = cycle[(minIdx+i)%len(cycle)]
	}
	return out
}

func joinNodes(nodes []NodeID) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = string(n)
	}
	return strings.Join(parts, "->")
}
