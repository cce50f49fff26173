package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/akilivoice/pathrag/pkg/domain"
)

// EntryNodeID is where every new session starts.
const EntryNodeID = "entry_start"

// ResolvedNodeID is the terminal node that marks a successful diagnosis.
const ResolvedNodeID = "verification_complete"

// AbandonedNodeID is the terminal node for a user who declines to start.
const AbandonedNodeID = "session_end"

// Graph is an immutable set of diagnostic nodes. Build it once at startup
// (from the built-in script or from YAML) and share it freely; it is safe
// for concurrent reads.
type Graph struct {
	nodes map[string]*domain.DiagnosticNode
	order []string
}

// New builds a graph from the given nodes. Duplicate ids are rejected;
// referential integrity is checked separately by Validate so that tools
// (validate command, tests) can report all problems at once.
func New(nodes []domain.DiagnosticNode) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]*domain.DiagnosticNode, len(nodes)),
		order: make([]string, 0, len(nodes)),
	}
	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			return nil, fmt.Errorf("node at index %d missing id", i)
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		g.nodes[n.ID] = &n
		g.order = append(g.order, n.ID)
	}
	return g, nil
}

// Get returns the node for the given id.
// Returns domain.ErrNodeNotFound if the id is unknown.
func (g *Graph) Get(id string) (*domain.DiagnosticNode, error) {
	node, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	return node, nil
}

// Has reports whether the id exists in the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// List returns all nodes in their defined order.
func (g *Graph) List() []domain.DiagnosticNode {
	out := make([]domain.DiagnosticNode, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.nodes[id])
	}
	return out
}

// IDs returns all node ids, sorted.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks the structural invariants of the graph:
//
//   - the entry node exists
//   - every expected-answer destination resolves to an existing node
//   - answer keys are unique per node
//   - non-terminal reachable nodes have at least one outgoing answer
//     (enforced by construction: terminal means zero answers)
//
// All violations are collected and reported together.
func (g *Graph) Validate() error {
	var problems []string

	if !g.Has(EntryNodeID) {
		problems = append(problems, fmt.Sprintf("entry node %q not found", EntryNodeID))
	}

	for _, id := range g.order {
		node := g.nodes[id]
		seen := make(map[string]bool, len(node.ExpectedAnswers))
		for _, ea := range node.ExpectedAnswers {
			if ea.Answer == "" {
				problems = append(problems, fmt.Sprintf("node %q has an empty answer key", id))
			}
			if seen[ea.Answer] {
				problems = append(problems, fmt.Sprintf("node %q repeats answer key %q", id, ea.Answer))
			}
			seen[ea.Answer] = true
			if !g.Has(ea.Next) {
				problems = append(problems, fmt.Sprintf("node %q answer %q points to missing node %q", id, ea.Answer, ea.Next))
			}
		}
	}

	// Unreachable nodes are config rot, not a hard failure for traversal,
	// but the validate command wants to hear about them.
	for _, id := range g.unreachable() {
		problems = append(problems, fmt.Sprintf("node %q is unreachable from %q", id, EntryNodeID))
	}

	if len(problems) > 0 {
		return fmt.Errorf("graph validation found %d problem(s):\n- %s",
			len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

// unreachable returns ids not reachable from the entry node via answers.
func (g *Graph) unreachable() []string {
	if !g.Has(EntryNodeID) {
		return nil
	}
	visited := make(map[string]bool, len(g.nodes))
	queue := []string{EntryNodeID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		node, ok := g.nodes[id]
		if !ok {
			continue
		}
		for _, ea := range node.ExpectedAnswers {
			if !visited[ea.Next] {
				queue = append(queue, ea.Next)
			}
		}
	}
	var missing []string
	for _, id := range g.order {
		if !visited[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}
