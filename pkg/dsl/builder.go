package dsl

import (
	"github.com/akilivoice/pathrag/pkg/domain"
	"github.com/akilivoice/pathrag/pkg/graph"
)

// Builder accumulates node definitions in declaration order.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
}

// New creates an empty graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add declares a node and returns its builder for chained configuration.
// Adding an id twice returns the existing builder, so forward references
// can be filled in later.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.DiagnosticNode{
			ID:    id,
			Phase: domain.PhaseEntry,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles and validates the graph.
func (b *Builder) Build() (*graph.Graph, error) {
	nodes := make([]domain.DiagnosticNode, 0, len(b.order))
	for _, id := range b.order {
		nodes = append(nodes, b.nodes[id].node)
	}
	g, err := graph.New(nodes)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
