package graph

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/akilivoice/pathrag/pkg/domain"
)

// yamlNode mirrors domain.DiagnosticNode with loosely-typed metadata, so
// that authors can attach arbitrary keys without breaking the decode.
type yamlNode struct {
	ID               string                      `yaml:"node_id"`
	Phase            domain.Phase                `yaml:"phase"`
	InputType        domain.InputType            `yaml:"input_type"`
	Question         string                      `yaml:"question"`
	VoiceInstruction string                      `yaml:"voice_instruction"`
	ExpectedAnswers  []domain.ExpectedAnswer     `yaml:"expected_answers"`
	ActionsAllowed   []domain.AllowedAction      `yaml:"actions_allowed"`
	Escalation       domain.EscalationConditions `yaml:"escalation_conditions"`
	Metadata         map[string]any              `yaml:"metadata"`
}

type yamlDocument struct {
	Nodes []yamlNode `yaml:"nodes"`
}

// LoadYAML reads a graph definition from the reader. The decoded graph is
// structurally validated before it is returned, so a broken script fails
// at startup rather than mid-conversation.
func LoadYAML(r io.Reader) (*Graph, error) {
	var doc yamlDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode graph yaml: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("graph yaml contains no nodes")
	}

	nodes := make([]domain.DiagnosticNode, 0, len(doc.Nodes))
	for _, yn := range doc.Nodes {
		node := domain.DiagnosticNode{
			ID:               yn.ID,
			Phase:            yn.Phase,
			InputType:        yn.InputType,
			Question:         yn.Question,
			VoiceInstruction: yn.VoiceInstruction,
			ExpectedAnswers:  yn.ExpectedAnswers,
			ActionsAllowed:   yn.ActionsAllowed,
			Escalation:       yn.Escalation,
		}
		if len(yn.Metadata) > 0 {
			meta, err := decodeMetadata(yn.Metadata)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", yn.ID, err)
			}
			node.Metadata = meta
		}
		nodes = append(nodes, node)
	}

	g, err := New(nodes)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadYAMLFile loads a graph from a file path.
func LoadYAMLFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph file: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// decodeMetadata converts the loose metadata map into the typed form.
// Unknown keys are tolerated; type mismatches are not.
func decodeMetadata(raw map[string]any) (*domain.NodeMetadata, error) {
	var meta domain.NodeMetadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &meta,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid node metadata: %w", err)
	}
	return &meta, nil
}
