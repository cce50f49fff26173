package graph_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akilivoice/pathrag/pkg/domain"
	"github.com/akilivoice/pathrag/pkg/graph"
)

const validGraphYAML = `
nodes:
  - node_id: entry_start
    phase: PHASE_0
    input_type: confirmation
    question: "Ready to begin?"
    voice_instruction: "Are you ready to begin troubleshooting?"
    expected_answers:
      - answer: "yes"
        next: check_led
      - answer: "no"
        next: session_end
    escalation_conditions:
      user_uncertain: true
      max_retries: 2
  - node_id: check_led
    phase: PHASE_1
    input_type: user_observation
    question: "What color is the power LED?"
    voice_instruction: "Look at the power LED and tell me its color."
    expected_answers:
      - answer: "green"
        next: session_end
    metadata:
      vendor: tplink
      firmware: "1.2.0"
      category: power
  - node_id: session_end
    phase: PHASE_0
    input_type: confirmation
    question: "Done."
    voice_instruction: "We are done here."
`

func TestLoadYAML_Valid(t *testing.T) {
	g, err := graph.LoadYAML(strings.NewReader(validGraphYAML))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	entry, err := g.Get("entry_start")
	require.NoError(t, err)
	assert.Equal(t, domain.InputConfirmation, entry.InputType)
	assert.True(t, entry.Escalation.UserUncertain)
	assert.Equal(t, 2, entry.Escalation.RetryBudget())
	require.Len(t, entry.ExpectedAnswers, 2)
	assert.Equal(t, "check_led", entry.ExpectedAnswers[0].Next)

	led, err := g.Get("check_led")
	require.NoError(t, err)
	require.NotNil(t, led.Metadata)
	assert.Equal(t, "tplink", led.Metadata.Vendor)
	assert.Equal(t, "1.2.0", led.Metadata.Firmware)
	assert.Equal(t, "power", led.Metadata.Category)
}

func TestLoadYAML_UnknownFieldRejected(t *testing.T) {
	const doc = `
nodes:
  - node_id: entry_start
    questionn: "typo key"
`
	_, err := graph.LoadYAML(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode graph yaml")
}

func TestLoadYAML_EmptyDocument(t *testing.T) {
	_, err := graph.LoadYAML(strings.NewReader("nodes: []"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no nodes")
}

func TestLoadYAML_ValidationFailureSurfaces(t *testing.T) {
	const doc = `
nodes:
  - node_id: entry_start
    question: "Go?"
    expected_answers:
      - answer: "yes"
        next: nowhere
`
	_, err := graph.LoadYAML(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `points to missing node "nowhere"`)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validGraphYAML), 0o644))

	g, err := graph.LoadYAMLFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	_, err = graph.LoadYAMLFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open graph file")
}
