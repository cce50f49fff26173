package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akilivoice/pathrag/internal/engine"
	"github.com/akilivoice/pathrag/pkg/domain"
)

func answersNode(edges ...domain.ExpectedAnswer) *domain.DiagnosticNode {
	return &domain.DiagnosticNode{
		ID:              "test_node",
		Phase:           domain.PhasePhysicalLayer,
		InputType:       domain.InputObservation,
		ExpectedAnswers: edges,
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "yes", engine.Normalize("  YES!  "))
	assert.Equal(t, "solid green", engine.Normalize("Solid   Green."))
	assert.Equal(t, "", engine.Normalize("   "))
	assert.Equal(t, "it's green", engine.Normalize("It's green"))
}

func TestResolveAnswer_ExactKeyWins(t *testing.T) {
	node := answersNode(
		domain.ExpectedAnswer{Answer: "green", Next: "a"},
		domain.ExpectedAnswer{Answer: "off", Next: "b"},
	)

	assert.Equal(t, "a", engine.ResolveAnswer(node, "green"))
	assert.Equal(t, "b", engine.ResolveAnswer(node, "off"))
}

func TestResolveAnswer_VariantContainment(t *testing.T) {
	node := answersNode(
		domain.ExpectedAnswer{Answer: "green", Next: "a"},
		domain.ExpectedAnswer{Answer: "blinking", Next: "b"},
		domain.ExpectedAnswer{Answer: "off", Next: "c"},
	)

	assert.Equal(t, "a", engine.ResolveAnswer(node, engine.Normalize("it's solid green")))
	assert.Equal(t, "b", engine.ResolveAnswer(node, engine.Normalize("the light is flashing")))
	assert.Equal(t, "c", engine.ResolveAnswer(node, engine.Normalize("there is no light at all")))
}

func TestResolveAnswer_FirstKeyWinsOnTie(t *testing.T) {
	// "the light came on solid green" contains "came on" (a variant of
	// "on") and "solid green" (a variant of "green"); key order breaks
	// the tie either way around.
	utterance := engine.Normalize("the light came on solid green")

	node := answersNode(
		domain.ExpectedAnswer{Answer: "on", Next: "lit_dst"},
		domain.ExpectedAnswer{Answer: "green", Next: "green_dst"},
	)
	assert.Equal(t, "lit_dst", engine.ResolveAnswer(node, utterance))

	flipped := answersNode(
		domain.ExpectedAnswer{Answer: "green", Next: "green_dst"},
		domain.ExpectedAnswer{Answer: "on", Next: "lit_dst"},
	)
	assert.Equal(t, "green_dst", engine.ResolveAnswer(flipped, utterance))
}

func TestResolveAnswer_WordBoundaries(t *testing.T) {
	node := answersNode(
		domain.ExpectedAnswer{Answer: "on", Next: "a"},
		domain.ExpectedAnswer{Answer: "connected", Next: "b"},
	)

	// "on" must not match inside "connected".
	assert.Equal(t, "b", engine.ResolveAnswer(node, "it says connected"))
	assert.Equal(t, "a", engine.ResolveAnswer(node, "the light is on"))
}

func TestResolveAnswer_YesNoHeuristic(t *testing.T) {
	node := answersNode(
		domain.ExpectedAnswer{Answer: "confirmed", Next: "fwd"},
		domain.ExpectedAnswer{Answer: "failed", Next: "back"},
	)

	assert.Equal(t, "fwd", engine.ResolveAnswer(node, engine.Normalize("yes that's right")))
	assert.Equal(t, "back", engine.ResolveAnswer(node, engine.Normalize("no it didn't work")))
}

func TestResolveAnswer_ExplicitKeysBeatHeuristic(t *testing.T) {
	node := answersNode(
		domain.ExpectedAnswer{Answer: "yes", Next: "yes_dst"},
		domain.ExpectedAnswer{Answer: "no", Next: "no_dst"},
	)

	assert.Equal(t, "yes_dst", engine.ResolveAnswer(node, "yeah"))
	assert.Equal(t, "no_dst", engine.ResolveAnswer(node, "nope"))
}

func TestResolveAnswer_AffirmativeVariants(t *testing.T) {
	node := answersNode(
		domain.ExpectedAnswer{Answer: "yes", Next: "yes_dst"},
		domain.ExpectedAnswer{Answer: "no", Next: "no_dst"},
	)

	for _, utterance := range []string{
		"yes", "yeah", "yep", "sure", "ok", "okay", "ready",
		"absolutely", "definitely", "let's go", "lets go", "go ahead", "start",
	} {
		assert.Equal(t, "yes_dst", engine.ResolveAnswer(node, engine.Normalize(utterance)), "utterance %q", utterance)
	}
	for _, utterance := range []string{"no", "nope", "not now", "no thanks"} {
		assert.Equal(t, "no_dst", engine.ResolveAnswer(node, engine.Normalize(utterance)), "utterance %q", utterance)
	}
}

func TestResolveAnswer_LitVariants(t *testing.T) {
	node := answersNode(
		domain.ExpectedAnswer{Answer: "on", Next: "on_dst"},
		domain.ExpectedAnswer{Answer: "off", Next: "off_dst"},
	)

	for _, utterance := range []string{"on", "solid", "white", "lit", "it's lit up"} {
		assert.Equal(t, "on_dst", engine.ResolveAnswer(node, engine.Normalize(utterance)), "utterance %q", utterance)
	}
}

func TestResolveAnswer_VendorVariants(t *testing.T) {
	node := answersNode(
		domain.ExpectedAnswer{Answer: "tplink", Next: "tp"},
		domain.ExpectedAnswer{Answer: "netgear", Next: "ng"},
		domain.ExpectedAnswer{Answer: "other", Next: "gen"},
	)

	assert.Equal(t, "tp", engine.ResolveAnswer(node, engine.Normalize("it's a TP-Link Archer")))
	assert.Equal(t, "ng", engine.ResolveAnswer(node, engine.Normalize("a Netgear Nighthawk")))
}

func TestResolveAnswer_NoMatch(t *testing.T) {
	node := answersNode(domain.ExpectedAnswer{Answer: "green", Next: "a"})

	assert.Empty(t, engine.ResolveAnswer(node, "purple polka dots"))
	assert.Empty(t, engine.ResolveAnswer(node, ""))
}
