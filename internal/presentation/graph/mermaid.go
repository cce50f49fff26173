package graph

import (
	"fmt"
	"strings"

	"github.com/akilivoice/pathrag/pkg/domain"
)

// GraphOverlay contains dynamic session state to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart from the diagnostic nodes.
// It applies semantic styling:
// - Confirmation: ((Circle))
// - Observation: [/Parallelogram/]
// - Action: [[Subroutine]]
// - Terminal (no outgoing answers): [Rectangle] with a flag marker
// Escalation-capable transitions and overlay styles (Visited/Current) are
// rendered on top if provided.
func GenerateMermaid(nodes []domain.DiagnosticNode, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.Terminal():
			opener, closer = "[", "]"
		case node.InputType == domain.InputConfirmation:
			opener, closer = "((", "))"
		case node.InputType == domain.InputObservation:
			opener, closer = "[/", "/]"
		case node.InputType == domain.InputAction:
			opener, closer = "[[", "]]"
		}

		label := node.ID
		if node.Terminal() {
			label = "🏁 " + label
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		for _, ea := range node.ExpectedAnswers {
			safeTo := sanitizeMermaidID(ea.Next)
			safeAnswer := strings.ReplaceAll(ea.Answer, "\"", "'")

			// Retry-looking edges (same phase) solid, phase jumps dotted.
			arrow := fmt.Sprintf("-- \"%s\" -->", safeAnswer)
			if strings.HasPrefix(ea.Next, "escalation_") {
				arrow = fmt.Sprintf("-. \"%s\" .->", safeAnswer)
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" {
			safeCurrent := sanitizeMermaidID(overlay.CurrentNode)
			sb.WriteString(fmt.Sprintf("    class %s current;\n", safeCurrent))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
