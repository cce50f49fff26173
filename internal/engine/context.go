package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/akilivoice/pathrag/pkg/domain"
)

// VoiceContext renders the briefing handed to the voice agent before it
// speaks the current node: the task, what answers to listen for, and the
// observations gathered so far. Returns "" when the current node cannot be
// resolved; callers treat that as "nothing to say".
func (e *Engine) VoiceContext(session *domain.DiagnosticSession) string {
	node, err := e.graph.Get(session.CurrentNodeID)
	if err != nil {
		return ""
	}

	keys := node.AnswerKeys()

	var b strings.Builder
	fmt.Fprintf(&b, "NODE_ID: %s\n", node.ID)
	fmt.Fprintf(&b, "PHASE: %s\n\n", node.Phase.Label())
	fmt.Fprintf(&b, "YOUR TASK: %s\n\n", node.VoiceInstruction)

	if len(keys) > 0 {
		b.WriteString("WHAT TO LISTEN FOR:\n")
		for _, key := range keys {
			fmt.Fprintf(&b, "- %q or similar\n", key)
		}
		b.WriteString("\nRULES FOR THIS STEP:\n")
		b.WriteString("- Speak the instruction above naturally\n")
		b.WriteString("- Wait for the user to respond\n")
		fmt.Fprintf(&b, "- If they say something like %q, that's a valid answer\n", keys[0])
		b.WriteString("- If they seem confused, rephrase the instruction more simply\n")
		b.WriteString("- Do NOT move to the next step until they confirm\n")
	}

	if session.VendorProfile != nil {
		fmt.Fprintf(&b, "\nROUTER: %s (admin page at http://%s%s)\n",
			session.VendorProfile.Name,
			session.VendorProfile.DefaultGateway,
			session.VendorProfile.LoginPagePath)
	}

	if len(session.Observations) > 0 {
		b.WriteString("\nPREVIOUS OBSERVATIONS:\n")
		ids := make([]string, 0, len(session.Observations))
		for id := range session.Observations {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(&b, "- %s: %q\n", id, session.Observations[id])
		}
	}

	if node.Escalation.UserUncertain {
		b.WriteString("\nIF USER IS CONFUSED: Reassure them and rephrase. If still stuck, you can escalate.\n")
	}

	return strings.TrimSpace(b.String())
}
