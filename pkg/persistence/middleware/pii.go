package middleware

import (
	"context"
	"regexp"

	"github.com/akilivoice/pathrag/pkg/domain"
	"github.com/akilivoice/pathrag/pkg/ports"
)

// redactedMark replaces every matched span in a transcript.
const redactedMark = "[redacted]"

// DefaultPIIPatterns covers the identifiers users most often read aloud
// during router troubleshooting: MAC addresses, serial numbers printed on
// the label, and email addresses.
var DefaultPIIPatterns = []string{
	`(?i)\b(?:[0-9a-f]{2}[:-]){5}[0-9a-f]{2}\b`,
	`(?i)\bs/?n[:\s]*[a-z0-9-]{6,}\b`,
	`\b[\w.+-]+@[\w-]+\.[\w.]+\b`,
}

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIRedaction creates a middleware that scrubs matching spans from
// transcripts before they reach the backing store. The in-memory session
// used by the engine is untouched; only the persisted copy is redacted.
func NewPIIRedaction(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, session *domain.DiagnosticSession) error {
	cloned := session.Clone()

	for node, value := range cloned.Observations {
		cloned.Observations[node] = m.redact(value)
	}
	for i := range cloned.History {
		cloned.History[i].Response = m.redact(cloned.History[i].Response)
	}
	for i := range cloned.ActionsAttempted {
		cloned.ActionsAttempted[i].Notes = m.redact(cloned.ActionsAttempted[i].Notes)
	}
	if session.Escalation != nil {
		// The payload is write-once and shared by Clone, so redact a copy.
		payload := *session.Escalation
		payload.Observations = make(map[string]string, len(session.Escalation.Observations))
		for node, value := range session.Escalation.Observations {
			payload.Observations[node] = m.redact(value)
		}
		cloned.Escalation = &payload
	}

	return m.next.Save(ctx, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.DiagnosticSession, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) redact(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, redactedMark)
	}
	return s
}
