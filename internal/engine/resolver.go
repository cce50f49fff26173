package engine

import (
	"strings"
	"unicode"

	"github.com/akilivoice/pathrag/pkg/domain"
)

// answerVariants expands an answer key into the spoken forms that should
// resolve to it. Keys without an entry match only themselves.
var answerVariants = map[string][]string{
	"green":    {"green", "solid green", "steady green"},
	"red":      {"red", "solid red", "steady red"},
	"orange":   {"orange", "amber", "solid orange", "solid amber"},
	"blinking": {"blinking", "flashing", "flickering"},
	"off":      {"off", "no light", "dark", "not lit", "still off"},
	"on":       {"on", "lit", "solid", "white", "powered on", "turned on", "came on", "back on"},
	"yes": {
		"yes", "yeah", "yep", "correct", "right", "ok", "okay",
		"confirmed", "done", "ready", "sure", "i see it",
		"absolutely", "definitely", "let's go", "lets go", "go ahead", "start",
	},
	"no":   {"no", "nope", "wrong", "not now", "no thanks", "can't", "cant"},
	"done": {"done", "finished", "all set", "i did it", "yes", "yeah", "okay", "ok"},
	"working": {
		"working", "works", "it works", "it loaded", "loading fine", "back up",
	},
	"loaded": {"loaded", "it loaded", "page loaded", "works", "working"},
	"failed": {
		"failed", "fail", "didn't work", "didnt work", "not working",
		"error", "timed out", "still broken",
	},
	"connected":    {"connected", "online", "up"},
	"disconnected": {"disconnected", "offline", "not connected", "down"},
	"connecting":   {"connecting", "trying", "negotiating"},
	"wifi":         {"wifi", "wi-fi", "wi fi", "wireless"},
	"ethernet":     {"ethernet", "cable", "wired", "lan"},
	"tplink":       {"tplink", "tp-link", "tp link", "archer", "mr600", "deco"},
	"netgear":      {"netgear", "nighthawk", "orbi"},
	"dlink":        {"dlink", "d-link", "d link"},
	"asus":         {"asus", "zenwifi"},
	"zeros":        {"zeros", "zero", "all zeros", "0.0.0.0"},
	"some":         {"some", "only some", "partially", "partly"},
}

// affirmativeWords and negativeWords back the last-resort yes/no heuristic.
// They only apply when key and variant matching both failed, so explicit
// answer keys always win over generic inference.
var affirmativeWords = []string{"yes", "correct", "right", "confirmed", "yeah", "yep"}
var negativeWords = []string{"no", "wrong", "nope", "didn't work", "didnt work"}

var affirmativeKeys = []string{"yes", "confirmed", "correct"}
var negativeKeys = []string{"no", "failed", "wrong"}

// Normalize lowercases, trims surrounding whitespace and punctuation, and
// collapses the utterance so that "  YES! " and "yes" resolve identically.
func Normalize(utterance string) string {
	s := strings.ToLower(strings.TrimSpace(utterance))
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	return strings.Join(strings.Fields(s), " ")
}

// variantsFor returns the expansion for a key, defaulting to the key itself.
func variantsFor(key string) []string {
	if v, ok := answerVariants[key]; ok {
		return v
	}
	return []string{key}
}

// containsPhrase reports whether the normalized response contains the
// phrase on word boundaries. Plain substring search would let "on" hide
// inside "connected", so matching is token-aware.
func containsPhrase(response, phrase string) bool {
	padded := " " + foldSeparators(response) + " "
	return strings.Contains(padded, " "+foldSeparators(phrase)+" ")
}

// foldSeparators maps hyphens and slashes to spaces so "tp-link" and
// "tp link" compare equal.
func foldSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '-', '/', '_':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ResolveAnswer matches a normalized utterance against a node's outgoing
// answers. The precedence is fixed: exact key equality, then lexical
// variant containment in defined key order, then the generic yes/no
// heuristic. Returns the destination node id, or "" when nothing matched.
func ResolveAnswer(node *domain.DiagnosticNode, response string) string {
	// 1. Exact key match.
	if next, ok := node.NextFor(response); ok {
		return next
	}

	// 2. Variant containment, first key wins.
	for _, key := range node.AnswerKeys() {
		for _, variant := range variantsFor(key) {
			if containsPhrase(response, variant) {
				next, _ := node.NextFor(key)
				return next
			}
		}
	}

	// 3. Generic affirmative/negative inference.
	if containsAny(response, affirmativeWords) {
		for _, key := range affirmativeKeys {
			if next, ok := node.NextFor(key); ok {
				return next
			}
		}
	}
	if containsAny(response, negativeWords) {
		for _, key := range negativeKeys {
			if next, ok := node.NextFor(key); ok {
				return next
			}
		}
	}

	return ""
}

func containsAny(response string, phrases []string) bool {
	for _, p := range phrases {
		if containsPhrase(response, p) {
			return true
		}
	}
	return false
}
