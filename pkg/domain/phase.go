package domain

import "math"

// Phase is a coarse-grained stage of the diagnosis, used for progress
// reporting and for deriving the suspected fault domain on escalation.
type Phase string

const (
	PhaseEntry             Phase = "PHASE_0"
	PhasePhysicalLayer     Phase = "PHASE_1"
	PhaseLocalNetwork      Phase = "PHASE_2"
	PhaseRouterLogin       Phase = "PHASE_3"
	PhaseWANInspection     Phase = "PHASE_4"
	PhaseCorrectiveActions Phase = "PHASE_5"
	PhaseVerification      Phase = "PHASE_6"
	PhaseEscalation        Phase = "PHASE_7"
	PhasePostSession       Phase = "PHASE_8"
)

// PhaseOrder is the fixed ordering of the active diagnostic phases.
// Escalation and post-session are excluded: they are exits, not progress.
var PhaseOrder = []Phase{
	PhaseEntry,
	PhasePhysicalLayer,
	PhaseLocalNetwork,
	PhaseRouterLogin,
	PhaseWANInspection,
	PhaseCorrectiveActions,
	PhaseVerification,
}

// PhaseLabels maps phases to the short human-readable names shown in the UI
// and spoken context.
var PhaseLabels = map[Phase]string{
	PhaseEntry:             "Entry & Setup",
	PhasePhysicalLayer:     "Physical Check",
	PhaseLocalNetwork:      "Network Check",
	PhaseRouterLogin:       "Router Access",
	PhaseWANInspection:     "WAN Status",
	PhaseCorrectiveActions: "Fix Actions",
	PhaseVerification:      "Verification",
	PhaseEscalation:        "Escalation",
	PhasePostSession:       "Complete",
}

// Label returns the display name for the phase, or its raw value if unknown.
func (p Phase) Label() string {
	if l, ok := PhaseLabels[p]; ok {
		return l
	}
	return string(p)
}

// Progress computes the 0-100 completion percentage for a phase over the
// fixed active-phase ordering. Phases outside the ordering (escalation,
// post-session) report 100.
func (p Phase) Progress() int {
	idx := -1
	for i, phase := range PhaseOrder {
		if phase == p {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 100
	}
	return int(math.Round(float64(idx) / float64(len(PhaseOrder)-1) * 100))
}

// FaultDomain maps the phase at escalation time to a best-effort suspected
// fault domain for the human agent taking over.
func (p Phase) FaultDomain() string {
	switch p {
	case PhasePhysicalLayer:
		return "Physical/Hardware"
	case PhaseLocalNetwork:
		return "Local Network/Device"
	case PhaseRouterLogin:
		return "Router Access/Authentication"
	case PhaseWANInspection:
		return "WAN/ISP Connection"
	case PhaseCorrectiveActions:
		return "Configuration/Settings"
	default:
		return "Undetermined"
	}
}
