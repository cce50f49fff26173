/*
Package pathrag is a deterministic graph traversal engine for voice-guided
router troubleshooting. It walks a caller through a fixed diagnostic script,
resolving free-form spoken answers against each step's expected answers and
escalating to a human agent with a structured hand-off when the script runs
out of road.

# Concept

PathRAG treats the troubleshooting flow as a directed graph of diagnostic
nodes. The engine owns answer resolution, state transitions, retry budgets,
and escalation; your application ("Host") owns the I/O: speaking the
instructions, capturing transcripts, and showing the visual guides. This
Hexagonal Architecture allows PathRAG to be embedded in any interface: HTTP
API, WebSocket voice gateway, CLI, or AI agent infrastructure.

# Key Features

  - Deterministic Traversal: Given the same session and utterance, the
    transition is always reproducible. No model calls on the hot path.
  - Tolerant Answer Resolution: Exact match, then phrase variants, then a
    yes/no heuristic, so "yeah the light is green" lands on "green".
  - Escalation Discipline: Uncertainty, screen mismatch, and exhausted
    retries each produce a structured payload with the steps completed,
    observations, and suspected fault domain.
  - Value Semantics: Advancing returns a new session; the input is never
    mutated, and terminal sessions are immutable.
  - Pluggable Persistence: In-memory by default, Redis with distributed
    locking for multi-replica deployments.

# Usage

Initialize the Service and drive it with the four-operation control
surface: Create, Process, GetState, GetContext.

	package main

	import (
		"bufio"
		"context"
		"fmt"
		"log"
		"os"

		"github.com/akilivoice/pathrag"
	)

	func main() {
		svc, err := pathrag.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		state, err := svc.Create(ctx, "")
		if err != nil {
			log.Fatal(err)
		}

		in := bufio.NewScanner(os.Stdin)
		for state.Status == "active" {
			// 1. Brief the voice agent on the current step.
			fmt.Println(state.CurrentNode.VoiceInstruction)

			// 2. Capture the caller's answer.
			if !in.Scan() {
				break
			}

			// 3. Apply the transition.
			outcome, err := svc.Process(ctx, state.SessionID, in.Text())
			if err != nil {
				log.Fatal(err)
			}
			if outcome.ShouldEscalate {
				fmt.Println("Handing off:", outcome.EscalationReason)
			}
			state = &outcome.StateSnapshot
		}
	}
*/
package pathrag
