package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/akilivoice/pathrag"
	"github.com/akilivoice/pathrag/internal/presentation/tui"
	"github.com/akilivoice/pathrag/pkg/domain"
)

// RunOptions contains the configuration for the run command.
type RunOptions struct {
	ServiceOptions

	SessionID string
	VendorID  string
	Plain     bool
}

// RunSession drives one interactive troubleshooting conversation on the
// terminal: print the instruction, read an answer, apply the transition,
// until the session resolves, escalates, or is abandoned.
func RunSession(opts RunOptions) error {
	logger := createLogger(opts.Debug)
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && !opts.Plain

	if interactive {
		tui.PrintBanner()
	}

	svc, _, cleanup, err := BuildService(opts.ServiceOptions, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	state, err := hydrateSession(sigCtx, svc, opts)
	if err != nil {
		return err
	}

	render := func(markdown string) (string, error) { return markdown + "\n", nil }
	if interactive {
		render = tui.NewRenderer()
	}

	reader := bufio.NewScanner(NewInterruptibleReader(os.Stdin, sigCtx.Done()))

	for state.Status == domain.StatusActive {
		printStep(state, render)

		fmt.Print("> ")
		if !reader.Scan() {
			if err := reader.Err(); err != nil {
				logCompletion(state, sigCtx)
				return handleExecutionError(err)
			}
			break
		}
		input := strings.TrimSpace(reader.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			printSystemMessage("Bye!")
			return nil
		}

		outcome, err := svc.Process(sigCtx, state.SessionID, input)
		if err != nil {
			return fmt.Errorf("processing answer: %w", err)
		}
		if outcome.Retried {
			printSystemMessage("Let's try that step again.")
		}
		state = &outcome.StateSnapshot
	}

	logCompletion(state, sigCtx)
	return nil
}

func hydrateSession(ctx context.Context, svc *pathrag.Service, opts RunOptions) (*pathrag.StateSnapshot, error) {
	if opts.SessionID != "" {
		state, err := svc.GetState(ctx, opts.SessionID)
		if err == nil {
			printSystemMessage("Resuming at '%s' node...", state.CurrentNode.ID)
			return state, nil
		}
	}

	state, err := svc.Create(ctx, opts.VendorID)
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	printSystemMessage("Session '%s' active.", state.SessionID)
	return state, nil
}

func printStep(state *pathrag.StateSnapshot, render func(string) (string, error)) {
	if state.CurrentNode == nil {
		return
	}

	var md strings.Builder
	fmt.Fprintf(&md, "**%s** · %d%%\n\n", state.PhaseLabel, state.Progress)
	md.WriteString(state.CurrentNode.VoiceInstruction)
	if len(state.Assets) > 0 {
		md.WriteString("\n")
		for _, a := range state.Assets {
			fmt.Fprintf(&md, "\n- _%s_ (%s)", a.AltText, a.URL)
		}
	}

	out, err := render(md.String())
	if err != nil {
		out = md.String()
	}
	fmt.Println(out)
}

func nodeID(state *pathrag.StateSnapshot) string {
	if state.CurrentNode == nil {
		return "?"
	}
	return state.CurrentNode.ID
}

func logCompletion(state *pathrag.StateSnapshot, sigCtx *SignalContext) {
	if sigCtx.Err() != nil {
		if sigCtx.Signal() == os.Interrupt {
			fmt.Printf("[CTRL+C]\n")
		}
		printSystemMessage("Interrupted at '%s' node.", nodeID(state))
		return
	}

	switch state.Status {
	case domain.StatusResolved:
		printSystemMessage("Connection restored. Nice work!")
	case domain.StatusAbandoned:
		printSystemMessage("Session ended. Come back any time.")
	case domain.StatusEscalated:
		printSystemMessage("Handing off to a human agent.")
		if state.Escalation != nil {
			data, err := json.MarshalIndent(state.Escalation, "", "  ")
			if err == nil {
				fmt.Println(string(data))
			}
		}
	default:
		printSystemMessage("Finished at '%s' node.", nodeID(state))
	}
}
