package ports

import "context"

// Speaker is the outbound half of the audio/speech collaborator: the voice
// control loop hands it instruction text to synthesize. Speak must return
// promptly; completion is reported asynchronously as a speech-complete
// event fed back into the loop.
type Speaker interface {
	Speak(ctx context.Context, instruction string) error
}

// SpeakerFunc adapts a function to the Speaker interface.
type SpeakerFunc func(ctx context.Context, instruction string) error

// Speak implements Speaker.
func (f SpeakerFunc) Speak(ctx context.Context, instruction string) error {
	return f(ctx, instruction)
}
