package chat

import "strings"

// Assemble builds the exact ordered message sequence to send to the model.
//
// A system turn is prepended only when the conversation is brand new (no prior
// turns) and a non-empty system prompt was supplied. A system prompt arriving
// on turn 2+ is silently ignored: the conversation's system turn is fixed at
// index 0 for its whole life.
func Assemble(prior []Turn, systemPrompt string, user Turn) []Turn {
	out := make([]Turn, 0, len(prior)+2)
	if len(prior) == 0 && strings.TrimSpace(systemPrompt) != "" {
		out = append(out, SystemTurn(systemPrompt))
	}
	out = append(out, prior...)
	out = append(out, user)
	return out
}
