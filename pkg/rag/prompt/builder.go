package prompt

import (
	"strings"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/entity"
)

// LocalHistoryWindow is how many recent turns the local model sees.
const LocalHistoryWindow = 8

const notesPreamble = "\n\nYou have USER-PROVIDED NOTES below. Use them when relevant. " +
	"If the answer is not in notes, say so. " +
	"When referencing notes, cite chunk ids like [doc#chunk].\n\nNOTES:\n"

// SystemPrompt returns the fixed prompt for mode. Unknown modes get the Health prompt.
func SystemPrompt(mode string) string {
	if p, ok := constant.SystemPrompts[mode]; ok {
		return p
	}
	return constant.SystemPrompts[constant.ModeHealth]
}

// BuildInstructions appends the notes block to the mode prompt when notes is non-empty.
func BuildInstructions(mode, notes string) string {
	var b strings.Builder
	b.WriteString(SystemPrompt(mode))

	if strings.TrimSpace(notes) != "" {
		b.WriteString(notesPreamble)
		b.WriteString(notes)
		b.WriteString("\n")
	}

	return b.String()
}

// BuildPrompt renders the single-string prompt used by the local model.
func BuildPrompt(mode, instructions string, history []entity.Turn, userMessage string) string {
	var b strings.Builder

	b.WriteString(instructions)
	b.WriteString("\n\nMODE: ")
	b.WriteString(mode)
	b.WriteString("\n\nCHAT HISTORY:\n")
	writeHistory(&b, history)
	b.WriteString("\nUSER: ")
	b.WriteString(userMessage)
	b.WriteString("\nASSISTANT:")

	return b.String()
}

func writeHistory(b *strings.Builder, history []entity.Turn) {
	if len(history) > LocalHistoryWindow {
		history = history[len(history)-LocalHistoryWindow:]
	}
	for _, t := range history {
		b.WriteString(strings.ToUpper(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
}
