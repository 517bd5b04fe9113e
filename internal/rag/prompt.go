package rag

import (
	"fmt"
	"strings"

	"persona-rag/internal/models"
)

// ComposePrompt builds the instruction prompt for the generative model.
// Chunk contents are concatenated in rank order, the tone directive is
// included only when tone is non-empty. Pure function.
func ComposePrompt(persona, tone string, contextChunks []models.Chunk, question string) string {
	contents := make([]string, 0, len(contextChunks))
	for _, chunk := range contextChunks {
		contents = append(contents, chunk.Content)
	}
	contextText := strings.Join(contents, models.ContextSeparator)

	toneInstruction := ""
	if tone != "" {
		toneInstruction = fmt.Sprintf(models.ToneInstructionTemplate, tone)
	}

	return fmt.Sprintf(models.PersonaPromptTemplate, persona, toneInstruction, contextText, question, persona)
}
