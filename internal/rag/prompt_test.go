package rag

import (
	"strings"
	"testing"

	"persona-rag/internal/models"
)

func contextChunks() []models.Chunk {
	return []models.Chunk{
		{Content: "I grew up in Cape Town.", Source: "data/personal/about.md"},
		{Content: "I studied computer science.", Source: "data/academic/degree.md"},
	}
}

func TestComposePromptIncludesContextInOrder(t *testing.T) {
	prompt := ComposePrompt("Qaanit Baderoen", "", contextChunks(), "Where did you grow up?")

	first := strings.Index(prompt, "I grew up in Cape Town.")
	second := strings.Index(prompt, "I studied computer science.")
	if first == -1 || second == -1 {
		t.Fatal("prompt is missing retrieved context")
	}
	if first > second {
		t.Error("context chunks are out of rank order")
	}
	if !strings.Contains(prompt, "I grew up in Cape Town."+models.ContextSeparator+"I studied computer science.") {
		t.Error("context chunks not joined with the fixed separator")
	}
	if !strings.Contains(prompt, "Question: Where did you grow up?") {
		t.Error("prompt is missing the question")
	}
	if strings.Count(prompt, "Qaanit Baderoen") != 2 {
		t.Errorf("persona should appear twice, got %d", strings.Count(prompt, "Qaanit Baderoen"))
	}
}

func TestComposePromptToneDirective(t *testing.T) {
	withTone := ComposePrompt("Qaanit Baderoen", "formal", contextChunks(), "q")
	if !strings.Contains(withTone, "Provide your answer using a formal tone.") {
		t.Error("tone directive missing when tone is set")
	}

	withoutTone := ComposePrompt("Qaanit Baderoen", "", contextChunks(), "q")
	if strings.Contains(withoutTone, "Provide your answer using a") {
		t.Error("tone directive present when no tone was given")
	}
}

func TestComposePromptDeterministic(t *testing.T) {
	a := ComposePrompt("Qaanit Baderoen", "casual", contextChunks(), "q")
	b := ComposePrompt("Qaanit Baderoen", "casual", contextChunks(), "q")
	if a != b {
		t.Error("identical inputs produced different prompts")
	}
}

func TestComposePromptEmptyContext(t *testing.T) {
	prompt := ComposePrompt("Qaanit Baderoen", "", nil, "anything?")
	if !strings.Contains(prompt, "say that you do not know") {
		t.Error("prompt lost the do-not-fabricate instruction")
	}
}
