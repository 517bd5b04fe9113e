package models

const (
	// ContextSeparator joins retrieved chunks inside the prompt's context block.
	ContextSeparator = "\n\n---\n\n"

	// DefaultTopK is the number of chunks retrieved for an interactive query.
	DefaultTopK = 4
)

var (
	// PersonaPromptTemplate frames the answer as the document owner speaking
	// in first person. Slots: persona, tone instruction, context, question,
	// persona again.
	PersonaPromptTemplate = `You are acting as %s (Answer in first person).
You have access to their professional, personal and academic documents.
Make your response sound human-like, avoid robotic phrasing and avoid greeting. Avoid using em dashes.
When using information from the knowledge base, phrase it as if you're recalling it yourself.
If you cannot find the answer in the provided context, politely say that you do not know.

%s

Context:
%s

---

Question: %s

Respond in the first person, as if you are %s.
`

	// ToneInstructionTemplate is inserted into the prompt only when the
	// caller asked for a specific tone.
	ToneInstructionTemplate = "Provide your answer using a %s tone."
)
