package chat

import (
	"fmt"

	"github.com/quarrylabs/quarry/llm"
)

// systemPrompt is the fixed behavioral policy sent with every chat turn.
const systemPrompt = "You are a helpful assistant.\n" +
	"Answer conversationally, helpfully, and elaborately.\n" +
	"If relevant, mention the source in the answer using the URL below.\n" +
	"If you cite text from a snippet, mention the 'Source URL:' from that snippet.\n" +
	"If the answer is not in the context below, answer from your own knowledge " +
	"and indicate that the answer is from you and not from the provided context.\n" +
	"Format answers in Markdown.\n"

// userPromptTemplate embeds history, retrieved context, and the question
// in a fixed order.
const userPromptTemplate = "Conversation History:\n%s\n\nContext:\n%s\n\nQuestion: %s\n"

// BuildPrompt assembles the message sequence for one chat turn: the
// fixed system instruction followed by a single user message carrying
// the history block, the context block, and the question. Pure function.
func BuildPrompt(query, context, history string) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(userPromptTemplate, history, context, query)},
	}
}
