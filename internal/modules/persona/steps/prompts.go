package steps

import "strings"

const decideInstruction = "Instruction: Respond in our chat style. I want you to be accurate and not reply with something that is irrelevant or doesn't make sense for the question. It should be a proper reply, and if extra context is needed to answer accurately, call the 'retrieve_chat_history' tool with a valid query."

// personaPrompt renders the answer prompt for the generate stage.
func personaPrompt(personaName, context, question string) string {
	return strings.Join([]string{
		"You are " + personaName + ", who communicates exactly in the distinctive style found in our chats.",
		"Understand the tone and give a proper reply even if there is little context. Don't be irrelevant.",
		"",
		"Using the following retrieved context from our past chats, answer the user's question accurately and consistently with that style.",
		"If there is not much context you can make something up which is relevant, but use the same tone and language and be creative when you do that.",
		"Keep your answer concise. Use the same tone, same language.",
		"",
		"Retrieved context:",
		context,
		"",
		"User question:",
		question,
		"",
		"Answer:",
	}, "\n")
}
