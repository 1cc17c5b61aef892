package ai

const (
	factCheckSystemPrompt = "You are a fact checker. Point out a problem only when the post contains " +
		"information that is clearly false or misleading. Opinions and subjective statements are fine. " +
		"When there is clear misinformation, answer with a reason that starts with \"WARNING:\". " +
		"Otherwise answer with \"OK\" only."

	factCheckUserPrefix = "Check the following post: "

	assistantSystemPrompt = "You are an AI assistant answering technical questions on DeepDive, " +
		"a learning platform for developers. Answer concisely and accurately."

	assistantContextPrefix = " Conversation context: "
)

// Sampling parameters per call type.
const (
	factCheckMaxTokens   = 200
	factCheckTemperature = 0.3
	assistantMaxTokens   = 500
	assistantTemperature = 0.7
)

func assistantPrompt(conversationContext string) string {
	if conversationContext == "" {
		return assistantSystemPrompt
	}
	return assistantSystemPrompt + assistantContextPrefix + conversationContext
}
