package assistant

import "campusbot/internal/config"

// BuildPrompt wraps the Q&A context and the visitor's utterance in the fixed
// CampusBot frame.
func BuildPrompt(context, utterance string) string {
	return config.PromptPreamble + "\n" + context + "\n\nUser: " + utterance
}
