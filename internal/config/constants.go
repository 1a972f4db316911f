package config

// BotName is the assistant's display name.
const BotName = "Kepler CampusBot"

// PromptPreamble opens every prompt sent to the generation service.
const PromptPreamble = "You are Kepler CampusBot. Use this Q&A to help answer:"

// WelcomeTitle and WelcomeMessage head the chat page
const (
	WelcomeTitle   = "Welcome to Kepler CampusBot 🎓"
	WelcomeMessage = "Ask about Kepler College rules, policies, or services."
)

// ChatPlaceholder is shown in the empty input box.
const ChatPlaceholder = "Type your question..."

// FallbackReply is recorded as the assistant turn when the generation
// service cannot produce an answer.
const FallbackReply = "Sorry, I can't answer right now. Please try again in a moment, or contact the Kepler College team using the details on the About page."

// AboutTitle heads the informational page.
const AboutTitle = "About Kepler College Chatbot"

// AboutMarkdown is the body of the informational page.
const AboutMarkdown = `I am CampusBot, an AI assistant designed to help you with a wide range of tasks and questions about Kepler College.
My knowledge is based on official college resources, and my goal is to provide you with instant, accurate information.

---

### Contact Us
For more detailed information, personalized assistance, or questions beyond my knowledge base, you can contact the Kepler College team:

- **Phone:** ` + "`+250789773042`" + `
- **Website:** Visit the official Kepler website at [**keplercollege.ac.rw**](https://keplercollege.ac.rw)
- **Admissions:** For admissions-related questions, contact the Admissions team at [**admissions@keplercollege.ac.rw**](mailto:admissions@keplercollege.ac.rw)

---
`
