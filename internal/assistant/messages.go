package assistant

// Fixed texts shown or sent by the client.
const (
	MorningCheckinMessage = "Good morning!"
	DayPlanMessage        = "Plan my day"

	OfflineMessage = "Sorry, I'm having trouble connecting right now. " +
		"Please make sure the backend is running and try again."

	WelcomeMessage = `**Welcome to Timely!** I'm your AI productivity coach.

I'm here to help you:
• **Decide what to do next** when you're feeling overwhelmed
• **Plan your day** with realistic time blocks
• **Stay motivated** with personalized coaching

Try asking me "What should I do next?" or "Plan my day"`
)

// QuickSuggestions are canned prompts offered to the user.
var QuickSuggestions = []string{
	"What should I do next?",
	"Plan my day",
	"I'm feeling overwhelmed",
	"Help me schedule my afternoon",
}

const (
	noticeConnected     = "Connected to Timely AI!"
	noticeConnectFailed = "Backend connection failed"
	noticeChatFailed    = "Connection error. Check if backend is running."
	noticeCheckinFailed = "Could not complete morning check-in"
	noticeDayPlanFailed = "Could not create day plan"
	noticeTaskCompleted = "Task completed!"
	noticeChatCleared   = "Chat cleared"
	noticeTaskAddedFmt  = "Added task: %s"
)
