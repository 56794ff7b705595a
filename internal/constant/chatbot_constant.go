package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleModel     = "model"

	// MaxHistoryMessages caps the stored turns per session.
	MaxHistoryMessages = 30

	// MinSessionIdLength is the shortest session id accepted from clients.
	MinSessionIdLength = 6

	// Stream fragment sizes (in runes) for replies that are produced in one piece.
	CrisisStreamFragment = 12
	ReplyStreamFragment  = 10

	StreamContentType = "text/plain; charset=utf-8"

	DemoNotesHeader = "\n\n---\nTop related notes (demo):\n"

	GeminiErrorMarker = "\n\n[Error] Gemini call failed: %v\n"
	OllamaErrorMarker = "\n\n[Error] Ollama local call failed: %v\n"
)

const (
	ModeHealth       = "Health"
	ModeSchoolStress = "School Stress"
	ModeFriends      = "Friends"
	ModeCoding       = "Coding"
)

// Modes is the ordered list advertised to clients.
var Modes = []string{ModeHealth, ModeSchoolStress, ModeFriends, ModeCoding}

var SystemPrompts = map[string]string{
	ModeHealth: "You are a supportive mental-health chatbot for teenagers. " +
		"Be calm, friendly, and non-judgmental. " +
		"Do NOT diagnose. Do NOT provide medical advice. " +
		"Offer safe coping strategies (breathing, grounding, journaling, routines, reaching out). " +
		"If self-harm/suicide is mentioned, respond with empathy and encourage immediate real-world help. " +
		"Keep replies short (2–6 sentences) unless asked for more. " +
		"Ask at most ONE gentle follow-up question.",
	ModeSchoolStress: "You are a supportive school-stress coach for teenagers. " +
		"Help with overwhelm, deadlines, exam anxiety, burnout, procrastination, and focus. " +
		"Use practical steps: break tasks down, prioritize, timebox, and create a simple plan. " +
		"Be encouraging and realistic. " +
		"Keep replies short (2–8 sentences). " +
		"Ask ONE question to clarify the biggest stressor or nearest deadline.",
	ModeFriends: "You are a supportive friend-relationship coach for teenagers. " +
		"Help with communication, conflict, boundaries, loneliness, and peer pressure. " +
		"Be empathetic and avoid judging anyone. " +
		"Offer a simple message/script the user can say if helpful. " +
		"Keep replies short (2–8 sentences). " +
		"Ask ONE question to understand what happened and what outcome the user wants.",
	ModeCoding: "You are a senior software engineer. Provide correct, runnable code. " +
		"Explain briefly and mention edge cases or quick tests when useful.",
}

// CrisisKeywords are matched as case-insensitive substrings.
var CrisisKeywords = []string{
	"kill myself",
	"suicide",
	"self harm",
	"self-harm",
	"cut myself",
	"i want to die",
	"end my life",
}

const CrisisResponse = "I’m really sorry you’re feeling this way. You deserve support and you don’t have to face this alone.\n\n" +
	"If you might hurt yourself or feel in immediate danger, please contact your local emergency number right now.\n" +
	"If you can, tell a trusted adult (parent/guardian/teacher/school counselor) immediately.\n" +
	"If you tell me your country, I can suggest crisis hotline options."

// Event types published on the internal bus.
const (
	EventChatTurnCompleted = "CHAT_TURN_COMPLETED"
	EventDocumentIngested  = "DOCUMENT_INGESTED"
)
