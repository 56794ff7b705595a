package demo

// Canned replies. These are fixtures; tests pin them verbatim.

const (
	healthAnxiety = "I’m here with you. Want to try a quick reset?\n\n" +
		"1) Breathe in for 4, hold 2, out for 6 (repeat 5 times)\n" +
		"2) Name 5 things you see, 4 you feel, 3 you hear\n\n" +
		"What’s the biggest thing on your mind right now?"

	healthTired = "That sounds exhausting. Let’s make this lighter.\n" +
		"For the next 10 minutes: drink water, stretch, and do one tiny task you can finish.\n" +
		"What’s one thing you need to get through today?"

	healthOpener = "I hear you. I can support you with calming tools, gentle plans, or just listening.\n" +
		"What’s been going on lately?"

	healthDeadlinePlan = "Okay — deadlines. Let’s make it lighter and concrete.\n\n" +
		"Quick plan (10 minutes):\n" +
		"1) Write the list of tasks (2 min)\n" +
		"2) Pick the top 2 by urgency (1 min)\n" +
		"3) Start the smallest first step on #1 (7 min)\n\n" +
		"Tell me the nearest due time/date + the 2 tasks, and I’ll order them for you."

	healthSimpleSteps = "Got it. Let’s keep it simple.\n" +
		"For the next 10 minutes: water, stretch, then do ONE tiny step you can finish.\n\n" +
		"What’s the nearest deadline (time/date)?"

	healthTiredReset = "That sounds exhausting.\n\n" +
		"Quick reset (2 minutes):\n" +
		"1) Drink water\n" +
		"2) Stand up + stretch\n" +
		"3) 10 slow breaths\n\n" +
		"Is it mainly sleep, workload, or stress?"

	healthDeadlineAsk = "Got you — deadlines can feel heavy.\n\n" +
		"What’s your nearest deadline (date/time), and what are the tasks? " +
		"List them in one line each."

	healthThanks = "Thanks for sharing.\n" +
		"What do you want right now: calming, a practical plan, or just venting?"
)

const (
	schoolPlan = "Let’s reduce the overwhelm with a simple plan.\n\n" +
		"1) What’s your nearest deadline (date/time)?\n" +
		"2) List the next 3 tiny tasks (10–20 min each)\n" +
		"3) Do one 25-minute focus block, then 5-minute break\n\n" +
		"What assignment/exam is stressing you most right now?"

	// %s is the subject the user named.
	schoolSubjectPlan = "Okay — %s. Let’s start with a quick, practical plan.\n\n" +
		"1) Pick ONE topic inside it (example: equations / derivatives / geometry).\n" +
		"2) Do 3 quick wins:\n" +
		"   - 5 min: list what you must submit\n" +
		"   - 10 min: solve 1 easiest question\n" +
		"   - 15 min: solve 1 medium question\n\n" +
		"Tell me: what exact math topic is it (algebra / calculus / geometry) and when is it due?"

	schoolAlgebra = "Algebra — got it.\n\n" +
		"Fast start (25 minutes):\n" +
		"1) Write formulas you need (5 min)\n" +
		"2) Do 2 easy questions (10 min)\n" +
		"3) Do 1 medium question (10 min)\n\n" +
		"Paste ONE question you’re stuck on (or the topic name) and I’ll guide you step-by-step."

	schoolCalculus = "Calculus — got it.\n\n" +
		"Fast start (25 minutes):\n" +
		"1) Write the key rules (5 min)\n" +
		"2) Do 2 basic derivatives/limits (10 min)\n" +
		"3) Do 1 mixed question (10 min)\n\n" +
		"Send one problem or tell me which part (limits / derivatives / integrals)."

	schoolGeometry = "Geometry — got it.\n\n" +
		"Fast start (25 minutes):\n" +
		"1) List theorems you might use (5 min)\n" +
		"2) Solve 1 easiest question (10 min)\n" +
		"3) Solve 1 medium question (10 min)\n\n" +
		"Send a photo/text of one question and I’ll walk you through the steps."
)

const (
	friendsOpener = "That sounds tough. I won’t judge you or them.\n" +
		"Tell me what happened and what you want (apology, clarity, space, or to move on).\n\n" +
		"If you want a simple script:\n" +
		"\"Hey, I felt __ when __. I’d like __. Can we talk?\"\n\n" +
		"What outcome are you hoping for?"

	// %s is what the user hopes for.
	friendsRepairPlan = "Got it — you want %s. Here’s a simple repair plan:\n\n" +
		"1) Own it (no excuses): say what you did.\n" +
		"2) Apologize specifically: name the impact.\n" +
		"3) Repair: ask what would help + stop the behavior.\n" +
		"4) Give space if needed.\n\n" +
		"Message you can send:\n" +
		"\"Hey, I want to apologize. I shared things I shouldn’t have, and that was disrespectful. " +
		"I’m sorry for the stress or hurt it caused. I’ve stopped and I won’t do it again. " +
		"If you’re open, I’d like to make it right — what would help?\"\n\n" +
		"Quick question: do you want to apologize by text, or in person?"

	friendsByText = "Text is fine — keep it short and clear.\n\n" +
		"Use this:\n" +
		"\"Hey, I’m sorry. I gossiped about you and that wasn’t okay. " +
		"I understand it could hurt your trust. I’ve stopped and won’t do it again. " +
		"If you’re willing, I’d like to make it right.\"\n\n" +
		"Then stop talking and let them respond."

	friendsInPerson = "In person works best for trust repair.\n\n" +
		"Say:\n" +
		"1) \"I owe you an apology. I gossiped about you.\"\n" +
		"2) \"That was wrong and I understand it could hurt you.\"\n" +
		"3) \"I’ve stopped and won’t do it again.\"\n" +
		"4) \"What would help you feel okay?\"\n\n" +
		"Then listen without defending yourself."

	friendsClarify = "Thanks for telling me. Before we choose the best move:\n" +
		"1) How did they find out (someone told them / they overheard / you admitted it)?\n" +
		"2) Are they angry, distant, or just ignoring you?\n\n" +
		"Based on your answer, I’ll suggest the cleanest next message."
)

const (
	codingDebug = "To debug fast, send:\n" +
		"1) The full error log\n" +
		"2) The relevant code snippet/file\n" +
		"3) Expected vs actual behavior\n\n" +
		"Also confirm: venv active (which python), deps installed, env vars set, and port not in use."

	codingBuild = "Tell me what you want to build (inputs/outputs + constraints) and I’ll write the code.\n" +
		"If you paste your current code + error, I can fix it quickly."
)

var (
	anxietyKeywords  = []string{"panic", "panic attack", "anxious", "anxiety", "overthinking", "stressed"}
	tiredKeywords    = []string{"tired", "exhausted", "burnt out", "burned out"}
	deadlineKeywords = []string{"ddl", "deadline", "deadlines", "due", "homework", "assignment", "exam", "test", "quiz"}

	algebraKeywords  = []string{"algebra", "equation", "equations", "linear", "quadratic"}
	calculusKeywords = []string{"calculus", "derivative", "derivatives", "integral", "integrals", "limit", "limits"}
	geometryKeywords = []string{"geometry", "triangle", "triangles", "circle", "circles"}

	debugKeywords = []string{"error", "bug", "exception", "traceback", "segfault", "compile", "uvicorn", "fastapi"}

	codingKeywords = []string{
		"code", "bug", "error", "exception", "traceback", "compile", "uvicorn", "fastapi",
		"python", "javascript", "c++",
	}
	friendKeywords = []string{
		"friend", "friends", "bestie", "bully", "argument", "fight", "ignored", "left out",
		"relationship", "boyfriend", "girlfriend", "gossip", "apology",
	}
	schoolKeywords = []string{
		"homework", "assignment", "deadline", "deadlines", "ddl", "due",
		"exam", "test", "quiz", "study", "class", "school", "math", "project", "projects",
		"workload", "overwhelmed", "too much work",
	}
)
