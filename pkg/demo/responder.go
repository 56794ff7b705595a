package demo

import (
	"fmt"
	"strings"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/pkg/safety"
)

// A handler answers a pending follow-up. ok=false means the anchor matched but the
// message does not fit the branch; routing then continues.
type handler func(message string) (reply string, ok bool)

// anchor ties a question the bot asked to the handler for the user's answer.
type anchor struct {
	topic      string
	text       string
	ignoreCase bool
	handle     handler
}

// anchors is scanned in order against the previous assistant message.
var anchors = []anchor{
	{constant.ModeFriends, "What outcome are you hoping for?", false, friendsOutcome},
	{constant.ModeFriends, "do you want to apologize by text, or in person?", true, friendsApologyChannel},
	{constant.ModeFriends, "Tell me what happened", false, friendsWhatHappened},
	{constant.ModeSchoolStress, "What assignment/exam is stressing you most right now?", false, schoolSubject},
	{constant.ModeHealth, "What's one thing you need to get through today?", false, healthGetThroughToday},
	{constant.ModeHealth, "What's been going on lately?", false, healthGoingOn},
}

// Responder is the offline rule-based backend. It holds no state: the reply is a
// function of the previous assistant message, the new message and the mode.
type Responder struct{}

func NewResponder() *Responder {
	return &Responder{}
}

func (r *Responder) Reply(lastAssistant, message, mode string) string {
	if safety.IsCrisis(message) {
		return constant.CrisisResponse
	}

	msg := strings.TrimSpace(message)
	low := strings.ToLower(msg)

	hit := keywordTopic(low)
	if reply, ok := followUp(lastAssistant, msg, hit); ok {
		return reply
	}

	if isHealthMode(mode) && containsAny(low, anxietyKeywords) {
		return healthAnxiety
	}

	switch Classify(low, mode) {
	case constant.ModeCoding:
		return codingOpening(low)
	case constant.ModeFriends:
		return friendsOpener
	case constant.ModeSchoolStress:
		return schoolOpening(low)
	default:
		return healthOpening(low)
	}
}

// Classify picks the topic for message by keyword: coding, then friends, then
// school. With no match the caller's mode is kept.
func Classify(message, mode string) string {
	if topic := keywordTopic(strings.ToLower(message)); topic != "" {
		return topic
	}
	return mode
}

// keywordTopic returns the topic whose keywords low contains, or "".
func keywordTopic(low string) string {
	switch {
	case containsAny(low, codingKeywords):
		return constant.ModeCoding
	case containsAny(low, friendKeywords):
		return constant.ModeFriends
	case containsAny(low, schoolKeywords):
		return constant.ModeSchoolStress
	default:
		return ""
	}
}

// followUp answers the question left in lastAssistant. Coding and friends keyword
// hits take over a question from another topic; school keywords never do, so
// "I have 3 deadlines" still answers a health question.
func followUp(lastAssistant, message, hit string) (string, bool) {
	if lastAssistant == "" {
		return "", false
	}
	last := normalizeQuotes(lastAssistant)

	for _, a := range anchors {
		if !a.matches(last) || a.overriddenBy(hit) {
			continue
		}
		if reply, ok := a.handle(message); ok {
			return reply, true
		}
	}
	return "", false
}

func (a anchor) overriddenBy(hit string) bool {
	switch hit {
	case constant.ModeCoding, constant.ModeFriends:
		return hit != a.topic
	default:
		return false
	}
}

func (a anchor) matches(last string) bool {
	if a.ignoreCase {
		return strings.Contains(strings.ToLower(last), strings.ToLower(a.text))
	}
	return strings.Contains(last, a.text)
}

func friendsOutcome(message string) (string, bool) {
	want := message
	if want == "" {
		want = "an apology / clarity"
	}
	return fmt.Sprintf(friendsRepairPlan, want), true
}

func friendsApologyChannel(message string) (string, bool) {
	low := strings.ToLower(message)
	switch {
	case strings.Contains(low, "text"):
		return friendsByText, true
	case strings.Contains(low, "person"):
		return friendsInPerson, true
	default:
		return "", false
	}
}

func friendsWhatHappened(string) (string, bool) {
	return friendsClarify, true
}

func schoolSubject(message string) (string, bool) {
	if reply := schoolTopic(strings.ToLower(message)); reply != "" {
		return reply, true
	}
	subject := message
	if subject == "" {
		subject = "that"
	}
	return fmt.Sprintf(schoolSubjectPlan, subject), true
}

func healthGetThroughToday(message string) (string, bool) {
	low := strings.ToLower(message)
	if containsAny(low, deadlineKeywords) || strings.Contains(low, "workload") {
		return healthDeadlinePlan, true
	}
	return healthSimpleSteps, true
}

func healthGoingOn(message string) (string, bool) {
	low := strings.ToLower(message)
	switch {
	case containsAny(low, tiredKeywords):
		return healthTiredReset, true
	case containsAny(low, deadlineKeywords):
		return healthDeadlineAsk, true
	default:
		return healthThanks, true
	}
}

func codingOpening(low string) string {
	if containsAny(low, debugKeywords) {
		return codingDebug
	}
	return codingBuild
}

func schoolOpening(low string) string {
	if reply := schoolTopic(low); reply != "" {
		return reply
	}
	return schoolPlan
}

// schoolTopic returns the fast-start plan for a named math topic, or "".
func schoolTopic(low string) string {
	switch {
	case containsAny(low, algebraKeywords):
		return schoolAlgebra
	case containsAny(low, calculusKeywords):
		return schoolCalculus
	case containsAny(low, geometryKeywords):
		return schoolGeometry
	default:
		return ""
	}
}

func healthOpening(low string) string {
	if containsAny(low, tiredKeywords) {
		return healthTired
	}
	return healthOpener
}

// isHealthMode is true for Health and for modes that have no flow of their own.
func isHealthMode(mode string) bool {
	switch mode {
	case constant.ModeSchoolStress, constant.ModeFriends, constant.ModeCoding:
		return false
	default:
		return true
	}
}

func normalizeQuotes(s string) string {
	return strings.ReplaceAll(s, "’", "'")
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
