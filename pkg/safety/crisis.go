package safety

import (
	"strings"

	"ai-support-chat-be/internal/constant"
)

// IsCrisis reports whether text contains any crisis keyword, ignoring case.
func IsCrisis(text string) bool {
	low := strings.ToLower(text)
	for _, k := range constant.CrisisKeywords {
		if strings.Contains(low, k) {
			return true
		}
	}
	return false
}
