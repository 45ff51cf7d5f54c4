package extraction

import (
	"regexp"
	"strings"
)

// bookingKeywords 预约意图关键词
var bookingKeywords = []string{
	"book", "schedule", "interview", "appointment", "meeting",
	"available", "slot", "time", "date", "when can", "would like to",
	"interested in", "apply", "position", "role", "job",
}

// bookingPatterns 典型预约句式
var bookingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`i would like to\s+(?:book|schedule)`),
	regexp.MustCompile(`can (?:i|we)\s+(?:book|schedule)`),
	regexp.MustCompile(`(?:book|schedule)\s+(?:an|the)?\s*interview`),
	regexp.MustCompile(`available\s+(?:for|on)`),
	regexp.MustCompile(`interview\s+(?:on|at|for)`),
	regexp.MustCompile(`meet\s+(?:on|at)`),
	regexp.MustCompile(`my name is.*(?:interview|meeting|appointment)`),
	regexp.MustCompile(`(?:i am|i'm)\s+(?:interested|available)`),
}

// IsBookingRequest 判断消息是否包含预约意图。
// 关键词或句式任一命中即视为预约请求。
func IsBookingRequest(message string) bool {
	messageLower := strings.ToLower(message)

	for _, keyword := range bookingKeywords {
		if strings.Contains(messageLower, keyword) {
			return true
		}
	}

	for _, pattern := range bookingPatterns {
		if pattern.MatchString(messageLower) {
			return true
		}
	}

	return false
}
