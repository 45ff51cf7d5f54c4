package extraction

import (
	"regexp"
	"strings"
	"time"
)

// interviewKeywords 文档中的面试上下文关键词
var interviewKeywords = []string{
	"interview", "schedule", "appointment", "meeting",
	"available", "book", "slot", "time",
}

// emailFindPattern 文档中的邮箱
var emailFindPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

// namePatterns 常见的姓名句式
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:Name|Contact|From):\s*([A-Z][a-z]+ [A-Z][a-z]+)`),
	regexp.MustCompile(`([A-Z][a-z]+ [A-Z][a-z]+)(?:\s+(?:would like|requests|wants))`),
	regexp.MustCompile(`(?:I am|My name is)\s+([A-Z][a-z]+ [A-Z][a-z]+)`),
}

// datePatterns 多种日期写法
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(?i)(\d{1,2}(?:st|nd|rd|th)?\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4})`),
	regexp.MustCompile(`(?i)((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2}(?:st|nd|rd|th)?(?:,\s*)?\d{4})`),
}

// timePatterns 多种时间写法
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}:\d{2}\s*(?:AM|PM|am|pm))`),
	regexp.MustCompile(`(\d{1,2}:\d{2})`),
	regexp.MustCompile(`(\d{1,2}\s*(?:AM|PM|am|pm))`),
}

// MineBookingCandidates 基于正则从文档中挖掘预约信息，AI 抽取失败时的回退路径。
//
// 必须同时出现邮箱和姓名/日期/时间之一才产出候选；缺失的日期
// 取下一个工作日，缺失的时间取 10:00。
func MineBookingCandidates(text string, now time.Time) []BookingInfo {
	textLower := strings.ToLower(text)

	hasContext := false
	for _, keyword := range interviewKeywords {
		if strings.Contains(textLower, keyword) {
			hasContext = true
			break
		}
	}
	if !hasContext {
		return nil
	}

	emails := emailFindPattern.FindAllString(text, -1)

	var names []string
	for _, pattern := range namePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			names = append(names, m[1])
		}
	}

	var dates []string
	for _, pattern := range datePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			dates = append(dates, m[1])
		}
	}

	var times []string
	for _, pattern := range timePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			times = append(times, m[1])
		}
	}

	if len(emails) == 0 || (len(names) == 0 && len(dates) == 0 && len(times) == 0) {
		return nil
	}

	info := BookingInfo{
		Name:    "Unknown",
		Email:   emails[0],
		Date:    DefaultDate(now),
		Time:    "10:00",
		Context: "Extracted from document content",
	}
	if len(names) > 0 {
		info.Name = names[0]
	}
	if len(dates) > 0 {
		info.Date = NormalizeDate(dates[0], now)
	}
	if len(times) > 0 {
		info.Time = NormalizeTime(times[0])
	}

	return []BookingInfo{info}
}
