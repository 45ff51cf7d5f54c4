package extraction

import (
	"regexp"
	"strings"
	"time"
)

// ordinalSuffix 去掉日期中的序数后缀（1st、2nd、3rd、4th）
var ordinalSuffix = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)`)

// dateLayouts 支持的日期格式
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// timeLayouts 支持的时间格式
var timeLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// NormalizeDate 将日期规整为 YYYY-MM-DD，解析失败时返回默认日期
func NormalizeDate(dateStr string, now time.Time) string {
	cleaned := strings.TrimSpace(ordinalSuffix.ReplaceAllString(dateStr, "$1"))

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return DefaultDate(now)
}

// NormalizeTime 将时间规整为 HH:MM，解析失败时返回 10:00
func NormalizeTime(timeStr string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(timeStr))

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return parsed.Format("15:04")
		}
	}
	return "10:00"
}

// DefaultDate 返回默认日期：下一个工作日
func DefaultDate(now time.Time) string {
	next := now.AddDate(0, 0, 1)
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next.Format("2006-01-02")
}
