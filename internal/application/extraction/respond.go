package extraction

import (
	"fmt"
	"strings"

	"rag-interview-api/internal/application/booking"
	"rag-interview-api/internal/domain/entity"
)

// InfoRequestResponse 检测到预约意图但未提取到任何信息时的回复
func InfoRequestResponse() string {
	return `I'd be happy to help you book an interview! To schedule your interview, I'll need the following information:

📝 **Required Information:**
- Your full name
- Email address
- Preferred date (YYYY-MM-DD format)
- Preferred time (HH:MM format)

Please provide these details and I'll book your interview right away.

**Example:** "I'd like to book an interview. My name is John Smith, email john@example.com, for January 25th, 2024 at 2:30 PM."`
}

// missingFieldLabels 缺失字段的用户可读描述
var missingFieldLabels = map[string]string{
	"name":        "your full name",
	"email":       "your email address",
	"date":        "your preferred date (YYYY-MM-DD)",
	"time":        "your preferred time (HH:MM)",
	"valid_email": "a valid email address",
}

// MissingInfoResponse 部分信息缺失时的回复
func MissingInfoResponse(missing []string) string {
	items := make([]string, len(missing))
	for i, field := range missing {
		if label, ok := missingFieldLabels[field]; ok {
			items[i] = label
		} else {
			items[i] = field
		}
	}

	var missingText string
	switch len(items) {
	case 1:
		missingText = items[0]
	case 2:
		missingText = items[0] + " and " + items[1]
	default:
		missingText = strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}

	return fmt.Sprintf("I have some of your information, but I still need %s to complete your interview booking.\n\nPlease provide the missing information and I'll schedule your interview immediately.", missingText)
}

// ConfirmationResponse 预约成功或已存在时的确认回复
func ConfirmationResponse(res *booking.Resolution) string {
	if res.Status == entity.BookingStatusAlreadyExists {
		return fmt.Sprintf(`Interview already scheduled:
Name: %s
Email: %s
Date: %s
Time: %s`,
			res.Details.Name, res.Details.Email, res.Details.Date, res.Details.Time)
	}

	return fmt.Sprintf(`Interview booked successfully:
Name: %s
Email: %s
Date: %s
Time: %s
Booking ID: %s`,
		res.Details.Name, res.Details.Email, res.Details.Date, res.Details.Time, res.BookingID)
}

// BookingErrorResponse 预约落库失败时的回复
func BookingErrorResponse(err error) string {
	return fmt.Sprintf("I apologize, but I encountered an error while booking your interview: %v. Please try again or contact support.", err)
}
