// Package extraction 提供预约意图识别与信息抽取
package extraction

import "regexp"

// emailPattern 邮箱格式校验
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}$`)

// BookingInfo 从消息或文档中抽取的预约信息，空字符串表示缺失
type BookingInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Intent  string `json:"intent,omitempty"`
	Context string `json:"context,omitempty"`
}

// Missing 返回缺失或非法的字段列表。
// 邮箱存在但格式非法时追加 valid_email。
func (b BookingInfo) Missing() []string {
	var missing []string

	if b.Name == "" {
		missing = append(missing, "name")
	}
	if b.Email == "" {
		missing = append(missing, "email")
	}
	if b.Date == "" {
		missing = append(missing, "date")
	}
	if b.Time == "" {
		missing = append(missing, "time")
	}

	if b.Email != "" && !emailPattern.MatchString(b.Email) {
		missing = append(missing, "valid_email")
	}

	return missing
}

// Valid 检查预约信息是否完整且合法
func (b BookingInfo) Valid() bool {
	return len(b.Missing()) == 0
}
