package extraction

import "strings"

// ExtractJSONObject 从模型输出中提取 JSON 对象文本。
// 模型经常在 JSON 前后夹带说明或 markdown 代码块标记，
// 这里取第一个 '{' 到最后一个 '}' 之间的内容。
func ExtractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// ExtractJSONArray 从模型输出中提取 JSON 数组文本
func ExtractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
