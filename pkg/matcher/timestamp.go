package matcher

import "fmt"

// FormatTimestamp 将秒数格式化为时间戳字符串，如 "05:03.210"、"01:02:03.450"
// alwaysIncludeHours 为 true 时即使小时为0也输出小时部分
func FormatTimestamp(seconds float64, alwaysIncludeHours bool, decimalMarker string) (string, error) {
	if seconds < 0 {
		return "", fmt.Errorf("时间戳不能为负数: %f", seconds)
	}

	totalMs := int64(seconds * 1000)
	milliseconds := totalMs % 1000

	hours := totalMs / 3600000
	remainder := totalMs % 3600000
	minutes := remainder / 60000
	secs := (remainder % 60000) / 1000

	hoursMarker := ""
	if alwaysIncludeHours || hours > 0 {
		hoursMarker = fmt.Sprintf("%02d:", hours)
	}

	return fmt.Sprintf("%s%02d:%02d%s%03d", hoursMarker, minutes, secs, decimalMarker, milliseconds), nil
}

// FormatTimestampSeconds 将秒数格式化为秒级精度的时间戳，如 "05:03"、"01:02:03"
// 报告文件中使用该格式，毫秒部分被丢弃，小时为0时省略
func FormatTimestampSeconds(seconds float64) (string, error) {
	if seconds < 0 {
		return "", fmt.Errorf("时间戳不能为负数: %f", seconds)
	}

	totalMs := int64(seconds * 1000)

	hours := totalMs / 3600000
	remainder := totalMs % 3600000
	minutes := remainder / 60000
	secs := (remainder % 60000) / 1000

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs), nil
	}

	return fmt.Sprintf("%02d:%02d", minutes, secs), nil
}
