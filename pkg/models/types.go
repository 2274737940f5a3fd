package models

// DataSegment 表示一个语音识别结果段落，由ASR服务产生
type DataSegment struct {
	Text      string  // 识别出的文本内容
	StartTime float64 // 开始时间（秒）
	EndTime   float64 // 结束时间（秒）
}

// ResultLine 表示一条匹配结果，对应报告文件中的一条记录
type ResultLine struct {
	Timestamp string // 格式化后的开始时间（MM:SS 或 HH:MM:SS）
	Text      string // 匹配段落的文本（去除首尾空白）
}
