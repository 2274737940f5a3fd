package models

// Result 单次查找运行的结果统计信息
type Result struct {
	FilePath      string `json:"file_path"`       // 处理的文件路径
	Service       string `json:"service"`         // 使用的ASR服务
	OutputPath    string `json:"output_path"`     // 报告文件路径
	SegmentCount  int    `json:"segment_count"`   // 识别的文本段数
	MatchCount    int    `json:"match_count"`     // 匹配的文本段数
	ProcessTimeMs int64  `json:"process_time_ms"` // 处理时间（毫秒）
}
