package matcher

import (
	"strings"

	"github.com/AhMadness/WordFinder/pkg/models"
)

// FilterMatchedSegments 返回文本中包含词列表中任意词的段落子序列
// 匹配为大小写不敏感的子串匹配，结果保持输入顺序
// 词列表为空时返回空结果，这是定义的行为而非错误
func FilterMatchedSegments(segments []models.DataSegment, words []string) []models.DataSegment {
	matched := make([]models.DataSegment, 0)

	if len(words) == 0 {
		return matched
	}

	// 预先转换词列表为小写，避免在每个段落上重复转换
	loweredWords := make([]string, len(words))
	for i, word := range words {
		loweredWords[i] = strings.ToLower(word)
	}

	for _, segment := range segments {
		loweredText := strings.ToLower(segment.Text)

		for _, word := range loweredWords {
			if strings.Contains(loweredText, word) {
				matched = append(matched, segment)
				break
			}
		}
	}

	return matched
}

// FilterSegments 在识别段落中查找匹配词列表的段落并格式化为结果行
// 每个匹配段落至多产生一条结果：秒级精度时间戳加去除首尾空白的文本
func FilterSegments(segments []models.DataSegment, words []string) ([]models.ResultLine, error) {
	matched := FilterMatchedSegments(segments, words)

	results := make([]models.ResultLine, 0, len(matched))
	for _, segment := range matched {
		timestamp, err := FormatTimestampSeconds(segment.StartTime)
		if err != nil {
			return nil, err
		}

		results = append(results, models.ResultLine{
			Timestamp: timestamp,
			Text:      strings.TrimSpace(segment.Text),
		})
	}

	return results, nil
}
