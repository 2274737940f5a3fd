package matcher

import "strings"

// ParseWordList 解析逗号分隔的词列表
// 按逗号拆分，去除首尾空白，丢弃空条目，保留原始顺序和大小写
func ParseWordList(input string) []string {
	parts := strings.Split(input, ",")

	words := make([]string, 0, len(parts))
	for _, part := range parts {
		word := strings.TrimSpace(part)
		if word == "" {
			continue
		}
		words = append(words, word)
	}

	return words
}
