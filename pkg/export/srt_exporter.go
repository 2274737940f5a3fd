package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/AhMadness/WordFinder/pkg/models"
	"github.com/AhMadness/WordFinder/pkg/utils"
)

// SRTExporter 负责将匹配的段落导出为SRT字幕文件
type SRTExporter struct{}

// NewSRTExporter 创建一个新的SRT导出器
func NewSRTExporter() *SRTExporter {
	return &SRTExporter{}
}

// FormatSRTTime 将秒数格式化为SRT时间格式 (HH:MM:SS,mmm)
func (e *SRTExporter) FormatSRTTime(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int(math.Mod(seconds, 3600) / 60)
	secs := int(seconds) % 60
	milliseconds := int((seconds - float64(int(seconds))) * 1000)

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, milliseconds)
}

// GenerateSRTContent 生成SRT格式内容
func (e *SRTExporter) GenerateSRTContent(segments []models.DataSegment) string {
	var srtLines []string

	for i, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}

		startTime := segment.StartTime
		endTime := segment.EndTime

		if endTime <= startTime {
			// 确保结束时间大于开始时间，至少5秒
			endTime = startTime + 5.0
		}

		// 格式化SRT条目
		srtStart := e.FormatSRTTime(startTime)
		srtEnd := e.FormatSRTTime(endTime)

		// 添加序号、时间范围和文本
		srtLines = append(srtLines, fmt.Sprintf("%d", i+1))
		srtLines = append(srtLines, fmt.Sprintf("%s --> %s", srtStart, srtEnd))
		srtLines = append(srtLines, text)
		srtLines = append(srtLines, "") // 空行分隔
	}

	return strings.Join(srtLines, "\n")
}

// ExportSRT 将匹配的段落导出为输入文件旁的SRT字幕文件
func (e *SRTExporter) ExportSRT(segments []models.DataSegment, inputPath string) (string, error) {
	baseName := filepath.Base(inputPath)
	baseName = strings.TrimSuffix(baseName, filepath.Ext(baseName))
	outputFile := filepath.Join(filepath.Dir(inputPath), baseName+".srt")

	// 生成SRT内容
	srtContent := e.GenerateSRTContent(segments)

	// 写入文件
	if err := os.WriteFile(outputFile, []byte(srtContent), 0644); err != nil {
		return "", fmt.Errorf("写入SRT文件失败: %w", err)
	}

	utils.Info("已导出SRT字幕: %s", outputFile)
	return outputFile, nil
}
