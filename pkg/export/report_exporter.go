package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/AhMadness/WordFinder/pkg/models"
	"github.com/AhMadness/WordFinder/pkg/utils"
)

// ReportExporter 负责将匹配结果写入报告文件
type ReportExporter struct{}

// NewReportExporter 创建一个新的报告导出器
func NewReportExporter() *ReportExporter {
	return &ReportExporter{}
}

// GenerateReportContent 生成报告内容
// 每条结果一行 "<时间戳> - <文本>"，后跟空行分隔；无匹配时内容为空
func (e *ReportExporter) GenerateReportContent(lines []models.ResultLine) string {
	var builder strings.Builder

	for _, line := range lines {
		builder.WriteString(fmt.Sprintf("%s - %s\n\n", line.Timestamp, line.Text))
	}

	return builder.String()
}

// ExportReport 将匹配结果写入输入文件旁的报告文件，已存在时覆盖
// 即使没有匹配也会创建空报告文件
func (e *ReportExporter) ExportReport(lines []models.ResultLine, inputPath string) (string, error) {
	outputFile := utils.OutputPathFor(inputPath)

	content := e.GenerateReportContent(lines)

	if err := os.WriteFile(outputFile, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("写入报告文件失败: %w", err)
	}

	utils.Info("已写入报告: %s (%d条匹配)", outputFile, len(lines))
	return outputFile, nil
}
