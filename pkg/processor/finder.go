package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AhMadness/WordFinder/pkg/asr"
	"github.com/AhMadness/WordFinder/pkg/export"
	"github.com/AhMadness/WordFinder/pkg/matcher"
	"github.com/AhMadness/WordFinder/pkg/models"
	"github.com/AhMadness/WordFinder/pkg/scanner"
	"github.com/AhMadness/WordFinder/pkg/utils"
)

// ErrInputNotFound 输入路径不是常规文件
var ErrInputNotFound = errors.New("输入文件不存在")

// ErrEmptyWordList 没有可查找的词
var ErrEmptyWordList = errors.New("词列表为空")

// ReportWriter 报告写入接口
type ReportWriter interface {
	ExportReport(lines []models.ResultLine, inputPath string) (string, error)
}

// WordFinder 查找流程的协调者
// 单次运行：校验输入 -> (视频则提取音频) -> 识别 -> 过滤 -> 写报告
// 失败不重试，错误向上传播给调用者
type WordFinder struct {
	Config         *models.Config
	Selector       *asr.ASRSelector
	MediaProc      *MediaProcessor
	ReportExporter ReportWriter
	SRTExporter    *export.SRTExporter
	Scanner        *scanner.MediaScanner
	errorHandler   *utils.ErrorHandler
}

// NewWordFinder 创建查找器，注册配置启用的ASR服务
func NewWordFinder(config *models.Config, tempDir string) *WordFinder {
	selector := asr.NewASRSelector()
	selector.RegisterService("whisper-server", asr.NewWhisperServerASR, 2)
	selector.RegisterService("whisper-cli", asr.NewWhisperCLIASR, 1)

	return &WordFinder{
		Config:         config,
		Selector:       selector,
		MediaProc:      NewMediaProcessor(tempDir),
		ReportExporter: export.NewReportExporter(),
		SRTExporter:    export.NewSRTExporter(),
		Scanner:        scanner.NewMediaScanner(),
		errorHandler:   utils.NewErrorHandler(),
	}
}

// FindWords 对单个媒体文件执行一次完整的查找运行
func (f *WordFinder) FindWords(ctx context.Context, inputPath string, words []string, callback asr.ProgressCallback) (*models.Result, error) {
	startTime := time.Now()

	// 输入必须是常规文件，在任何工作开始前校验
	if !utils.CheckFileExists(inputPath) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("%w: 请提供逗号分隔的词列表", ErrEmptyWordList)
	}

	// 视频文件先提取音频
	audioPath := inputPath
	if f.Scanner.IsVideoFile(inputPath) && f.Config.ProcessVideo {
		utils.Info("检测到视频文件，正在提取音频: %s", inputPath)
		extracted, err := f.MediaProc.ExtractAudioFromVideo(inputPath)
		if err != nil {
			return nil, err
		}
		audioPath = extracted
		defer os.Remove(extracted)
	}

	// 执行识别
	segments, serviceName, err := f.Selector.RunWithService(ctx, audioPath, f.Config.ASRService, f.Config, callback)
	if err != nil {
		return nil, err
	}

	utils.Info("识别完成，共%d段，开始查找 %d 个词", len(segments), len(words))

	// 过滤匹配段落
	lines, err := matcher.FilterSegments(segments, words)
	if err != nil {
		return nil, err
	}

	// 写报告文件，失败时清理本次运行创建的不完整输出
	// 之前运行留下的报告不动
	reportPath := utils.OutputPathFor(inputPath)
	existedBefore := utils.CheckFileExists(reportPath)

	var outputPath string
	err = f.errorHandler.SafeExecute("写入报告", func() error {
		path, writeErr := f.ReportExporter.ExportReport(lines, inputPath)
		if writeErr != nil {
			return writeErr
		}
		outputPath = path
		return nil
	}, func() {
		if !existedBefore {
			os.Remove(reportPath)
		}
	})
	if err != nil {
		return nil, err
	}

	// 额外导出匹配段落的SRT字幕
	if f.Config.ExportSRT {
		matched := matcher.FilterMatchedSegments(segments, words)
		if len(matched) > 0 {
			if _, srtErr := f.SRTExporter.ExportSRT(matched, inputPath); srtErr != nil {
				utils.Warn("导出SRT字幕失败: %v", srtErr)
			}
		}
	}

	return &models.Result{
		FilePath:      inputPath,
		Service:       serviceName,
		OutputPath:    outputPath,
		SegmentCount:  len(segments),
		MatchCount:    len(lines),
		ProcessTimeMs: time.Since(startTime).Milliseconds(),
	}, nil
}
