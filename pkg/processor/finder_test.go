package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AhMadness/WordFinder/pkg/asr"
	"github.com/AhMadness/WordFinder/pkg/models"
	"github.com/AhMadness/WordFinder/pkg/utils"
	"github.com/stretchr/testify/assert"
)

// stubService 测试用的ASR服务，返回固定段落
type stubService struct {
	segments []models.DataSegment
	err      error
}

func (s *stubService) GetResult(ctx context.Context, callback asr.ProgressCallback) ([]models.DataSegment, error) {
	return s.segments, s.err
}

// newTestFinder 创建使用stub识别服务的查找器
func newTestFinder(t *testing.T, tempDir string, segments []models.DataSegment, asrErr error) *WordFinder {
	t.Helper()

	config := models.NewDefaultConfig()
	config.MediaFolder = tempDir
	config.CacheDir = filepath.Join(tempDir, "cache")
	config.ProcessVideo = false
	config.ASRService = "stub"

	finder := NewWordFinder(config, filepath.Join(tempDir, "temp"))

	// 用stub服务替换真实后端
	selector := asr.NewASRSelector()
	selector.RegisterService("stub", func(audioPath string, config *models.Config) (asr.ASRService, error) {
		return &stubService{segments: segments, err: asrErr}, nil
	}, 1)
	finder.Selector = selector

	return finder
}

func createTestInput(t *testing.T, dir string) string {
	t.Helper()
	inputPath := filepath.Join(dir, "episode.mp3")
	assert.NoError(t, os.WriteFile(inputPath, []byte("fake audio"), 0644))
	return inputPath
}

func TestFindWordsInputNotFound(t *testing.T) {
	utils.InitLogger(utils.LogLevelQuiet, "")

	tempDir := t.TempDir()
	finder := newTestFinder(t, tempDir, nil, nil)

	// 不存在的输入路径在任何工作开始前失败
	_, err := finder.FindWords(context.Background(), filepath.Join(tempDir, "missing.mp3"), []string{"hello"}, nil)
	assert.ErrorIs(t, err, ErrInputNotFound)

	// 目录不是常规文件
	_, err = finder.FindWords(context.Background(), tempDir, []string{"hello"}, nil)
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestFindWordsEmptyWordList(t *testing.T) {
	utils.InitLogger(utils.LogLevelQuiet, "")

	tempDir := t.TempDir()
	finder := newTestFinder(t, tempDir, nil, nil)
	inputPath := createTestInput(t, tempDir)

	_, err := finder.FindWords(context.Background(), inputPath, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyWordList)
}

func TestFindWordsWritesReport(t *testing.T) {
	utils.InitLogger(utils.LogLevelQuiet, "")

	tempDir := t.TempDir()
	segments := []models.DataSegment{
		{Text: "General Kenobi, hello there", StartTime: 0.0, EndTime: 3.0},
		{Text: "Nothing interesting", StartTime: 5.2, EndTime: 8.0},
		{Text: "You fool!", StartTime: 12.75, EndTime: 14.0},
	}

	finder := newTestFinder(t, tempDir, segments, nil)
	inputPath := createTestInput(t, tempDir)

	result, err := finder.FindWords(context.Background(), inputPath, []string{"hello", "fool"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "stub", result.Service)
	assert.Equal(t, 3, result.SegmentCount)
	assert.Equal(t, 2, result.MatchCount)

	// 报告写在输入文件旁
	expectedPath := filepath.Join(tempDir, "episode.txt")
	assert.Equal(t, expectedPath, result.OutputPath)

	data, err := os.ReadFile(expectedPath)
	assert.NoError(t, err)
	assert.Equal(t, "00:00 - General Kenobi, hello there\n\n00:12 - You fool!\n\n", string(data))
}

func TestFindWordsNoMatchesWritesEmptyReport(t *testing.T) {
	utils.InitLogger(utils.LogLevelQuiet, "")

	tempDir := t.TempDir()
	segments := []models.DataSegment{
		{Text: "Nothing interesting", StartTime: 5.2, EndTime: 8.0},
	}

	finder := newTestFinder(t, tempDir, segments, nil)
	inputPath := createTestInput(t, tempDir)

	result, err := finder.FindWords(context.Background(), inputPath, []string{"hello"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.MatchCount)

	// 无匹配时报告文件仍然被创建，内容为空
	data, err := os.ReadFile(result.OutputPath)
	assert.NoError(t, err)
	assert.Empty(t, data)
}

func TestFindWordsASRFailure(t *testing.T) {
	utils.InitLogger(utils.LogLevelQuiet, "")

	tempDir := t.TempDir()
	asrErr := errors.New("识别服务不可用")

	finder := newTestFinder(t, tempDir, nil, asrErr)
	inputPath := createTestInput(t, tempDir)

	// 识别失败向上传播，不写报告文件
	_, err := finder.FindWords(context.Background(), inputPath, []string{"hello"}, nil)
	assert.ErrorIs(t, err, asrErr)

	_, statErr := os.Stat(filepath.Join(tempDir, "episode.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

// failingReportWriter 写报告总是失败，可选地先留下不完整的文件
type failingReportWriter struct {
	partialContent string
	err            error
}

func (w *failingReportWriter) ExportReport(lines []models.ResultLine, inputPath string) (string, error) {
	if w.partialContent != "" {
		os.WriteFile(utils.OutputPathFor(inputPath), []byte(w.partialContent), 0644)
	}
	return "", w.err
}

func TestFindWordsExportFailureKeepsPreviousReport(t *testing.T) {
	utils.InitLogger(utils.LogLevelQuiet, "")

	tempDir := t.TempDir()
	segments := []models.DataSegment{
		{Text: "hello there", StartTime: 0.0, EndTime: 2.5},
	}

	finder := newTestFinder(t, tempDir, segments, nil)
	inputPath := createTestInput(t, tempDir)

	// 上次成功运行留下的报告
	reportPath := filepath.Join(tempDir, "episode.txt")
	assert.NoError(t, os.WriteFile(reportPath, []byte("00:00 - hello there\n\n"), 0644))

	// 本次写报告失败且没有创建文件，旧报告必须保留
	finder.ReportExporter = &failingReportWriter{err: errors.New("磁盘已满")}
	_, err := finder.FindWords(context.Background(), inputPath, []string{"hello"}, nil)
	assert.Error(t, err)

	data, readErr := os.ReadFile(reportPath)
	assert.NoError(t, readErr)
	assert.Equal(t, "00:00 - hello there\n\n", string(data))
}

func TestFindWordsExportFailureRemovesPartialFile(t *testing.T) {
	utils.InitLogger(utils.LogLevelQuiet, "")

	tempDir := t.TempDir()
	segments := []models.DataSegment{
		{Text: "hello there", StartTime: 0.0, EndTime: 2.5},
	}

	finder := newTestFinder(t, tempDir, segments, nil)
	inputPath := createTestInput(t, tempDir)

	// 本次运行写到一半失败，留下的不完整文件应被清理
	finder.ReportExporter = &failingReportWriter{
		partialContent: "00:00 - hel",
		err:            errors.New("写入中断"),
	}
	_, err := finder.FindWords(context.Background(), inputPath, []string{"hello"}, nil)
	assert.Error(t, err)

	_, statErr := os.Stat(filepath.Join(tempDir, "episode.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFindWordsExportSRT(t *testing.T) {
	utils.InitLogger(utils.LogLevelQuiet, "")

	tempDir := t.TempDir()
	segments := []models.DataSegment{
		{Text: "hello there", StartTime: 0.0, EndTime: 2.5},
		{Text: "Nothing interesting", StartTime: 5.2, EndTime: 8.0},
	}

	finder := newTestFinder(t, tempDir, segments, nil)
	finder.Config.ExportSRT = true
	inputPath := createTestInput(t, tempDir)

	_, err := finder.FindWords(context.Background(), inputPath, []string{"hello"}, nil)
	assert.NoError(t, err)

	// SRT中只包含匹配的段落
	data, err := os.ReadFile(filepath.Join(tempDir, "episode.srt"))
	assert.NoError(t, err)
	assert.Contains(t, string(data), "hello there")
	assert.NotContains(t, string(data), "Nothing interesting")
}
