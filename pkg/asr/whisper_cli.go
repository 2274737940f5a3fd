package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/AhMadness/WordFinder/pkg/models"
	"github.com/AhMadness/WordFinder/pkg/utils"
)

// WhisperCLIASR 通过本地whisper命令行工具识别
type WhisperCLIASR struct {
	*BaseASR
	BinPath  string // whisper可执行文件
	Model    string // 模型名称，如 base
	Language string // 识别语言
}

// NewWhisperCLIASR 创建whisper命令行ASR实例
func NewWhisperCLIASR(audioPath string, config *models.Config) (ASRService, error) {
	baseASR, err := NewBaseASR(audioPath, config.UseCache, config.CacheDir)
	if err != nil {
		return nil, err
	}

	return &WhisperCLIASR{
		BaseASR:  baseASR,
		BinPath:  config.WhisperBin,
		Model:    config.WhisperModel,
		Language: config.Language,
	}, nil
}

// CheckWhisperBin 检查whisper命令行工具是否可用
func CheckWhisperBin(binPath string) bool {
	cmd := exec.Command(binPath, "--help")
	err := cmd.Run()
	return err == nil
}

// whisperJSONOutput whisper命令行 --output_format json 的结果结构
type whisperJSONOutput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// GetResult 实现ASRService接口
func (w *WhisperCLIASR) GetResult(ctx context.Context, callback ProgressCallback) ([]models.DataSegment, error) {
	// 检查是否有缓存
	cacheKey := w.GetCacheKey("WhisperCLIASR")
	if w.UseCache {
		if segments, ok := w.LoadFromCache(cacheKey); ok {
			utils.Log.Info("从缓存加载whisper命令行识别结果")
			return segments, nil
		}
	}

	if callback != nil {
		callback(10, "启动whisper...")
	}

	// 识别结果写入临时目录，避免污染输入目录
	outputDir, err := os.MkdirTemp("", "wordfinder-whisper")
	if err != nil {
		return nil, fmt.Errorf("创建临时目录失败: %w", err)
	}
	defer os.RemoveAll(outputDir)

	args := []string{
		w.AudioPath,
		"--model", w.Model,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--fp16", "False",
	}
	if w.Language != "" {
		args = append(args, "--language", w.Language)
	}

	cmd := exec.CommandContext(ctx, w.BinPath, args...)
	utils.Log.Debugf("执行命令: %s %s", w.BinPath, strings.Join(args, " "))

	if callback != nil {
		callback(30, "正在识别...")
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("whisper执行失败: %w: %s", err, strings.TrimSpace(string(out)))
	}

	if callback != nil {
		callback(90, "解析结果...")
	}

	// whisper将结果写为 <输入名>.json
	baseName := filepath.Base(w.AudioPath)
	baseName = strings.TrimSuffix(baseName, filepath.Ext(baseName))
	resultPath := filepath.Join(outputDir, baseName+".json")

	data, err := os.ReadFile(resultPath)
	if err != nil {
		return nil, fmt.Errorf("读取识别结果失败: %w", err)
	}

	var result whisperJSONOutput
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("解析识别结果失败: %w", err)
	}

	segments := make([]models.DataSegment, 0, len(result.Segments))
	for _, s := range result.Segments {
		segments = append(segments, models.DataSegment{
			Text:      s.Text,
			StartTime: s.Start,
			EndTime:   s.End,
		})
	}

	if callback != nil {
		callback(100, "识别完成")
	}

	// 缓存结果
	if w.UseCache && len(segments) > 0 {
		if err := w.SaveToCache(cacheKey, segments); err != nil {
			utils.Log.Warnf("保存whisper命令行识别结果到缓存失败: %v", err)
		}
	}

	return segments, nil
}
