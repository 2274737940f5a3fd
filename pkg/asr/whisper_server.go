package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/AhMadness/WordFinder/pkg/models"
	"github.com/AhMadness/WordFinder/pkg/utils"
)

// WhisperServerASR 本地Whisper HTTP服务识别实现
type WhisperServerASR struct {
	*BaseASR
	ServerURL string // 服务地址，如 http://127.0.0.1:9000
	Language  string // 识别语言
}

// NewWhisperServerASR 创建Whisper服务ASR实例
func NewWhisperServerASR(audioPath string, config *models.Config) (ASRService, error) {
	baseASR, err := NewBaseASR(audioPath, config.UseCache, config.CacheDir)
	if err != nil {
		return nil, err
	}

	return &WhisperServerASR{
		BaseASR:   baseASR,
		ServerURL: config.WhisperServer,
		Language:  config.Language,
	}, nil
}

// whisperResponse Whisper服务的JSON响应结构
type whisperResponse struct {
	Task     string  `json:"task"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// GetResult 实现ASRService接口
func (w *WhisperServerASR) GetResult(ctx context.Context, callback ProgressCallback) ([]models.DataSegment, error) {
	// 检查是否有缓存
	cacheKey := w.GetCacheKey("WhisperServerASR")
	if w.UseCache {
		if segments, ok := w.LoadFromCache(cacheKey); ok {
			utils.Log.Info("从缓存加载Whisper服务识别结果")
			return segments, nil
		}
	}

	// 显示进度
	if callback != nil {
		callback(20, "正在上传...")
	}

	// 提交识别请求
	result, err := w.submit(ctx, callback)
	if err != nil {
		return nil, fmt.Errorf("Whisper服务请求失败: %w", err)
	}

	// 处理结果
	segments := w.makeSegments(result)

	// 显示进度
	if callback != nil {
		callback(100, "识别完成")
	}

	// 缓存结果
	if w.UseCache && len(segments) > 0 {
		if err := w.SaveToCache(cacheKey, segments); err != nil {
			utils.Log.Warnf("保存Whisper服务识别结果到缓存失败: %v", err)
		}
	}

	return segments, nil
}

// submit 上传音频并等待识别结果
func (w *WhisperServerASR) submit(ctx context.Context, callback ProgressCallback) (*whisperResponse, error) {
	// 构建multipart请求体
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio_file", filepath.Base(w.AudioPath))
	if err != nil {
		return nil, fmt.Errorf("构建上传表单失败: %w", err)
	}
	if _, err := part.Write(w.FileBinary); err != nil {
		return nil, fmt.Errorf("写入音频数据失败: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("关闭上传表单失败: %w", err)
	}

	// 构建请求URL
	query := url.Values{}
	query.Set("task", "transcribe")
	query.Set("output", "json")
	if w.Language != "" {
		query.Set("language", w.Language)
	}
	requestURL := strings.TrimRight(w.ServerURL, "/") + "/asr?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, "POST", requestURL, &body)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if callback != nil {
		callback(50, "等待结果...")
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("服务返回状态码 %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result whisperResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("解析JSON响应失败: %w", err)
	}

	utils.Log.Infof("识别完成, 语言: %s, 时长: %.1f秒, 共%d段", result.Language, result.Duration, len(result.Segments))

	return &result, nil
}

// makeSegments 处理识别结果
func (w *WhisperServerASR) makeSegments(result *whisperResponse) []models.DataSegment {
	segments := make([]models.DataSegment, 0, len(result.Segments))

	for _, s := range result.Segments {
		segments = append(segments, models.DataSegment{
			Text:      s.Text,
			StartTime: s.Start,
			EndTime:   s.End,
		})
	}

	return segments
}
