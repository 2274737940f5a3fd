package asr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/AhMadness/WordFinder/pkg/models"
	"github.com/AhMadness/WordFinder/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestWhisperServerGetResult(t *testing.T) {
	utils.InitLogger(utils.LogLevelQuiet, "")

	// 模拟Whisper HTTP服务
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/asr", r.URL.Path)
		assert.Equal(t, "transcribe", r.URL.Query().Get("task"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))

		// 请求必须是multipart上传
		err := r.ParseMultipartForm(1 << 20)
		assert.NoError(t, err)
		_, _, err = r.FormFile("audio_file")
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"task": "transcribe",
			"language": "en",
			"duration": 15.0,
			"text": "General Kenobi, hello there Nothing interesting",
			"segments": [
				{"start": 0.0, "end": 3.1, "text": "General Kenobi, hello there"},
				{"start": 5.2, "end": 7.9, "text": "Nothing interesting"}
			]
		}`))
	}))
	defer server.Close()

	tempDir := t.TempDir()
	audioPath := filepath.Join(tempDir, "test.mp3")
	assert.NoError(t, os.WriteFile(audioPath, []byte("fake audio"), 0644))

	config := models.NewDefaultConfig()
	config.WhisperServer = server.URL
	config.Language = "en"
	config.UseCache = false
	config.CacheDir = filepath.Join(tempDir, "cache")

	service, err := NewWhisperServerASR(audioPath, config)
	assert.NoError(t, err)

	var lastPercent int
	segments, err := service.GetResult(context.Background(), func(percent int, message string) {
		lastPercent = percent
	})
	assert.NoError(t, err)
	assert.Equal(t, 100, lastPercent)

	assert.Equal(t, []models.DataSegment{
		{Text: "General Kenobi, hello there", StartTime: 0.0, EndTime: 3.1},
		{Text: "Nothing interesting", StartTime: 5.2, EndTime: 7.9},
	}, segments)
}

func TestWhisperServerErrorStatus(t *testing.T) {
	utils.InitLogger(utils.LogLevelQuiet, "")

	// 服务返回错误状态码
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	tempDir := t.TempDir()
	audioPath := filepath.Join(tempDir, "test.mp3")
	assert.NoError(t, os.WriteFile(audioPath, []byte("fake audio"), 0644))

	config := models.NewDefaultConfig()
	config.WhisperServer = server.URL
	config.UseCache = false
	config.CacheDir = filepath.Join(tempDir, "cache")

	service, err := NewWhisperServerASR(audioPath, config)
	assert.NoError(t, err)

	_, err = service.GetResult(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestWhisperServerUsesCache(t *testing.T) {
	utils.InitLogger(utils.LogLevelQuiet, "")

	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"segments": [{"start": 0, "end": 1, "text": "cached"}]}`))
	}))
	defer server.Close()

	tempDir := t.TempDir()
	audioPath := filepath.Join(tempDir, "test.mp3")
	assert.NoError(t, os.WriteFile(audioPath, []byte("fake audio"), 0644))

	config := models.NewDefaultConfig()
	config.WhisperServer = server.URL
	config.UseCache = true
	config.CacheDir = filepath.Join(tempDir, "cache")

	// 第一次请求访问服务
	service, err := NewWhisperServerASR(audioPath, config)
	assert.NoError(t, err)
	first, err := service.GetResult(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, requestCount)

	// 第二次相同文件命中缓存，不再访问服务
	service, err = NewWhisperServerASR(audioPath, config)
	assert.NoError(t, err)
	second, err := service.GetResult(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, requestCount)
	assert.Equal(t, first, second)
}
