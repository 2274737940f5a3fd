package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	// 验证默认值是否正确设置
	assert.Equal(t, "./media", config.MediaFolder)
	assert.Equal(t, "en", config.Language)
	assert.Equal(t, "auto", config.ASRService)
	assert.Equal(t, "base", config.WhisperModel)
	assert.True(t, config.UseCache)
	assert.True(t, config.ProcessVideo)
	assert.False(t, config.ExportSRT)
	assert.False(t, config.WatchMode)
	assert.Equal(t, 5.0, config.WatchDebounce)
	assert.Equal(t, "INFO", config.LogLevel)
}

func TestConfigValidate(t *testing.T) {
	tempDir := t.TempDir()

	// 测试有效配置
	config := NewDefaultConfig()
	config.MediaFolder = filepath.Join(tempDir, "media")
	config.CacheDir = filepath.Join(tempDir, "cache")
	err := config.Validate()
	assert.NoError(t, err)

	// 测试无效的ASR服务名
	config.ASRService = "unknown"
	err = config.Validate()
	assert.Error(t, err)
	configErr, ok := err.(*ConfigValidationError)
	assert.True(t, ok)
	assert.Equal(t, "ASRService", configErr.Field)

	// 恢复有效值并测试另一个字段
	config.ASRService = "auto"
	config.WatchDebounce = 0 // 小于最小值0.1
	err = config.Validate()
	assert.Error(t, err)
	configErr, ok = err.(*ConfigValidationError)
	assert.True(t, ok)
	assert.Equal(t, "WatchDebounce", configErr.Field)
}

func TestConfigSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	tempFile := filepath.Join(tempDir, "test_config.json")

	// 创建并保存配置
	originalConfig := NewDefaultConfig()
	originalConfig.MediaFolder = filepath.Join(tempDir, "media")
	originalConfig.CacheDir = filepath.Join(tempDir, "cache")
	originalConfig.Words = "hello, there"
	originalConfig.ExportSRT = true

	err := originalConfig.SaveToFile(tempFile)
	assert.NoError(t, err)

	// 从文件加载配置
	loadedConfig := NewDefaultConfig()
	err = loadedConfig.LoadFromFile(tempFile)
	assert.NoError(t, err)

	// 验证加载的配置是否与原始配置匹配
	assert.Equal(t, originalConfig.MediaFolder, loadedConfig.MediaFolder)
	assert.Equal(t, originalConfig.Words, loadedConfig.Words)
	assert.Equal(t, originalConfig.ExportSRT, loadedConfig.ExportSRT)
}

func TestConfigUpdate(t *testing.T) {
	tempDir := t.TempDir()

	config := NewDefaultConfig()
	config.MediaFolder = filepath.Join(tempDir, "media")
	config.CacheDir = filepath.Join(tempDir, "cache")

	// 有效更新
	updates := map[string]interface{}{
		"words":      "general, kenobi",
		"export_srt": true,
	}

	err := config.Update(updates)
	assert.NoError(t, err)
	assert.Equal(t, "general, kenobi", config.Words)
	assert.True(t, config.ExportSRT)

	// 无效更新被回滚
	invalidUpdates := map[string]interface{}{
		"asr_service": "unknown",
	}

	err = config.Update(invalidUpdates)
	assert.Error(t, err)
	assert.Equal(t, "auto", config.ASRService) // 应该保持原值
}

func TestConfigReset(t *testing.T) {
	config := NewDefaultConfig()

	// 修改配置
	config.Words = "custom"
	config.ExportSRT = true

	// 重置为默认值
	config.Reset()

	// 验证是否重置为默认值
	assert.Equal(t, "", config.Words)
	assert.False(t, config.ExportSRT)
}

func TestConfigValidateCreatesFolders(t *testing.T) {
	tempDir := t.TempDir()

	config := NewDefaultConfig()
	config.MediaFolder = filepath.Join(tempDir, "new_media")
	config.CacheDir = filepath.Join(tempDir, "new_cache")

	assert.NoError(t, config.Validate())

	// 验证目录已被创建
	info, err := os.Stat(config.MediaFolder)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}
