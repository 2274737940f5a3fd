package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Config 表示应用程序的配置
type Config struct {
	MediaFolder   string  `json:"media_folder"`   // 媒体文件所在文件夹（文件夹模式）
	Words         string  `json:"words"`          // 要查找的词列表，逗号分隔
	Language      string  `json:"language"`       // 识别语言（如 "en"、"zh"）
	ASRService    string  `json:"asr_service"`    // ASR服务名称 (whisper-server, whisper-cli, auto)
	WhisperServer string  `json:"whisper_server"` // 本地Whisper服务地址
	WhisperBin    string  `json:"whisper_bin"`    // Whisper命令行可执行文件
	WhisperModel  string  `json:"whisper_model"`  // Whisper模型名称
	UseCache      bool    `json:"use_cache"`      // 是否缓存识别结果
	CacheDir      string  `json:"cache_dir"`      // 识别结果缓存目录
	ProcessVideo  bool    `json:"process_video"`  // 处理视频文件（先提取音频）
	ExportSRT     bool    `json:"export_srt"`     // 额外导出匹配段落的SRT字幕
	WatchMode     bool    `json:"watch_mode"`     // 是否启用监听模式
	WatchDebounce float64 `json:"watch_debounce"` // 监听去抖时间（秒）
	ShowProgress  bool    `json:"show_progress"`  // 显示进度条
	TempDir       string  `json:"temp_dir"`       // 临时目录
	LogLevel      string  `json:"log_level"`      // 日志级别
	LogFile       string  `json:"log_file"`       // 日志文件
}

// ConfigValidationError 表示配置验证错误
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e *ConfigValidationError) Error() string {
	msg := fmt.Sprintf("配置验证错误: %s - %s", e.Field, e.Message)
	logrus.Error(msg) // 记录日志
	return msg        // 返回错误信息
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		MediaFolder:   "./media",
		Words:         "",
		Language:      "en",
		ASRService:    "auto",
		WhisperServer: "http://127.0.0.1:9000",
		WhisperBin:    "whisper",
		WhisperModel:  "base",
		UseCache:      true,
		CacheDir:      "./cache",
		ProcessVideo:  true,
		ExportSRT:     false,
		WatchMode:     false,
		WatchDebounce: 5.0,
		ShowProgress:  true,
		TempDir:       "",
		LogLevel:      "INFO",
		LogFile:       "",
	}
}

// Validate 验证配置是否有效
func (c *Config) Validate() error {
	// 验证文件夹路径
	if err := ensureDirExists(c.MediaFolder); err != nil {
		return &ConfigValidationError{"MediaFolder", err.Error()}
	}

	if err := ensureDirExists(c.CacheDir); err != nil {
		return &ConfigValidationError{"CacheDir", err.Error()}
	}

	// 验证ASR服务名称
	switch c.ASRService {
	case "auto", "whisper-server", "whisper-cli":
	default:
		return &ConfigValidationError{"ASRService", "必须为 auto、whisper-server 或 whisper-cli"}
	}

	// 验证数值范围
	if c.WatchDebounce < 0.1 || c.WatchDebounce > 60.0 {
		return &ConfigValidationError{"WatchDebounce", "必须在0.1-60.0秒之间"}
	}

	return nil
}

// LoadFromFile 从文件加载配置
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("读取配置文件失败: %v", err)
		return err
	}

	err = json.Unmarshal(data, c)
	if err != nil {
		logrus.Errorf("解析配置文件失败: %v", err)
		return err
	}

	if err := c.Validate(); err != nil {
		logrus.Errorf("配置验证失败: %v", err)
		return err
	}

	return nil
}

// SaveToFile 保存配置到文件
func (c *Config) SaveToFile(path string) error {
	// 确保目录存在
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logrus.Errorf("创建目录失败: %v", err)
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		logrus.Errorf("序列化配置失败: %v", err)
		return err
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		logrus.Errorf("写入配置文件失败: %v", err)
		return err
	}

	return nil
}

// Update 批量更新配置
func (c *Config) Update(updates map[string]interface{}) error {
	// 创建临时配置并保存当前配置（用于回滚）
	tempConfig := *c

	// 将更新序列化为JSON再反序列化到结构体中
	// 这种方式处理map到struct的转换较为方便
	updateBytes, err := json.Marshal(updates)
	if err != nil {
		logrus.Errorf("序列化更新数据失败: %v", err)
		return err
	}

	err = json.Unmarshal(updateBytes, c)
	if err != nil {
		// 回滚配置
		*c = tempConfig
		logrus.Errorf("应用配置更新失败: %v", err)
		return err
	}

	// 验证配置
	if err := c.Validate(); err != nil {
		// 回滚配置
		*c = tempConfig
		logrus.Errorf("配置验证失败: %v", err)
		return err
	}

	return nil
}

// Reset 重置为默认配置
func (c *Config) Reset() {
	defaultConfig := NewDefaultConfig()
	*c = *defaultConfig
}

// 确保目录存在，如果不存在则创建
func ensureDirExists(path string) error {
	if path == "" {
		return nil // 空路径视为可选
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}

	return nil
}
