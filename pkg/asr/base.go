package asr

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	"github.com/AhMadness/WordFinder/pkg/models"
	"github.com/AhMadness/WordFinder/pkg/utils"
)

// BaseASR 提供基础ASR功能的结构体
type BaseASR struct {
	AudioPath  string // 音频文件路径
	FileBinary []byte // 文件二进制内容
	CRC32      uint32 // CRC32校验值
	CRC32Hex   string // 文件CRC32校验和（十六进制）
	UseCache   bool   // 是否使用缓存
	CacheDir   string // 缓存目录
}

// NewBaseASR 创建一个新的BaseASR实例
func NewBaseASR(audioPath string, useCache bool, cacheDir string) (*BaseASR, error) {
	baseASR := &BaseASR{
		AudioPath: audioPath,
		UseCache:  useCache,
		CacheDir:  cacheDir,
	}

	if err := baseASR.loadFile(); err != nil {
		return nil, err
	}

	baseASR.calculateCRC32()
	return baseASR, nil
}

// loadFile 加载音频文件到内存
func (b *BaseASR) loadFile() error {
	if _, err := os.Stat(b.AudioPath); err != nil {
		return fmt.Errorf("无效的音频路径: %s", b.AudioPath)
	}

	utils.Log.Infof("从文件读取音频数据: %s", b.AudioPath)
	data, err := os.ReadFile(b.AudioPath)
	if err != nil {
		return fmt.Errorf("读取音频文件失败: %w", err)
	}
	b.FileBinary = data

	return nil
}

// calculateCRC32 计算文件的CRC32校验和
func (b *BaseASR) calculateCRC32() {
	b.CRC32 = crc32.ChecksumIEEE(b.FileBinary)
	b.CRC32Hex = fmt.Sprintf("%08x", b.CRC32)
	utils.Log.Debugf("计算的CRC32校验和: %s", b.CRC32Hex)
}

// GetCacheKey 获取缓存键名
func (b *BaseASR) GetCacheKey(prefix string) string {
	return fmt.Sprintf("%s-%s.json", prefix, b.CRC32Hex)
}

// LoadFromCache 从缓存加载识别结果
func (b *BaseASR) LoadFromCache(cacheKey string) ([]models.DataSegment, bool) {
	if !b.UseCache || b.CacheDir == "" {
		return nil, false
	}

	cacheFilePath := filepath.Join(b.CacheDir, cacheKey)
	if _, err := os.Stat(cacheFilePath); os.IsNotExist(err) {
		utils.Log.Debugf("缓存文件不存在: %s", cacheFilePath)
		return nil, false
	}

	var segments []models.DataSegment
	if err := utils.LoadJSONFile(cacheFilePath, &segments); err != nil {
		utils.Log.Warnf("读取缓存失败: %v", err)
		return nil, false
	}

	return segments, true
}

// SaveToCache 保存识别结果到缓存
func (b *BaseASR) SaveToCache(cacheKey string, segments []models.DataSegment) error {
	if !b.UseCache || b.CacheDir == "" {
		return nil
	}

	// 确保缓存目录存在
	if err := os.MkdirAll(b.CacheDir, 0755); err != nil {
		return fmt.Errorf("创建缓存目录失败: %w", err)
	}

	cacheFilePath := filepath.Join(b.CacheDir, cacheKey)
	if err := utils.SaveJSONFile(cacheFilePath, segments); err != nil {
		return fmt.Errorf("写入缓存失败: %w", err)
	}

	return nil
}
