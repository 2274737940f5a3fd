package processor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// MediaProcessor 媒体预处理器，负责视频转音频
type MediaProcessor struct {
	TempDir string // 提取出的音频存放目录
}

// NewMediaProcessor 创建新的媒体预处理器
func NewMediaProcessor(tempDir string) *MediaProcessor {
	// 确保目录存在
	os.MkdirAll(tempDir, 0755)

	return &MediaProcessor{
		TempDir: tempDir,
	}
}

// CheckFFmpeg 检查FFmpeg是否可用
func (p *MediaProcessor) CheckFFmpeg() bool {
	cmd := exec.Command("ffmpeg", "-version")
	err := cmd.Run()
	return err == nil
}

// ExtractAudioFromVideo 从视频文件提取音频
func (p *MediaProcessor) ExtractAudioFromVideo(videoPath string) (string, error) {
	// 创建输出文件路径
	baseName := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(p.TempDir, baseName+".mp3")

	// 调用ffmpeg提取音频
	cmd := exec.Command(
		"ffmpeg",
		"-i", videoPath,
		"-q:a", "0",
		"-map", "a",
		audioPath,
		"-y", // 覆盖已存在的文件
	)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("音频提取失败: %w", err)
	}

	logrus.Infof("成功从视频提取音频: %s -> %s", videoPath, audioPath)

	return audioPath, nil
}
