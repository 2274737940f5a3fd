package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputPathFor(t *testing.T) {
	// 输出文件与输入文件同目录，扩展名替换为.txt
	assert.Equal(t, filepath.Join("/tmp/videos", "lecture.txt"),
		OutputPathFor("/tmp/videos/lecture.mp4"))

	// 无扩展名的输入
	assert.Equal(t, filepath.Join("/tmp", "audio.txt"),
		OutputPathFor("/tmp/audio"))

	// 文件名中含多个点时只去掉最后一个扩展名
	assert.Equal(t, filepath.Join("/data", "my.video.txt"),
		OutputPathFor("/data/my.video.mkv"))
}

func TestCheckFileExists(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "file_test")
	assert.NoError(t, err)
	defer os.RemoveAll(tempDir)

	// 不存在的文件
	assert.False(t, CheckFileExists(filepath.Join(tempDir, "missing.mp3")))

	// 目录不算文件
	assert.False(t, CheckFileExists(tempDir))

	// 常规文件
	testFile := filepath.Join(tempDir, "exists.mp3")
	assert.NoError(t, os.WriteFile(testFile, []byte("data"), 0644))
	assert.True(t, CheckFileExists(testFile))
}

func TestSaveAndLoadJSONFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "json_test")
	assert.NoError(t, err)
	defer os.RemoveAll(tempDir)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	path := filepath.Join(tempDir, "sub", "data.json")
	original := payload{Name: "测试", Count: 3}

	// 保存时自动创建目录
	assert.NoError(t, SaveJSONFile(path, original))

	var loaded payload
	assert.NoError(t, LoadJSONFile(path, &loaded))
	assert.Equal(t, original, loaded)
}
