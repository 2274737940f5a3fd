package watcher

import (
	"context"
	"errors"
	"sync"

	"github.com/AhMadness/WordFinder/internal/controller"
	"github.com/AhMadness/WordFinder/pkg/utils"
)

// DropHandler 把监控目录中新出现的媒体文件提交给运行器
type DropHandler struct {
	runner         *controller.Runner
	words          []string
	processedFiles map[string]bool
	mutex          sync.Mutex
}

// NewDropHandler 创建文件投放处理器
func NewDropHandler(runner *controller.Runner, words []string) *DropHandler {
	return &DropHandler{
		runner:         runner,
		words:          words,
		processedFiles: make(map[string]bool),
	}
}

// OnFileCreated 处理文件创建事件
func (h *DropHandler) OnFileCreated(filePath string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	// 检查文件是否已处理
	if h.processedFiles[filePath] {
		return
	}

	runID, err := h.runner.Submit(context.Background(), filePath, h.words, nil)
	if err != nil {
		if errors.Is(err, controller.ErrRunInFlight) {
			// 保持未处理状态，下次文件事件时重试
			utils.Warn("有任务在运行中，暂不处理: %s", filePath)
			return
		}
		utils.Error("提交任务失败 %s: %v", filePath, err)
		return
	}

	utils.Info("已提交任务 %s: %s", runID, filePath)
	h.processedFiles[filePath] = true
}

// OnFileModified 处理文件修改事件
func (h *DropHandler) OnFileModified(filePath string) {
	// 对于修改事件，不做特殊处理
}

// OnFileDeleted 处理文件删除事件
func (h *DropHandler) OnFileDeleted(filePath string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.processedFiles, filePath)
}
