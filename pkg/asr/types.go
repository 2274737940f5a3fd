package asr

import (
	"context"

	"github.com/AhMadness/WordFinder/pkg/models"
)

// ProgressCallback 是进度回调函数，用于通知识别过程的进度
type ProgressCallback func(percent int, message string)

// ASRService 定义了语音识别服务的接口
type ASRService interface {
	// GetResult 执行识别并返回结果
	GetResult(ctx context.Context, callback ProgressCallback) ([]models.DataSegment, error)
}
