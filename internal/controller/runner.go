package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/AhMadness/WordFinder/pkg/asr"
	"github.com/AhMadness/WordFinder/pkg/models"
	"github.com/AhMadness/WordFinder/pkg/processor"
	"github.com/AhMadness/WordFinder/pkg/utils"
)

// ErrRunInFlight 已有运行在进行中，新运行被拒绝
var ErrRunInFlight = errors.New("已有任务在运行中")

// RunCompletion 一次运行的终态通知，成功时携带报告路径，失败时携带错误
// 每次运行恰好产生一条通知
type RunCompletion struct {
	RunID      string
	InputPath  string
	OutputPath string
	Result     *models.Result
	Err        error
}

// Runner 在单个后台工作协程中串行执行查找运行
// 同一时间至多一个运行在进行，运行一旦开始不可取消
type Runner struct {
	finder *processor.WordFinder

	mu   sync.Mutex
	busy bool

	done chan RunCompletion
}

// NewRunner 创建新的运行器
func NewRunner(finder *processor.WordFinder) *Runner {
	return &Runner{
		finder: finder,
		done:   make(chan RunCompletion, 1),
	}
}

// Done 返回完成通知通道
func (r *Runner) Done() <-chan RunCompletion {
	return r.done
}

// Busy 返回当前是否有运行在进行中
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Submit 提交一次查找运行
// 已有运行在进行时返回 ErrRunInFlight；运行结束后在Done通道上发出一条通知
func (r *Runner) Submit(ctx context.Context, inputPath string, words []string, callback asr.ProgressCallback) (string, error) {
	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return "", ErrRunInFlight
	}
	r.busy = true
	r.mu.Unlock()

	runID := uuid.NewString()
	utils.Info("开始运行 %s: %s", runID, inputPath)

	go func() {
		result, err := r.finder.FindWords(ctx, inputPath, words, callback)

		completion := RunCompletion{
			RunID:     runID,
			InputPath: inputPath,
			Result:    result,
			Err:       err,
		}
		if result != nil {
			completion.OutputPath = result.OutputPath
		}

		// 先释放忙碌状态再通知，失败的运行也让系统保持可接受新运行
		r.mu.Lock()
		r.busy = false
		r.mu.Unlock()

		r.done <- completion
	}()

	return runID, nil
}
