package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/AhMadness/WordFinder/internal/controller"
	"github.com/AhMadness/WordFinder/internal/ui"
	"github.com/AhMadness/WordFinder/internal/watcher"
	"github.com/AhMadness/WordFinder/pkg/asr"
	"github.com/AhMadness/WordFinder/pkg/matcher"
	"github.com/AhMadness/WordFinder/pkg/models"
	"github.com/AhMadness/WordFinder/pkg/processor"
	"github.com/AhMadness/WordFinder/pkg/scanner"
	"github.com/AhMadness/WordFinder/pkg/utils"
)

var (
	inputFile  = flag.String("file", "", "要处理的媒体文件")
	mediaDir   = flag.String("media", "", "媒体文件所在文件夹（文件夹模式）")
	wordsFlag  = flag.String("words", "", "要查找的词列表，逗号分隔，如 \"hello, there, kenobi\"")
	watchFlag  = flag.Bool("watch", false, "监听模式：监控文件夹，新文件自动处理")
	asrService = flag.String("asr", "", "ASR服务 (whisper-server, whisper-cli, auto)")
	exportSRT  = flag.Bool("srt", false, "额外导出匹配段落的SRT字幕")
	configFile = flag.String("config", "", "配置文件路径")
	logLevel   = flag.String("log-level", "INFO", "日志级别 (VERBOSE, INFO, WARN)")
	logFile    = flag.String("log-file", "", "日志文件路径")
)

func main() {
	// 解析命令行参数
	flag.Parse()

	// 初始化日志
	utils.InitLogger(*logLevel, *logFile)

	// 打印欢迎信息
	printWelcome()

	// 加载配置
	config := loadConfig()

	// 进度条模式下日志改写到文件，避免日志行打断进度条的重绘
	if config.ShowProgress {
		utils.EnableTerminalProgress()
		defer utils.DisableTerminalProgress()
	}

	// 解析词列表
	words := matcher.ParseWordList(config.Words)
	if len(words) == 0 {
		color.Red("未指定要查找的词，请使用 -words \"hello, there\" 或在配置文件中设置")
		os.Exit(1)
	}
	fmt.Printf("查找词列表: %v\n", words)

	// 检查依赖
	if !checkDependencies(config) {
		logrus.Fatal("缺少必要的依赖项，无法继续")
	}

	// 创建临时目录
	tempDir := config.TempDir
	if tempDir == "" {
		dir, err := os.MkdirTemp("", "wordfinder")
		if err != nil {
			logrus.Fatalf("创建临时目录失败: %v", err)
		}
		tempDir = dir
		defer os.RemoveAll(dir)
	}

	// 创建查找器和运行器
	finder := processor.NewWordFinder(config, tempDir)
	runner := controller.NewRunner(finder)

	ctx := context.Background()

	switch {
	case *inputFile != "":
		// 单文件模式
		if err := runOne(ctx, runner, config, *inputFile, words); err != nil {
			os.Exit(1)
		}
	case config.WatchMode:
		// 监听模式
		runWatch(runner, config, words)
	default:
		// 文件夹模式
		runFolder(ctx, runner, config, words)
	}
}

// runOne 处理单个文件，等待完成通知
func runOne(ctx context.Context, runner *controller.Runner, config *models.Config, inputPath string, words []string) error {
	callback := progressCallback(config, filepath.Base(inputPath))

	startTime := time.Now()
	if _, err := runner.Submit(ctx, inputPath, words, callback); err != nil {
		color.Red("提交任务失败: %v", err)
		return err
	}

	completion := <-runner.Done()
	fmt.Println()

	if completion.Err != nil {
		color.Red("处理失败: %v", completion.Err)
		return completion.Err
	}

	color.Green("报告已写入: %s", completion.OutputPath)
	fmt.Printf("共%d段，匹配%d段，处理用时: %s\n",
		completion.Result.SegmentCount,
		completion.Result.MatchCount,
		utils.FormatTimeDuration(time.Since(startTime).Seconds()))
	return nil
}

// runFolder 扫描媒体文件夹并依次处理所有文件
func runFolder(ctx context.Context, runner *controller.Runner, config *models.Config, words []string) {
	mediaScanner := scanner.NewMediaScanner()
	files, err := mediaScanner.ScanDirectory(config.MediaFolder)
	if err != nil {
		logrus.Fatalf("扫描媒体目录失败: %v", err)
	}

	if len(files) == 0 {
		logrus.Info("没有找到媒体文件，程序退出")
		return
	}

	// 打印媒体文件信息
	fmt.Println("\n找到以下媒体文件:")
	fmt.Println("--------------------")
	for i, file := range files {
		fileType := "音频"
		if file.IsVideo {
			fileType = "视频"
		}
		fmt.Printf("%d. [%s] %s (%s)\n", i+1, fileType, file.Name, utils.FormatFileSize(file.Size))
	}
	fmt.Println("--------------------")

	// 依次处理所有文件，同一时间只有一个运行
	successful := 0
	for i, file := range files {
		fmt.Printf("\n[%d/%d] 处理文件: %s\n", i+1, len(files), file.Name)

		if err := runOne(ctx, runner, config, file.Path, words); err != nil {
			continue
		}
		successful++
	}

	fmt.Printf("\n所有文件处理完成! 成功 %d/%d\n", successful, len(files))
}

// runWatch 监控文件夹，新出现的媒体文件自动处理
func runWatch(runner *controller.Runner, config *models.Config, words []string) {
	handler := watcher.NewDropHandler(runner, words)

	debounce := time.Duration(config.WatchDebounce * float64(time.Second))
	monitor, err := watcher.NewFolderMonitor(config.MediaFolder, scanner.NewMediaScanner().Extensions(), handler, debounce)
	if err != nil {
		logrus.Fatalf("创建文件夹监控失败: %v", err)
	}

	if err := monitor.Start(); err != nil {
		logrus.Fatalf("启动文件夹监控失败: %v", err)
	}
	defer monitor.Stop()

	color.Cyan("监听模式已启动，将媒体文件放入 %s 即可自动处理 (Ctrl+C 退出)", config.MediaFolder)

	// 注册信号处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case completion := <-runner.Done():
			if completion.Err != nil {
				color.Red("处理失败 %s: %v", completion.InputPath, completion.Err)
			} else {
				color.Green("报告已写入: %s (匹配%d段)", completion.OutputPath, completion.Result.MatchCount)
			}
		case sig := <-sigChan:
			fmt.Println()
			utils.Info("收到信号 %v，退出监听模式", sig)
			return
		}
	}
}

// progressCallback 构建进度回调，启用进度条时更新进度条
func progressCallback(config *models.Config, name string) asr.ProgressCallback {
	if !config.ShowProgress {
		return nil
	}

	bar := ui.NewProgressBar(100, name, "")
	return func(percent int, message string) {
		if percent >= 100 {
			bar.Complete(message)
			return
		}
		bar.Update(percent, message)
	}
}

func printWelcome() {
	// 使用彩色输出打印欢迎信息
	fmt.Println()
	color.Cyan("================================")
	color.Cyan("   WordFinder - 字幕词查找工具   ")
	color.Cyan("================================")
	fmt.Println()
}

func checkDependencies(config *models.Config) bool {
	fmt.Print("检查系统依赖... ")

	// 处理视频文件需要ffmpeg
	if config.ProcessVideo {
		mediaProc := processor.NewMediaProcessor(os.TempDir())
		if !mediaProc.CheckFFmpeg() {
			color.Red("失败")
			logrus.Error("未检测到FFmpeg，请确保FFmpeg已安装并添加到系统路径")
			return false
		}
	}

	// 指定whisper命令行服务时检查可执行文件
	if config.ASRService == "whisper-cli" && !asr.CheckWhisperBin(config.WhisperBin) {
		color.Red("失败")
		logrus.Errorf("未检测到whisper命令行工具: %s", config.WhisperBin)
		return false
	}

	color.Green("通过")
	return true
}

func loadConfig() *models.Config {
	fmt.Print("加载配置... ")

	config := models.NewDefaultConfig()

	// 如果指定了配置文件，尝试加载
	if *configFile != "" {
		err := config.LoadFromFile(*configFile)
		if err != nil {
			color.Yellow("警告: 加载配置文件失败: %v", err)
			logrus.Warnf("配置加载失败: %v，将使用默认配置", err)
		} else {
			color.Green("成功")
		}
	} else {
		color.Yellow("未指定配置文件，使用默认配置")
	}

	// 命令行参数覆盖配置
	if *mediaDir != "" {
		config.MediaFolder = *mediaDir
	}
	if *wordsFlag != "" {
		config.Words = *wordsFlag
	}
	if *asrService != "" {
		config.ASRService = *asrService
	}
	if *exportSRT {
		config.ExportSRT = true
	}
	if *watchFlag {
		config.WatchMode = true
	}
	config.LogLevel = *logLevel
	config.LogFile = *logFile

	// 确保媒体目录存在
	os.MkdirAll(config.MediaFolder, 0755)

	return config
}
