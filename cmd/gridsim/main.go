package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grid-sim-go/internal/api"
	"grid-sim-go/internal/config"
	"grid-sim-go/internal/engine"
	"grid-sim-go/internal/logger"
	"grid-sim-go/internal/models"
	"grid-sim-go/internal/persistence"
	"grid-sim-go/internal/reporter"
	"grid-sim-go/internal/sweep"

	"github.com/joho/godotenv"
)

func main() {
	// --- 命令行参数定义 ---
	configPath := flag.String("config", "config.json", "path to the config file")
	mode := flag.String("mode", "run", "running mode: run, sweep, presets or serve")
	presetName := flag.String("preset", "", "market preset to apply (saved presets override builtins)")
	seed := flag.Int64("seed", 0, "random seed, overrides config and GRIDSIM_SEED (0 keeps them)")
	tradeLimit := flag.Int("trades", 20, "number of most recent trades to print in run mode, 0 prints none, -1 prints all")
	savePreset := flag.String("save-preset", "", "save the effective market and grid config under this name")
	port := flag.Int("port", 8080, "listen port in serve mode")
	flag.Parse()

	// 先用默认配置初始化日志, 加载配置时就能输出
	logger.InitLogger(models.LogConfig{Level: "info", Output: "console"})

	// --- 加载 .env 文件 ---
	if err := godotenv.Load(); err != nil {
		logger.S().Debug("未找到 .env 文件, 将从系统环境变量中读取。")
	}

	// --- 加载 JSON 配置 ---
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.S().Fatalf("无法加载配置文件: %v", err)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		logger.S().Fatalf("环境变量配置错误: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	// --- 使用文件中的配置重新初始化日志 ---
	logger.InitLogger(cfg.LogConfig)
	defer logger.S().Sync()

	repo := openRepository(cfg.DBPath)
	if repo != nil {
		defer repo.Close()
	}

	if *presetName != "" {
		p, err := config.ResolvePreset(*presetName, repo, cfg.Market)
		if err != nil {
			logger.S().Fatalf("无法加载预设: %v", err)
		}
		config.ApplyPreset(cfg, p)
		logger.S().Infof("使用预设 %s: %s", p.Name, p.Description)
	}

	if *savePreset != "" {
		if repo == nil {
			logger.S().Fatal("保存预设需要设置 db_path 或 GRIDSIM_DB_PATH")
		}
		grid := cfg.Grid
		p := &models.Preset{Name: *savePreset, Description: "saved from CLI", Market: cfg.Market, Grid: &grid}
		if err := repo.SavePreset(p); err != nil {
			logger.S().Fatalf("保存预设失败: %v", err)
		}
		logger.S().Infof("预设 %s 已保存。", *savePreset)
	}

	// --- 根据模式执行 ---
	switch *mode {
	case "run":
		runSimulation(cfg, *tradeLimit)
	case "sweep":
		runSweep(cfg)
	case "presets":
		listPresets(cfg, repo)
	case "serve":
		runServer(cfg, repo, *port)
	default:
		logger.S().Fatalf("未知的运行模式: %s。请选择 'run', 'sweep', 'presets' 或 'serve'。", *mode)
	}
}

// openRepository 打开预设数据库, 未配置路径时返回 nil
func openRepository(dbPath string) persistence.PresetRepository {
	if dbPath == "" {
		return nil
	}
	repo, err := persistence.NewBadgerRepository(dbPath)
	if err != nil {
		logger.S().Fatalf("无法打开预设数据库: %v", err)
	}
	return repo
}

// runSimulation 运行单次模拟并打印报告
func runSimulation(cfg *models.Config, tradeLimit int) {
	logger.S().Info("--- 启动模拟 ---")
	result, err := engine.Run(cfg.Market, cfg.Grid, engine.WithSeed(cfg.Seed), engine.WithLogger(logger.L()))
	if err != nil {
		logger.S().Fatalf("模拟失败: %v", err)
	}

	reporter.GenerateReport(os.Stdout, result)
	if tradeLimit != 0 && len(result.Trades) > 0 {
		reporter.PrintTrades(os.Stdout, result.Trades, tradeLimit)
	}
}

// progressSink 记录扫描进度
type progressSink struct {
	total int
	done  int
}

func (p *progressSink) Record(o sweep.Outcome) error {
	p.done++
	if o.Err != nil {
		logger.S().Warnf("[%d/%d] 任务 %s 失败: %v", p.done, p.total, o.Job.ID, o.Err)
		return nil
	}
	logger.S().Infof("[%d/%d] 任务 %s 完成, 收益率 %.2f%%", p.done, p.total, o.Job.ID, o.Result.Metrics.TotalReturnPercent)
	return nil
}

// runSweep 并发运行参数扫描, Ctrl+C 会停止派发新任务
func runSweep(cfg *models.Config) {
	baseSeed := cfg.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	jobs := sweep.Expand(*cfg, cfg.Sweep, baseSeed)
	logger.S().Infof("--- 启动参数扫描: %d 个任务, %d 个 worker ---", len(jobs), cfg.Sweep.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := sweep.NewRunner(cfg.Sweep.Workers, &progressSink{total: len(jobs)}, logger.L())
	outcomes := runner.Run(ctx, jobs)
	reporter.PrintSweep(os.Stdout, sweep.Rows(outcomes))
}

// listPresets 打印内置和已保存的预设
func listPresets(cfg *models.Config, repo persistence.PresetRepository) {
	presets := config.BuiltinPresets(cfg.Market)
	if repo != nil {
		saved, err := repo.ListPresets()
		if err != nil {
			logger.S().Fatalf("无法读取预设: %v", err)
		}
		presets = append(presets, saved...)
	}
	reporter.PrintPresets(os.Stdout, presets)
}

// runServer 启动 HTTP API, 等待中断信号后优雅退出
func runServer(cfg *models.Config, repo persistence.PresetRepository, port int) {
	server := api.NewServer(cfg, repo, port, logger.L())

	go func() {
		if err := server.Start(); err != nil {
			logger.S().Fatalf("API 服务异常退出: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := server.Shutdown(); err != nil {
		logger.S().Errorf("关闭 API 服务失败: %v", err)
	}
	logger.S().Info("API 服务已停止。")
}
