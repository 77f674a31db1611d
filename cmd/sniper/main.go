package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"pump-sniper-sol/internal/config"
	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/logic/monitor"
	"pump-sniper-sol/internal/logic/trade"
	"pump-sniper-sol/internal/svc"
	"pump-sniper-sol/pkg/logger"

	"github.com/joho/godotenv"
	zerosvc "github.com/zeromicro/go-zero/core/service"
)

var (
	configFile = flag.String("f", "etc/sniper.yaml", "the config file")
	envFile    = flag.String("env", ".env", "optional dotenv file")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()
	defer logger.Sync()

	flag.Parse()

	// 配置加载前先用默认 stdout logger，保证启动错误可见
	_ = logger.Init(logger.LogOption{})

	// .env 不存在时直接使用进程环境变量
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		logger.Warnf("加载 %s 失败: %v", *envFile, err)
	}

	c, err := config.Load(*configFile)
	if err != nil {
		logger.Fatalf("配置加载失败: %v", err)
	}
	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		logger.Fatalf("日志初始化失败: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	serviceContext, err := svc.NewServiceContext(ctx, c)
	if err != nil {
		logger.Fatalf("启动失败: %v", err)
	}
	defer serviceContext.Close()

	executor := trade.NewExecutor(serviceContext.Builder, serviceContext.Sink)
	accountWatcher := monitor.NewAccountWatcher(
		serviceContext.Stream,
		serviceContext.Evaluator,
		executor,
		c.Window.Watch(),
		c.Window.PollTimeout(),
	)
	txWatcher := monitor.NewTransactionWatcher(serviceContext.Stream, serviceContext.Batch)
	scheduler := monitor.NewScheduler(serviceContext.Batch, accountWatcher, c.Window.Collection())

	sg := zerosvc.NewServiceGroup()
	sg.Add(txWatcher)
	sg.Add(scheduler)

	logger.Infof("Starting pump sniper: program=%s, collection=%v, watch=%v",
		consts.PumpFunProgramStr, c.Window.Collection(), c.Window.Watch())

	// Start 会阻塞，信号处理留在主 goroutine
	go sg.Start()

	// 等待退出信号
	<-ctx.Done()

	logger.Infof("Shutting down services...")
	sg.Stop()
}
