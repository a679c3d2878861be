package app

import (
	"errors"
	"net"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/provider"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/router"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/worker"
)

// BuildRunner 按模式组装 HTTP 与队列消费服务，共享同一个依赖容器
func BuildRunner(cfg *config.Config, mode Mode) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	container := provider.NewContainer(cfg)
	var services []Service

	if mode.servesAPI() {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(listenAddr(cfg), engine))
	}

	// 队列未启用时 all 模式下转化走同步路径
	if mode.runsWorker(cfg.Queue.Enabled) {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			container.Close()
			return nil, err
		}
		services = append(services, workerService)
	} else if mode == ModeAll {
		logger.Warnw("app_worker_skipped_queue_disabled")
	}

	runner := NewRunner(services...)
	runner.onStop = container.Close
	return runner, nil
}

func listenAddr(cfg *config.Config) string {
	return net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	opts.Logger.Infow("app_start", "addr", listenAddr(opts.Config), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
