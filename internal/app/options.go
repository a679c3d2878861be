package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/config"
	"github.com/emmanuelakbi/nextjs-aikeedo-sub008/internal/logger"

	"go.uber.org/zap"
)

// Mode 进程启动模式
type Mode string

const (
	ModeAll    Mode = "all"
	ModeAPI    Mode = "api"
	ModeWorker Mode = "worker"
)

// ParseMode 解析启动模式，空值视为 all
func ParseMode(raw string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case "":
		return ModeAll, nil
	case ModeAll, ModeAPI, ModeWorker:
		return mode, nil
	}
	return "", fmt.Errorf("unknown mode %q (want all, api or worker)", raw)
}

func (m Mode) servesAPI() bool {
	return m == ModeAll || m == ModeAPI
}

// runsWorker worker 模式总是消费队列；all 模式仅在队列启用时消费
func (m Mode) runsWorker(queueEnabled bool) bool {
	return m == ModeWorker || (m == ModeAll && queueEnabled)
}

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            Mode
}

func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultStopTimeout
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}
