package monitor

import (
	"context"
	"time"

	"pump-sniper-sol/pkg/logger"

	"github.com/zeromicro/go-zero/core/threading"
)

// Scheduler COLLECTING / WATCHING 两阶段顺序循环。
// WATCHING 期间新发现的币进入下一批，因此除第一轮外，
// 每批实际累积了 collection + 上一轮 watch 时长的 create 事件。
type Scheduler struct {
	batch      *PendingBatch
	runner     CycleRunner
	collection time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewScheduler(batch *PendingBatch, runner CycleRunner, collection time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		batch:      batch,
		runner:     runner,
		collection: collection,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *Scheduler) Start() {
	s.Run(s.ctx)
}

func (s *Scheduler) Stop() {
	s.cancel()
}

// Run 阻塞直到 ctx 结束
func (s *Scheduler) Run(ctx context.Context) {
	for cycle := 1; ; cycle++ {
		logger.Infof("[Scheduler] 📥 第 %d 轮 COLLECTING，%v", cycle, s.collection)
		select {
		case <-ctx.Done():
			logger.Infof("[Scheduler] 停止")
			return
		case <-time.After(s.collection):
		}

		batch := s.batch.Drain()
		if len(batch) == 0 {
			logger.Infof("[Scheduler] 第 %d 轮批次为空，跳过 WATCHING", cycle)
			continue
		}

		logger.Infof("[Scheduler] 🔭 第 %d 轮 WATCHING，批次 %d 个币", cycle, len(batch))
		threading.RunSafe(func() {
			if err := s.runner.Watch(ctx, batch); err != nil {
				logger.Errorf("[Scheduler] 第 %d 轮 WATCHING 失败: %v", cycle, err)
			}
		})
	}
}
