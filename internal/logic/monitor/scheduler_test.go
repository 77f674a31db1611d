package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pump-sniper-sol/internal/logic/core"
	"pump-sniper-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRunner 记录每轮收到的批次，并在 Watch 期间执行 during 模拟交易流写入
type recordingRunner struct {
	mu      sync.Mutex
	batches [][]*core.AssetInfo
	during  func(cycle int)
	fail    map[int]bool
	done    chan struct{}
	want    int
}

func (r *recordingRunner) Watch(_ context.Context, batch []*core.AssetInfo) error {
	r.mu.Lock()
	r.batches = append(r.batches, batch)
	cycle := len(r.batches)
	r.mu.Unlock()

	if r.during != nil {
		r.during(cycle)
	}
	if cycle == r.want {
		close(r.done)
	}
	if r.fail[cycle] {
		return errors.New("subscription failed")
	}
	return nil
}

func mints(batch []*core.AssetInfo) []types.Pubkey {
	out := make([]types.Pubkey, 0, len(batch))
	for _, a := range batch {
		out = append(out, a.Mint)
	}
	return out
}

func TestScheduler_WindowAccumulation(t *testing.T) {
	batch := NewPendingBatch(0)
	lateAsset := core.NewAssetInfo(testKey(20), testKey(21), testKey(22), "Late", "LATE")

	runner := &recordingRunner{
		done: make(chan struct{}),
		want: 2,
		fail: map[int]bool{1: true}, // 第一轮出错不影响调度
		during: func(cycle int) {
			if cycle == 1 {
				// WATCHING 阶段中到达的 create 事件
				assert.True(t, batch.Add(lateAsset))
			}
		},
	}

	batch.Add(core.NewAssetInfo(testKey(10), testKey(11), testKey(12), "Early", "EARLY"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewScheduler(batch, runner, 20*time.Millisecond)
	go s.Run(ctx)

	select {
	case <-runner.done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not run two watch cycles")
	}
	cancel()

	runner.mu.Lock()
	defer runner.mu.Unlock()
	require.Len(t, runner.batches, 2)
	assert.Equal(t, []types.Pubkey{testKey(10)}, mints(runner.batches[0]), "当前轮不包含 WATCHING 期间到达的币")
	assert.Equal(t, []types.Pubkey{testKey(20)}, mints(runner.batches[1]), "WATCHING 期间到达的币进入下一轮")
}

func TestScheduler_EmptyBatchSkipsWatching(t *testing.T) {
	batch := NewPendingBatch(0)
	runner := &recordingRunner{done: make(chan struct{}), want: 1}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewScheduler(batch, runner, 10*time.Millisecond)
	go s.Run(ctx)

	// 几轮空批次之后才有新币
	time.Sleep(50 * time.Millisecond)
	runner.mu.Lock()
	assert.Empty(t, runner.batches)
	runner.mu.Unlock()

	batch.Add(core.NewAssetInfo(testKey(1), testKey(2), testKey(3), "A", "A"))
	select {
	case <-runner.done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not pick up new asset")
	}
}

func TestScheduler_Stop(t *testing.T) {
	s := NewScheduler(NewPendingBatch(0), &recordingRunner{done: make(chan struct{})}, time.Hour)

	done := make(chan struct{})
	go func() {
		s.Start()
		close(done)
	}()
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
