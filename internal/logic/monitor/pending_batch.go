package monitor

import (
	"sync"
	"time"

	"pump-sniper-sol/internal/logic/core"
	"pump-sniper-sol/internal/types"
)

// PendingBatch 交易流与调度器之间共享的待监控批次 + 已见 mint 集合。
//
// 锁约定：所有方法内部持锁，临界区只做 map / slice 操作，
// 调用方不得在持有返回值期间再回调 PendingBatch。
type PendingBatch struct {
	mu    sync.Mutex
	items []*core.AssetInfo
	seen  map[types.Pubkey]time.Time // mint → 首次发现时间
	ttl   time.Duration              // 0 表示进程内永不淘汰
}

func NewPendingBatch(seenTTL time.Duration) *PendingBatch {
	return &PendingBatch{
		seen: make(map[types.Pubkey]time.Time),
		ttl:  seenTTL,
	}
}

// Add 判重 + 记录 + 入队在同一个临界区完成；mint 已见过时返回 false
func (b *PendingBatch) Add(asset *core.AssetInfo) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.seen[asset.Mint]; ok {
		return false
	}
	b.seen[asset.Mint] = asset.DiscoveredAt
	b.items = append(b.items, asset)
	return true
}

// Drain 原子地取走当前批次（可能为空），同时按 ttl 淘汰过期的已见 mint
func (b *PendingBatch) Drain() []*core.AssetInfo {
	b.mu.Lock()
	defer b.mu.Unlock()

	drained := b.items
	b.items = nil

	if b.ttl > 0 {
		cutoff := time.Now().Add(-b.ttl)
		for mint, seenAt := range b.seen {
			if seenAt.Before(cutoff) {
				delete(b.seen, mint)
			}
		}
	}
	return drained
}

func (b *PendingBatch) Seen(mint types.Pubkey) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.seen[mint]
	return ok
}

func (b *PendingBatch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *PendingBatch) SeenLen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.seen)
}
