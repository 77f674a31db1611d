package monitor

import (
	"context"
	"fmt"
	"runtime/debug"

	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/errs"
	"pump-sniper-sol/internal/logic/core"
	"pump-sniper-sol/internal/logic/grpc"
	"pump-sniper-sol/internal/logic/pumpfun"
	"pump-sniper-sol/internal/logic/txadapter"
	"pump-sniper-sol/pkg/logger"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

const txStreamName = "tx_watch"

// create 交易中固定位置的账户
const (
	creatorKeyIndex = 0
	mintKeyIndex    = 1
	poolKeyIndex    = 2
	minCreateKeys   = 3
)

// TransactionWatcher 进程生命周期内持续消费交易流，发现新币后写入 PendingBatch
type TransactionWatcher struct {
	subscriber Subscriber
	batch      *PendingBatch
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewTransactionWatcher(subscriber Subscriber, batch *PendingBatch) *TransactionWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &TransactionWatcher{
		subscriber: subscriber,
		batch:      batch,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (w *TransactionWatcher) Start() {
	if err := w.Run(w.ctx); err != nil {
		logger.Errorf("[TxWatcher] 退出: %v", err)
	}
}

func (w *TransactionWatcher) Stop() {
	w.cancel()
}

// Run 订阅交易流直到流关闭；流关闭视为正常结束，返回 nil
func (w *TransactionWatcher) Run(ctx context.Context) error {
	updates, err := w.subscriber.Subscribe(ctx, txStreamName, grpc.NewTransactionSubscribeRequest(consts.TxAccountInclude))
	if err != nil {
		return err
	}
	logger.Infof("[TxWatcher] 开始监听 PumpFun create 交易")

	for update := range updates {
		w.HandleUpdate(update)
	}

	logger.Infof("[TxWatcher] %v, watcher 结束", errs.ErrStreamEnded)
	return nil
}

// HandleUpdate 处理单条推送；任何错误只记录日志，不影响后续推送
func (w *TransactionWatcher) HandleUpdate(update *pb.SubscribeUpdate) {
	txUpdate := update.GetTransaction()
	if txUpdate == nil {
		return
	}

	asset, err := w.handleTransaction(txUpdate.GetTransaction())
	if err != nil {
		logger.Warnf("[TxWatcher] 丢弃 create 事件: slot=%d, err=%v", txUpdate.GetSlot(), err)
		return
	}
	if asset == nil {
		return
	}
	logger.Infof("[TxWatcher] 🆕 发现新币 %s，加入当前批次 (pending=%d)", asset, w.batch.Len())
}

// handleTransaction 返回新加入批次的 AssetInfo；非 create 交易或重复 mint 返回 nil
func (w *TransactionWatcher) handleTransaction(info *pb.SubscribeUpdateTransactionInfo) (asset *core.AssetInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[TxWatcher] panic: %v, stack=%s", r, debug.Stack())
			asset, err = nil, fmt.Errorf("handleTransaction panic: %v", r)
		}
	}()

	tx, err := txadapter.AdaptGrpcTx(info)
	if err != nil {
		return nil, err
	}

	// 只处理第一条 create 指令
	var createIx *txadapter.AdaptedInstruction
	for i := range tx.Instructions {
		if pumpfun.IsCreateInstruction(tx.Instructions[i].Data) {
			createIx = &tx.Instructions[i]
			break
		}
	}
	if createIx == nil {
		return nil, nil
	}

	if len(tx.AccountKeys) < minCreateKeys {
		return nil, errs.Decodef("not enough account keys: got=%d, tx=%s", len(tx.AccountKeys), tx.SignatureString())
	}

	meta, err := pumpfun.DecodeCreateInstruction(createIx.Data)
	if err != nil {
		return nil, fmt.Errorf("tx=%s: %w", tx.SignatureString(), err)
	}

	candidate := core.NewAssetInfo(
		tx.AccountKeys[mintKeyIndex],
		tx.AccountKeys[poolKeyIndex],
		tx.AccountKeys[creatorKeyIndex],
		meta.Name,
		meta.Symbol,
	)
	if !w.batch.Add(candidate) {
		return nil, nil
	}
	return candidate, nil
}
