package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/types"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionWatcher_CreateEvent(t *testing.T) {
	batch := NewPendingBatch(0)
	w := NewTransactionWatcher(newFakeSubscriber(0), batch)

	w.HandleUpdate(createTxUpdate(testKey(1), testKey(2), testKey(3), "Pepe", "PEPE"))

	drained := batch.Drain()
	require.Len(t, drained, 1)
	asset := drained[0]
	assert.Equal(t, testKey(1), asset.Creator)
	assert.Equal(t, testKey(2), asset.Mint)
	assert.Equal(t, testKey(3), asset.Pool)
	assert.Equal(t, "Pepe", asset.Name)
	assert.Equal(t, "PEPE", asset.Symbol)
	assert.False(t, asset.DiscoveredAt.IsZero())
}

func TestTransactionWatcher_Duplicate(t *testing.T) {
	batch := NewPendingBatch(0)
	w := NewTransactionWatcher(newFakeSubscriber(0), batch)

	update := createTxUpdate(testKey(1), testKey(2), testKey(3), "Pepe", "PEPE")
	w.HandleUpdate(update)
	w.HandleUpdate(update)

	assert.Len(t, batch.Drain(), 1)
}

func TestTransactionWatcher_FirstCreateOnly(t *testing.T) {
	batch := NewPendingBatch(0)
	w := NewTransactionWatcher(newFakeSubscriber(0), batch)

	keys := []types.Pubkey{testKey(1), testKey(2), testKey(3), testKey(0xee)}
	w.HandleUpdate(txUpdate(keys,
		[]byte{1, 2, 3, 4, 5, 6, 7, 8, 9},
		createPayload("First", "ONE"),
		createPayload("Second", "TWO"),
	))

	drained := batch.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, "First", drained[0].Name)
}

func TestTransactionWatcher_Dropped(t *testing.T) {
	batch := NewPendingBatch(0)
	w := NewTransactionWatcher(newFakeSubscriber(0), batch)

	// 账户不足 3 个
	w.HandleUpdate(txUpdate([]types.Pubkey{testKey(1), testKey(0xee)}, createPayload("A", "A")))
	// payload 截断
	w.HandleUpdate(createTxUpdateRaw(createPayload("Broken", "BRK")[:14]))
	// 非 create 指令
	w.HandleUpdate(txUpdate([]types.Pubkey{testKey(1), testKey(2), testKey(3), testKey(0xee)}, []byte{0x66, 0x06, 0x3d, 0x12, 0x01, 0xda, 0xeb, 0xea}))
	// 非交易推送
	w.HandleUpdate(&pb.SubscribeUpdate{UpdateOneof: &pb.SubscribeUpdate_Ping{Ping: &pb.SubscribeUpdatePing{}}})
	// 缺少 message
	w.HandleUpdate(&pb.SubscribeUpdate{UpdateOneof: &pb.SubscribeUpdate_Transaction{
		Transaction: &pb.SubscribeUpdateTransaction{Transaction: &pb.SubscribeUpdateTransactionInfo{}},
	}})
	assert.Equal(t, 0, batch.Len())

	// 之前的错误不影响后续事件
	w.HandleUpdate(createTxUpdate(testKey(1), testKey(2), testKey(3), "Ok", "OK"))
	assert.Equal(t, 1, batch.Len())
}

func createTxUpdateRaw(payload []byte) *pb.SubscribeUpdate {
	return txUpdate([]types.Pubkey{testKey(1), testKey(7), testKey(8), testKey(0xee)}, payload)
}

func TestTransactionWatcher_Run(t *testing.T) {
	sub := newFakeSubscriber(4)
	batch := NewPendingBatch(0)
	w := NewTransactionWatcher(sub, batch)

	sub.updates <- createTxUpdate(testKey(1), testKey(2), testKey(3), "A", "A")
	sub.updates <- createTxUpdate(testKey(4), testKey(5), testKey(6), "B", "B")
	close(sub.updates)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err, "流关闭视为正常结束")
	case <-time.After(time.Second):
		t.Fatal("Run did not return after stream closed")
	}
	assert.Equal(t, 2, batch.Len())

	require.Len(t, sub.reqs, 1)
	filter := sub.reqs[0].Transactions[txFilterNameForTest(sub.reqs[0])]
	assert.Equal(t, []string{consts.PumpFunProgramStr}, filter.AccountInclude)
}

func txFilterNameForTest(req *pb.SubscribeRequest) string {
	for name := range req.Transactions {
		return name
	}
	return ""
}

func TestTransactionWatcher_SubscribeError(t *testing.T) {
	sub := newFakeSubscriber(0)
	sub.err = errors.New("unavailable")
	w := NewTransactionWatcher(sub, NewPendingBatch(0))

	assert.Error(t, w.Run(context.Background()))
}
