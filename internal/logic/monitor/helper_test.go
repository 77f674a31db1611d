package monitor

import (
	"context"
	"encoding/binary"
	"sync"

	"pump-sniper-sol/internal/logic/core"
	"pump-sniper-sol/internal/logic/pumpfun"
	"pump-sniper-sol/internal/types"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

var createDiscriminator = []byte{24, 30, 200, 40, 5, 28, 7, 119}

func testKey(b byte) types.Pubkey {
	var k types.Pubkey
	k[0] = b
	k[31] = b
	return k
}

func createPayload(name, symbol string) []byte {
	data := append([]byte{}, createDiscriminator...)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(name)))
	data = append(data, name...)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(symbol)))
	data = append(data, symbol...)
	return data
}

// txUpdate 构造一笔交易推送：keys[0]=creator, keys[1]=mint, keys[2]=pool, 最后一个为程序
func txUpdate(keys []types.Pubkey, datas ...[]byte) *pb.SubscribeUpdate {
	raw := make([][]byte, 0, len(keys))
	for _, k := range keys {
		raw = append(raw, append([]byte{}, k[:]...))
	}
	programIdx := uint32(len(keys) - 1)
	ixs := make([]*pb.CompiledInstruction, 0, len(datas))
	for _, d := range datas {
		ixs = append(ixs, &pb.CompiledInstruction{ProgramIdIndex: programIdx, Accounts: []byte{0}, Data: d})
	}
	return &pb.SubscribeUpdate{
		UpdateOneof: &pb.SubscribeUpdate_Transaction{
			Transaction: &pb.SubscribeUpdateTransaction{
				Slot: 1,
				Transaction: &pb.SubscribeUpdateTransactionInfo{
					Signature: make([]byte, 64),
					Transaction: &pb.Transaction{
						Signatures: [][]byte{make([]byte, 64)},
						Message: &pb.Message{
							Header:       &pb.MessageHeader{NumRequiredSignatures: 1},
							AccountKeys:  raw,
							Instructions: ixs,
						},
					},
					Meta: &pb.TransactionStatusMeta{},
				},
			},
		},
	}
}

func createTxUpdate(creator, mint, pool types.Pubkey, name, symbol string) *pb.SubscribeUpdate {
	return txUpdate([]types.Pubkey{creator, mint, pool, testKey(0xee)}, createPayload(name, symbol))
}

func curveData(virtualToken, virtualSol uint64) []byte {
	data := make([]byte, 81)
	binary.LittleEndian.PutUint64(data[8:16], virtualToken)
	binary.LittleEndian.PutUint64(data[16:24], virtualSol)
	return data
}

func accountUpdate(pool types.Pubkey, data []byte) *pb.SubscribeUpdate {
	return &pb.SubscribeUpdate{
		UpdateOneof: &pb.SubscribeUpdate_Account{
			Account: &pb.SubscribeUpdateAccount{
				Account: &pb.SubscribeUpdateAccountInfo{
					Pubkey: append([]byte{}, pool[:]...),
					Data:   data,
				},
			},
		},
	}
}

type fakeSubscriber struct {
	mu      sync.Mutex
	updates chan *pb.SubscribeUpdate
	err     error
	reqs    []*pb.SubscribeRequest
}

func newFakeSubscriber(buffer int) *fakeSubscriber {
	return &fakeSubscriber{updates: make(chan *pb.SubscribeUpdate, buffer)}
}

func (f *fakeSubscriber) Subscribe(_ context.Context, _ string, req *pb.SubscribeRequest) (<-chan *pb.SubscribeUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.updates, nil
}

type triggered struct {
	cycleID string
	asset   *core.AssetInfo
	curve   *pumpfun.BondingCurve
}

type fakeTrigger struct {
	mu    sync.Mutex
	calls []triggered
	err   error
}

func (f *fakeTrigger) OnEligible(_ context.Context, cycleID string, asset *core.AssetInfo, curve *pumpfun.BondingCurve) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, triggered{cycleID: cycleID, asset: asset, curve: curve})
	return f.err
}

func (f *fakeTrigger) Calls() []triggered {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]triggered(nil), f.calls...)
}
