package txadapter

import (
	"testing"

	"pump-sniper-sol/internal/types"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(b byte) []byte {
	k := make([]byte, 32)
	k[0] = b
	return k
}

func newTxInfo() *pb.SubscribeUpdateTransactionInfo {
	return &pb.SubscribeUpdateTransactionInfo{
		Signature: make([]byte, 64),
		Transaction: &pb.Transaction{
			Signatures: [][]byte{make([]byte, 64)},
			Message: &pb.Message{
				Header:      &pb.MessageHeader{NumRequiredSignatures: 2},
				AccountKeys: [][]byte{key(1), key(2), key(3), key(4)},
				Instructions: []*pb.CompiledInstruction{
					{ProgramIdIndex: 3, Accounts: []byte{1, 2, 0}, Data: []byte{9, 9}},
					{ProgramIdIndex: 4, Accounts: []byte{5}, Data: []byte{1}},
				},
			},
		},
		Meta: &pb.TransactionStatusMeta{
			LoadedWritableAddresses: [][]byte{key(5)},
			LoadedReadonlyAddresses: [][]byte{key(6)},
		},
	}
}

func TestAdaptGrpcTx(t *testing.T) {
	tx, err := AdaptGrpcTx(newTxInfo())
	require.NoError(t, err)

	require.Len(t, tx.AccountKeys, 6)
	assert.Equal(t, byte(1), tx.AccountKeys[0][0])
	assert.Equal(t, byte(5), tx.AccountKeys[4][0])
	assert.Equal(t, byte(6), tx.AccountKeys[5][0])

	require.Len(t, tx.Instructions, 2)
	first := tx.Instructions[0]
	assert.Equal(t, uint16(0), first.Index)
	assert.Equal(t, byte(4), first.ProgramID[0])
	assert.Equal(t, []types.Pubkey{tx.AccountKeys[1], tx.AccountKeys[2], tx.AccountKeys[0]}, first.Accounts)
	assert.Equal(t, []byte{9, 9}, first.Data)

	// 第二条指令引用 ALT 中的地址
	assert.Equal(t, byte(5), tx.Instructions[1].ProgramID[0])
	assert.Equal(t, byte(6), tx.Instructions[1].Accounts[0][0])
	assert.NotEmpty(t, tx.SignatureString())
}

func TestAdaptGrpcTx_Invalid(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		_, err := AdaptGrpcTx(nil)
		assert.Error(t, err)
	})

	t.Run("vote", func(t *testing.T) {
		info := newTxInfo()
		info.IsVote = true
		_, err := AdaptGrpcTx(info)
		assert.Error(t, err)
	})

	t.Run("failed", func(t *testing.T) {
		info := newTxInfo()
		info.Meta.Err = &pb.TransactionError{Err: []byte{1}}
		_, err := AdaptGrpcTx(info)
		assert.Error(t, err)
	})

	t.Run("bad pubkey length", func(t *testing.T) {
		info := newTxInfo()
		info.Transaction.Message.AccountKeys[2] = []byte{1, 2, 3}
		_, err := AdaptGrpcTx(info)
		assert.Error(t, err)
	})

	t.Run("account index out of range", func(t *testing.T) {
		info := newTxInfo()
		info.Transaction.Message.Instructions[0].Accounts = []byte{42}
		_, err := AdaptGrpcTx(info)
		assert.Error(t, err)
	})

	t.Run("missing meta is tolerated", func(t *testing.T) {
		info := newTxInfo()
		info.Meta = nil
		info.Transaction.Message.Instructions = info.Transaction.Message.Instructions[:1]
		tx, err := AdaptGrpcTx(info)
		require.NoError(t, err)
		assert.Len(t, tx.AccountKeys, 4)
	})
}
