package txadapter

import (
	"fmt"

	"pump-sniper-sol/internal/types"

	"github.com/mr-tron/base58"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

// AdaptedInstruction 顶层指令，账户索引已展开为 Pubkey
type AdaptedInstruction struct {
	Index     uint16
	ProgramID types.Pubkey
	Accounts  []types.Pubkey
	Data      []byte
}

// AdaptedTx gRPC 交易的扁平化视图：完整账户列表 + 按原始顺序排列的顶层指令
type AdaptedTx struct {
	Signature    []byte
	AccountKeys  []types.Pubkey
	Instructions []AdaptedInstruction
}

func (tx *AdaptedTx) SignatureString() string {
	return base58.Encode(tx.Signature)
}

// buildFullAccountKeys 构造交易中完整的账户 Pubkey 列表。
// 拼接 message.accountKeys 与 Address Lookup Table 中的 writable / readonly 地址，
// 顺序与链上 accountIndex 一致，前三个静态账户不受 ALT 影响。
func buildFullAccountKeys(
	accountKeys, loadedWritable, loadedReadonly [][]byte,
) ([]types.Pubkey, error) {
	total := len(accountKeys) + len(loadedWritable) + len(loadedReadonly)
	pubkeys := make([]types.Pubkey, total)

	i := 0
	for _, group := range [][][]byte{accountKeys, loadedWritable, loadedReadonly} {
		for _, b := range group {
			if len(b) != types.PubkeyLength {
				return nil, fmt.Errorf("invalid pubkey at index %d: len=%d", i, len(b))
			}
			copy(pubkeys[i][:], b)
			i++
		}
	}
	return pubkeys, nil
}

// buildAdaptedInstructions 只展开顶层指令（create 事件只在顶层出现）
func buildAdaptedInstructions(
	rawInstructions []*pb.CompiledInstruction,
	accountKeys []types.Pubkey,
) ([]AdaptedInstruction, error) {
	instructions := make([]AdaptedInstruction, 0, len(rawInstructions))
	for i, inst := range rawInstructions {
		if int(inst.ProgramIdIndex) >= len(accountKeys) {
			return nil, fmt.Errorf("instruction %d: program index %d out of range", i, inst.ProgramIdIndex)
		}
		accounts := make([]types.Pubkey, 0, len(inst.Accounts))
		for _, idx := range inst.Accounts {
			if int(idx) >= len(accountKeys) {
				return nil, fmt.Errorf("instruction %d: account index %d out of range", i, idx)
			}
			accounts = append(accounts, accountKeys[idx])
		}
		instructions = append(instructions, AdaptedInstruction{
			Index:     uint16(i),
			ProgramID: accountKeys[inst.ProgramIdIndex],
			Accounts:  accounts,
			Data:      inst.Data,
		})
	}
	return instructions, nil
}

// AdaptGrpcTx 将 gRPC 推送的交易转换为 AdaptedTx；如 panic 会被 recover。
func AdaptGrpcTx(tx *pb.SubscribeUpdateTransactionInfo) (_ *AdaptedTx, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("AdaptGrpcTx panic: %v", r)
		}
	}()

	if err := ValidateGrpcTx(tx); err != nil {
		return nil, err
	}

	msg := tx.Transaction.Message
	var loadedWritable, loadedReadonly [][]byte
	if tx.Meta != nil {
		loadedWritable = tx.Meta.LoadedWritableAddresses
		loadedReadonly = tx.Meta.LoadedReadonlyAddresses
	}

	accountKeys, err := buildFullAccountKeys(msg.AccountKeys, loadedWritable, loadedReadonly)
	if err != nil {
		return nil, fmt.Errorf("buildFullAccountKeys error: %w", err)
	}

	instructions, err := buildAdaptedInstructions(msg.Instructions, accountKeys)
	if err != nil {
		return nil, err
	}

	return &AdaptedTx{
		Signature:    tx.Transaction.Signatures[0],
		AccountKeys:  accountKeys,
		Instructions: instructions,
	}, nil
}
