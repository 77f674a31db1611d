package utils

import "pump-sniper-sol/internal/types"

// PartitionForPubkey 按地址选择分区，同一个 mint 的消息落在同一分区。
// 从地址中选取 4 字节构造 uint32 后取模，非加密哈希。
func PartitionForPubkey(key types.Pubkey, partitions int) int32 {
	if partitions <= 1 {
		return 0
	}
	hash := uint32(key[7])<<24 | uint32(key[15])<<16 | uint32(key[19])<<8 | uint32(key[27])
	return int32(hash % uint32(partitions))
}
