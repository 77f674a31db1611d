package utils

import (
	"testing"

	"pump-sniper-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestEncodeDecodeEvent(t *testing.T) {
	msg, err := structpb.NewStruct(map[string]any{"mint": "abc", "simulated": true})
	require.NoError(t, err)

	data, err := EncodeEvent(7, msg)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 0, 0, 0}, data[:4])

	var got structpb.Struct
	eventType, err := DecodeEvent(data, &got)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), eventType)
	assert.Equal(t, "abc", got.Fields["mint"].GetStringValue())
	assert.True(t, got.Fields["simulated"].GetBoolValue())

	_, err = DecodeEvent([]byte{1, 2}, &got)
	assert.Error(t, err)
}

func TestPartitionForPubkey(t *testing.T) {
	key := types.PubkeyFromBase58("So11111111111111111111111111111111111111112")

	assert.Equal(t, int32(0), PartitionForPubkey(key, 0))
	assert.Equal(t, int32(0), PartitionForPubkey(key, 1))

	p := PartitionForPubkey(key, 8)
	assert.GreaterOrEqual(t, p, int32(0))
	assert.Less(t, p, int32(8))
	assert.Equal(t, p, PartitionForPubkey(key, 8), "同一地址分区稳定")

	var k types.Pubkey
	k[27] = 5
	assert.Equal(t, int32(1), PartitionForPubkey(k, 4))
}
