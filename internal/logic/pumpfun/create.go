package pumpfun

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/errs"
)

const (
	discriminatorLen = 8
	lengthPrefixLen  = 4
)

// CreateMetadata create 指令 payload 中的名称信息
type CreateMetadata struct {
	Name   string
	Symbol string
}

// IsCreateInstruction 判断指令 data 前 8 字节是否为 PumpFun create discriminator
func IsCreateInstruction(data []byte) bool {
	if len(data) < discriminatorLen {
		return false
	}
	return binary.BigEndian.Uint64(data[:discriminatorLen]) == consts.PumpCreate
}

// DecodeCreateInstruction 解析 create 指令 payload：
//
//	[0:8]   discriminator（调用方已校验）
//	[8:12]  name 长度 L1（u32 小端）
//	[..L1]  name（UTF-8）
//	[..4]   symbol 长度 L2（u32 小端）
//	[..L2]  symbol（UTF-8）
//
// 非法 UTF-8 替换为 U+FFFD，不报错；任何一步字节不足返回 ErrDecode。
func DecodeCreateInstruction(data []byte) (CreateMetadata, error) {
	if len(data) < discriminatorLen {
		return CreateMetadata{}, errs.Decodef("create payload too short: %d bytes", len(data))
	}

	offset := discriminatorLen
	name, offset, err := readString(data, offset, "name")
	if err != nil {
		return CreateMetadata{}, err
	}
	symbol, _, err := readString(data, offset, "symbol")
	if err != nil {
		return CreateMetadata{}, err
	}
	return CreateMetadata{Name: name, Symbol: symbol}, nil
}

// readString 读取 u32 长度前缀的字符串，返回新的 offset
func readString(data []byte, offset int, field string) (string, int, error) {
	if offset+lengthPrefixLen > len(data) {
		return "", offset, errs.Decodef("cannot read %s length at offset %d (len=%d)", field, offset, len(data))
	}
	n := int(binary.LittleEndian.Uint32(data[offset : offset+lengthPrefixLen]))
	offset += lengthPrefixLen

	// n 来自链上数据，先和剩余长度比较，避免 offset+n 溢出
	if n > len(data)-offset {
		return "", offset, errs.Decodef("%s out of bounds: declared=%d remaining=%d", field, n, len(data)-offset)
	}
	return decodeLossy(data[offset : offset+n]), offset + n, nil
}

// decodeLossy 每个最长非法子序列替换为一个 U+FFFD
func decodeLossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
			i += invalidSubpartLen(b[i:])
			continue
		}
		sb.WriteRune(r)
		i += size
	}
	return sb.String()
}

// invalidSubpartLen 非法序列开头能构成合法前缀的字节数（至少 1）
func invalidSubpartLen(b []byte) int {
	var need int
	lo, hi := byte(0x80), byte(0xBF)
	switch lead := b[0]; {
	case lead >= 0xC2 && lead <= 0xDF:
		need = 1
	case lead == 0xE0:
		need, lo = 2, 0xA0
	case lead == 0xED:
		need, hi = 2, 0x9F
	case lead >= 0xE1 && lead <= 0xEF:
		need = 2
	case lead == 0xF0:
		need, lo = 3, 0x90
	case lead == 0xF4:
		need, hi = 3, 0x8F
	case lead >= 0xF1 && lead <= 0xF3:
		need = 3
	default:
		return 1
	}

	n := 1
	for ; n <= need && n < len(b); n++ {
		c := b[n]
		if c < lo || c > hi {
			break
		}
		// 只有第二个字节有特殊范围
		lo, hi = 0x80, 0xBF
	}
	return n
}
