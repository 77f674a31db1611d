package handoff

import (
	"strconv"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// TicketEventType Kafka 消息前缀中的事件类型
const TicketEventType uint32 = 1

// Ticket 交给外部提交方的已签名买入交易，本进程不负责广播与确认
type Ticket struct {
	CycleID           string
	Mint              string
	Pool              string
	Name              string
	Symbol            string
	Creator           string
	BuyerTokenAccount string
	SolIn             uint64
	EstimatedTokens   uint64
	MinTokens         uint64
	MaxSolCost        uint64
	Signature         string
	TxBase64          string
	Simulated         bool
	SimulationOK      bool
	SimulationErr     string
	CreatedAt         time.Time
}

// ToStruct u64 以字符串保存，避免 JSON number 精度丢失
func (t *Ticket) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"cycle_id":            t.CycleID,
		"mint":                t.Mint,
		"pool":                t.Pool,
		"name":                t.Name,
		"symbol":              t.Symbol,
		"creator":             t.Creator,
		"buyer_token_account": t.BuyerTokenAccount,
		"sol_in":              strconv.FormatUint(t.SolIn, 10),
		"estimated_tokens":    strconv.FormatUint(t.EstimatedTokens, 10),
		"min_tokens":          strconv.FormatUint(t.MinTokens, 10),
		"max_sol_cost":        strconv.FormatUint(t.MaxSolCost, 10),
		"signature":           t.Signature,
		"tx_base64":           t.TxBase64,
		"simulated":           t.Simulated,
		"simulation_ok":       t.SimulationOK,
		"simulation_err":      t.SimulationErr,
		"created_at":          t.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
}
