package consts

// TxAccountInclude 交易订阅过滤器：只推送引用了 PumpFun 程序的交易
var TxAccountInclude = []string{
	PumpFunProgramStr,
}
