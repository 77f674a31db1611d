package grpc

import (
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

const (
	txFilterName      = "pump_create"
	accountFilterName = "bonding_curves"
)

// NewTransactionSubscribeRequest 交易流：引用目标程序、非 vote、执行成功
func NewTransactionSubscribeRequest(accountInclude []string) *pb.SubscribeRequest {
	commitment := pb.CommitmentLevel_CONFIRMED
	return &pb.SubscribeRequest{
		Transactions: map[string]*pb.SubscribeRequestFilterTransactions{
			txFilterName: {
				AccountInclude: accountInclude,
				Vote:           boolPtr(false),
				Failed:         boolPtr(false),
			},
		},
		Commitment: &commitment,
	}
}

// NewAccountSubscribeRequest 账户流：只推送指定地址且 owner 为目标程序的账户
func NewAccountSubscribeRequest(accounts []string, owner string) *pb.SubscribeRequest {
	commitment := pb.CommitmentLevel_CONFIRMED
	return &pb.SubscribeRequest{
		Accounts: map[string]*pb.SubscribeRequestFilterAccounts{
			accountFilterName: {
				Account: accounts,
				Owner:   []string{owner},
			},
		},
		Commitment: &commitment,
	}
}

func boolPtr(b bool) *bool {
	return &b
}
