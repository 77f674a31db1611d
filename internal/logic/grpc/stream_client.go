package grpc

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"time"

	"pump-sniper-sol/internal/config"
	"pump-sniper-sol/pkg/logger"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
)

const updateChanSize = 256

// StreamClient Yellowstone gRPC 连接，多个订阅（交易流 / 每轮账户流）共享同一条底层连接
type StreamClient struct {
	conn   *grpc.ClientConn
	client pb.GeyserClient
	conf   config.GrpcConfig
}

func NewStreamClient(grpcConf config.GrpcConfig) (*StreamClient, error) {
	creds := credentials.NewTLS(&tls.Config{InsecureSkipVerify: true})
	if grpcConf.Insecure {
		creds = insecure.NewCredentials()
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(grpcConf.ConnectTimeoutSec)*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		grpcConf.Endpoint,
		grpc.WithTransportCredentials(creds),
		grpc.WithInitialWindowSize(int32(grpcConf.InitialWindowSize)),
		grpc.WithInitialConnWindowSize(int32(grpcConf.InitialConnWindowSize)),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallSendMsgSize(grpcConf.MaxCallSendMsgSize),
			grpc.MaxCallRecvMsgSize(grpcConf.MaxCallRecvMsgSize),
		),
		grpc.WithBlock(),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                time.Duration(grpcConf.KeepalivePingIntervalSec) * time.Second,
			Timeout:             time.Duration(grpcConf.KeepalivePingTimeoutSec) * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s: %w", grpcConf.Endpoint, err)
	}

	return &StreamClient{
		conn:   conn,
		client: pb.NewGeyserClient(conn),
		conf:   grpcConf,
	}, nil
}

func (c *StreamClient) Close() error {
	return c.conn.Close()
}

// Subscribe 打开一条订阅。首次建立失败直接返回错误；之后断流由内部重连，
// 返回的 channel 在 ctx 结束或重连次数耗尽时关闭。
func (c *StreamClient) Subscribe(ctx context.Context, name string, req *pb.SubscribeRequest) (<-chan *pb.SubscribeUpdate, error) {
	s := &subscription{
		name:                 name,
		client:               c.client,
		req:                  req,
		xToken:               c.conf.XToken,
		out:                  make(chan *pb.SubscribeUpdate, updateChanSize),
		reconnectInterval:    time.Duration(c.conf.ReconnectIntervalSec) * time.Second,
		maxReconnectAttempts: c.conf.MaxReconnectAttempts,
		pingInterval:         time.Duration(c.conf.StreamPingIntervalSec) * time.Second,
		sendTimeout:          time.Duration(c.conf.SendTimeoutSec) * time.Second,
	}

	if s.reconnectInterval <= 0 {
		s.reconnectInterval = time.Second
	}

	logger.Debugf("[Grpc:%s] subscribe request: %s", name, protojson.Format(req))

	stream, cancel, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	go s.run(ctx, stream, cancel)
	return s.out, nil
}

type subscription struct {
	name                 string
	client               pb.GeyserClient
	req                  *pb.SubscribeRequest
	xToken               string
	out                  chan *pb.SubscribeUpdate
	reconnectAttempts    int           // 上次收到数据以来的重连次数
	reconnectInterval    time.Duration // 重连基础间隔
	maxReconnectAttempts int           // 0 表示无限重连
	pingInterval         time.Duration
	sendTimeout          time.Duration
}

// open 只尝试一次：建流 + 发送订阅请求
func (s *subscription) open(ctx context.Context) (pb.Geyser_SubscribeClient, context.CancelFunc, error) {
	connCtx, cancel := context.WithCancel(ctx)
	metaCtx := metadata.NewOutgoingContext(
		connCtx,
		metadata.New(map[string]string{"x-token": s.xToken}),
	)
	stream, err := s.client.Subscribe(metaCtx)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("[Grpc:%s] subscribe failed: %w", s.name, err)
	}
	if err := sendWithTimeout(connCtx, stream.Send, s.req, s.sendTimeout); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("[Grpc:%s] send request failed: %w", s.name, err)
	}
	logger.Infof("[Grpc:%s] subscription established", s.name)
	return stream, cancel, nil
}

func (s *subscription) run(ctx context.Context, stream pb.Geyser_SubscribeClient, cancel context.CancelFunc) {
	defer close(s.out)

	for {
		err := s.serve(ctx, stream)
		cancel()
		if ctx.Err() != nil {
			return
		}
		logger.Warnf("[Grpc:%s] stream broken: %v, will reconnect", s.name, err)

		stream, cancel = s.reconnect(ctx)
		if stream == nil {
			return
		}
	}
}

// reconnect 每次重新建流前都先等待；ctx 结束或次数耗尽时返回 nil
func (s *subscription) reconnect(ctx context.Context) (pb.Geyser_SubscribeClient, context.CancelFunc) {
	for {
		if s.maxReconnectAttempts > 0 && s.reconnectAttempts >= s.maxReconnectAttempts {
			logger.Errorf("[Grpc:%s] reconnect attempts exhausted (%d), closing stream", s.name, s.reconnectAttempts)
			return nil, nil
		}

		wait := s.reconnectInterval
		if s.reconnectAttempts >= 3 {
			wait *= 2
		}
		select {
		case <-ctx.Done():
			return nil, nil
		case <-time.After(wait):
		}

		s.reconnectAttempts++
		logger.Infof("[Grpc:%s] connecting... attempt %d", s.name, s.reconnectAttempts)
		stream, cancel, err := s.open(ctx)
		if err == nil {
			return stream, cancel
		}
		if ctx.Err() != nil {
			return nil, nil
		}
		logger.Warnf("[Grpc:%s] connect failed: %v, will retry...", s.name, err)
	}
}

// serve 持续接收直到流出错；ping/pong 不向下游转发
func (s *subscription) serve(ctx context.Context, stream pb.Geyser_SubscribeClient) error {
	pingCtx, stopPing := context.WithCancel(ctx)
	defer stopPing()
	go s.pingLoop(pingCtx, stream)

	for received := false; ; {
		update, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("stream closed by server (EOF)")
			}
			return err
		}
		// 建流后服务端可能在首次 Recv 时才拒绝，收到数据才算重连成功
		if !received {
			received = true
			s.reconnectAttempts = 0
		}
		if update.GetPing() != nil || update.GetPong() != nil {
			continue
		}

		select {
		case s.out <- update:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// 心跳检测
func (s *subscription) pingLoop(ctx context.Context, stream pb.Geyser_SubscribeClient) {
	if s.pingInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingReq := &pb.SubscribeRequest{
				Ping: &pb.SubscribeRequestPing{Id: 1},
			}
			if err := sendWithTimeout(ctx, stream.Send, pingReq, s.sendTimeout); err != nil {
				// 这里只记录日志，断流由 Recv 感知
				logger.Warnf("[Grpc:%s] ping failed: %v", s.name, err)
			}
		}
	}
}

// 带超时的 Send
func sendWithTimeout[T any](ctx context.Context, sendFunc func(T) error, req T, timeout time.Duration) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sendFunc(req)
	}()

	select {
	case <-timeoutCtx.Done():
		return timeoutCtx.Err()
	case err := <-done:
		return err
	}
}
