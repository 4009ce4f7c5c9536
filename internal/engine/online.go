package engine

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// submitMethod is the fully-qualified gRPC method name used for Submit.
// There is no generated service descriptor (see codec.go); grpc-go's
// ClientConn.Invoke only needs the method string and a codec, not a
// generated stub.
const submitMethod = "/padll.Engine/Submit"

// onlineClient dials the configured control-plane address/port over the
// configured transport kind and submits Context records as JSON via
// jsonCodec.
type onlineClient struct {
	conn *grpc.ClientConn
	cfg  Config
}

func newOnlineClient(cfg Config) (*onlineClient, error) {
	target := fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(jsonCodecName)),
	}
	if cfg.Transport == TransportUnix {
		opts = append(opts, grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
			d := net.Dialer{}
			return d.DialContext(ctx, "unix", cfg.Address)
		}))
	}

	conn, err := grpc.Dial(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("engine: dial %s (%s): %w", target, cfg.Transport, err)
	}
	return &onlineClient{conn: conn, cfg: cfg}, nil
}

// Submit implements Client.Submit over the dialed connection.
func (c *onlineClient) Submit(ctx context.Context, rec Context) error {
	req := &submitRequest{Context: rec}
	var reply submitReply
	if err := c.conn.Invoke(ctx, submitMethod, req, &reply); err != nil {
		return fmt.Errorf("engine: submit: %w", err)
	}
	return nil
}

func (c *onlineClient) Close() error {
	return c.conn.Close()
}

// waitReady blocks until the connection reaches the READY state, or until
// timeout elapses or ctx is done; it is not required for Submit to work (grpc dials lazily
// by default) but lets callers fail fast at construction if they choose
// to call it explicitly.
func waitReady(ctx context.Context, conn *grpc.ClientConn, timeout time.Duration) error {
	deadlineCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn.Connect()
	for {
		state := conn.GetState()
		if state.String() == "READY" {
			return nil
		}
		if !conn.WaitForStateChange(deadlineCtx, state) {
			return deadlineCtx.Err()
		}
	}
}
