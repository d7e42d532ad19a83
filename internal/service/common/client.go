//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/oshokin/tank-emergency/internal/api/grpc/emergency"
	"github.com/oshokin/tank-emergency/internal/config"
	"github.com/oshokin/tank-emergency/internal/domain/emergency"
	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

// Client wraps a gRPC connection to the emergency service.
type Client struct {
	// conn is the underlying gRPC connection to the server.
	conn *grpc.ClientConn

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial prepares a gRPC connection to the server.
// The transport is insecure; run it on a trusted network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial tank server: %w", err)
	}

	client := &Client{
		conn:        conn,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Trigger asks the server to activate a random emergency.
func (c *Client) Trigger(ctx context.Context) (*api.EmergencyState, error) {
	resp, err := c.invoke(ctx, api.MethodTrigger, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("trigger: %w", err)
	}

	return api.DecodeEmergencyState(api.FlagActive, resp)
}

// Resolve acknowledges the pending emergency on behalf of operator.
// The returned state's Active flag is false when nothing was pending.
func (c *Client) Resolve(ctx context.Context, operator *emergency.Operator) (*api.EmergencyState, error) {
	req, err := api.EncodeOperator(operator)
	if err != nil {
		return nil, err
	}

	resp, err := c.invoke(ctx, api.MethodResolve, req)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	return api.DecodeEmergencyState(api.FlagResolved, resp)
}

// GetEmergency returns the pending emergency and the tanks.
func (c *Client) GetEmergency(ctx context.Context) (*api.EmergencyState, error) {
	resp, err := c.invoke(ctx, api.MethodGetEmergency, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get emergency: %w", err)
	}

	return api.DecodeEmergencyState(api.FlagActive, resp)
}

// GetTanks returns the tank state.
func (c *Client) GetTanks(ctx context.Context) (tank.Snapshot, error) {
	resp, err := c.invoke(ctx, api.MethodGetTanks, new(emptypb.Empty))
	if err != nil {
		return tank.Snapshot{}, fmt.Errorf("get tanks: %w", err)
	}

	return api.DecodeTanks(resp), nil
}

// SetFlow enables or disables the shared flow.
func (c *Client) SetFlow(ctx context.Context, enabled bool) (tank.Snapshot, error) {
	resp, err := c.invoke(ctx, api.MethodSetFlow, wrapperspb.Bool(enabled))
	if err != nil {
		return tank.Snapshot{}, fmt.Errorf("set flow: %w", err)
	}

	return api.DecodeTanks(resp), nil
}

// invoke performs a unary call returning a Struct.
func (c *Client) invoke(ctx context.Context, method string, req any) (*structpb.Struct, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, method, req, resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
