package emergency

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/tank-emergency/internal/domain/emergency"
	"github.com/oshokin/tank-emergency/internal/domain/tank"
	"github.com/oshokin/tank-emergency/internal/logger"
)

// Response flags of EncodeEmergencyState.
const (
	FlagActive   = fieldActive
	FlagResolved = fieldResolved
)

// Service abstracts the business operations the transport layer depends on.
// Trigger and Resolve may return an emergency together with an error: the
// change is applied but the tank snapshot was not saved.
type Service interface {
	Trigger(ctx context.Context) (*domain.Emergency, error)
	Resolve(ctx context.Context, operator *domain.Operator) (*domain.Emergency, error)
	ActiveEmergency(ctx context.Context) *domain.Emergency
	Tanks(ctx context.Context) tank.Snapshot
	SetFlow(ctx context.Context, enabled bool) (tank.Snapshot, error)
}

// Server implements EmergencyServiceServer on top of a Service.
type Server struct {
	// service provides the business logic.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Trigger activates a random emergency.
func (s *Server) Trigger(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	e, err := s.service.Trigger(ctx)
	if err != nil {
		if e == nil {
			return nil, status.Error(codes.Internal, "unable to persist tanks")
		}

		logger.WarnKV(ctx, "Emergency triggered but tanks were not saved", "id", e.ID, "error", err)
	}

	return s.encodeState(ctx, FlagActive, e)
}

// Resolve applies the pending emergency's corrective action.
// The response's resolved flag is false when nothing was pending.
func (s *Server) Resolve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	operator := DecodeOperator(req)
	if operator != nil && (operator.Hostname == "" || operator.Username == "") {
		return nil, status.Error(codes.InvalidArgument, "operator needs hostname and username")
	}

	e, err := s.service.Resolve(ctx, operator)
	if err != nil {
		if e == nil {
			return nil, status.Error(codes.Internal, "unable to persist tanks")
		}

		logger.WarnKV(ctx, "Emergency resolved but tanks were not saved", "id", e.ID, "error", err)
	}

	return s.encodeState(ctx, FlagResolved, e)
}

// GetEmergency returns the pending emergency, if any.
func (s *Server) GetEmergency(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.encodeState(ctx, FlagActive, s.service.ActiveEmergency(ctx))
}

// GetTanks returns the tank state.
func (s *Server) GetTanks(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	msg, err := EncodeTanks(s.service.Tanks(ctx))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return msg, nil
}

// SetFlow enables or disables the shared flow.
func (s *Server) SetFlow(ctx context.Context, req *wrapperspb.BoolValue) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	snapshot, err := s.service.SetFlow(ctx, req.GetValue())
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to persist tanks")
	}

	msg, err := EncodeTanks(snapshot)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return msg, nil
}

// encodeState packs e and the current tanks.
func (s *Server) encodeState(ctx context.Context, flag string, e *domain.Emergency) (*structpb.Struct, error) {
	msg, err := EncodeEmergencyState(flag, e, s.service.Tanks(ctx))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return msg, nil
}
