package emergency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/tank-emergency/internal/domain/emergency"
	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

// TestEmergencyState_Transfer keeps the target level and unclamped tank levels.
func TestEmergencyState_Transfer(t *testing.T) {
	t.Parallel()

	tmpl, ok := domain.Lookup(domain.IDLeak)
	require.True(t, ok)

	e := domain.New(tmpl, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	s := tank.DefaultSnapshot()
	s.Tank2.Level = 140

	msg, err := EncodeEmergencyState(FlagActive, e, s)
	require.NoError(t, err)

	state, err := DecodeEmergencyState(FlagActive, msg)
	require.NoError(t, err)
	require.Equal(t, e, state.Emergency)
	require.Equal(t, s, state.Tanks)
}

// TestDecodeEmergencyState_Malformed rejects messages missing required fields.
func TestDecodeEmergencyState_Malformed(t *testing.T) {
	t.Parallel()

	_, err := DecodeEmergencyState(FlagActive, new(structpb.Struct))
	require.ErrorIs(t, err, errMalformed)

	msg, err := structpb.NewStruct(map[string]any{
		FlagActive:     true,
		fieldTanks:     map[string]any{},
		fieldEmergency: map[string]any{fieldTitle: "no id"},
	})
	require.NoError(t, err)

	_, err = DecodeEmergencyState(FlagActive, msg)
	require.ErrorIs(t, err, errMalformed)
}

// TestOperatorCodec covers present and absent operators.
func TestOperatorCodec(t *testing.T) {
	t.Parallel()

	msg, err := EncodeOperator(nil)
	require.NoError(t, err)
	require.Nil(t, DecodeOperator(msg))

	o := &domain.Operator{Hostname: "control-room", Username: "operator"}

	msg, err = EncodeOperator(o)
	require.NoError(t, err)
	require.Equal(t, o, DecodeOperator(msg))
}
