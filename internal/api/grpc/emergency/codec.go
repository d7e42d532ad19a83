package emergency

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/tank-emergency/internal/domain/emergency"
	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

// Field names shared by encoder and decoder.
const (
	fieldActive      = "active"
	fieldResolved    = "resolved"
	fieldEmergency   = "emergency"
	fieldTanks       = "tanks"
	fieldOperator    = "operator"
	fieldHostname    = "hostname"
	fieldUsername    = "username"
	fieldID          = "id"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldTank        = "tank"
	fieldAction      = "action"
	fieldCategory    = "category"
	fieldTargetLevel = "target_level"
	fieldResponse    = "system_response"
	fieldStatus      = "status"
	fieldMessage     = "message"
	fieldPeak        = "peak_temperature"
	fieldExternal    = "external_temperature"
	fieldTriggeredAt = "triggered_at"
	fieldTank1       = "tank1"
	fieldTank2       = "tank2"
	fieldLevel       = "level"
	fieldInternal    = "internal"
	fieldFlow        = "flow_enabled"
)

// errMalformed is returned when a message lacks a required field.
var errMalformed = errors.New("malformed message")

// EmergencyState is the decoded answer of GetEmergency and Resolve.
type EmergencyState struct {
	// Active reports whether an emergency is pending (GetEmergency) or was resolved (Resolve).
	Active bool
	// Emergency is the pending or resolved emergency, nil when none.
	Emergency *domain.Emergency
	// Tanks is the tank state after the call.
	Tanks tank.Snapshot
}

// EncodeEmergencyState builds the response of GetEmergency, Trigger and Resolve.
func EncodeEmergencyState(flag string, e *domain.Emergency, s tank.Snapshot) (*structpb.Struct, error) {
	fields := map[string]any{
		flag:           e != nil,
		fieldTanks:     tanksToMap(s),
		fieldEmergency: nil,
	}

	if e != nil {
		fields[fieldEmergency] = emergencyToMap(e)
	}

	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode emergency: %w", err)
	}

	return msg, nil
}

// DecodeEmergencyState reads a response built by EncodeEmergencyState.
func DecodeEmergencyState(flag string, msg *structpb.Struct) (*EmergencyState, error) {
	fields := msg.AsMap()

	active, ok := fields[flag].(bool)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", errMalformed, flag)
	}

	tanks, ok := fields[fieldTanks].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", errMalformed, fieldTanks)
	}

	result := &EmergencyState{
		Active: active,
		Tanks:  tanksFromMap(tanks),
	}

	if raw, ok := fields[fieldEmergency].(map[string]any); ok {
		e, err := emergencyFromMap(raw)
		if err != nil {
			return nil, err
		}

		result.Emergency = e
	}

	return result, nil
}

// EncodeTanks builds the response of GetTanks and SetFlow.
func EncodeTanks(s tank.Snapshot) (*structpb.Struct, error) {
	msg, err := structpb.NewStruct(tanksToMap(s))
	if err != nil {
		return nil, fmt.Errorf("encode tanks: %w", err)
	}

	return msg, nil
}

// DecodeTanks reads a response built by EncodeTanks.
func DecodeTanks(msg *structpb.Struct) tank.Snapshot {
	return tanksFromMap(msg.AsMap())
}

// EncodeOperator builds the Resolve request.
func EncodeOperator(o *domain.Operator) (*structpb.Struct, error) {
	fields := map[string]any{}
	if o != nil {
		fields[fieldOperator] = map[string]any{
			fieldHostname: o.Hostname,
			fieldUsername: o.Username,
		}
	}

	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode operator: %w", err)
	}

	return msg, nil
}

// DecodeOperator reads the Resolve request. A missing operator yields nil.
func DecodeOperator(msg *structpb.Struct) *domain.Operator {
	raw, ok := msg.AsMap()[fieldOperator].(map[string]any)
	if !ok {
		return nil
	}

	return &domain.Operator{
		Hostname: stringField(raw, fieldHostname),
		Username: stringField(raw, fieldUsername),
	}
}

// emergencyToMap flattens an emergency for structpb.
func emergencyToMap(e *domain.Emergency) map[string]any {
	m := map[string]any{
		fieldID:          e.ID,
		fieldTitle:       e.Title,
		fieldDescription: e.Description,
		fieldTank:        int(e.AffectedTank),
		fieldAction:      string(e.Action),
		fieldCategory:    string(e.Category),
		fieldPeak:        e.PeakTemperature,
		fieldExternal:    e.ExternalTemperature,
		fieldTriggeredAt: e.TriggeredAt.UTC().Format(time.RFC3339Nano),
	}

	if e.TargetLevel != nil {
		m[fieldTargetLevel] = *e.TargetLevel
	}

	if e.SystemResponse != nil {
		m[fieldResponse] = map[string]any{
			fieldStatus:  string(e.SystemResponse.Status),
			fieldMessage: e.SystemResponse.Message,
		}
	}

	return m
}

// emergencyFromMap is the inverse of emergencyToMap.
func emergencyFromMap(m map[string]any) (*domain.Emergency, error) {
	id := stringField(m, fieldID)
	if id == "" {
		return nil, fmt.Errorf("%w: emergency without %q", errMalformed, fieldID)
	}

	e := &domain.Emergency{
		Template: domain.Template{
			ID:           id,
			Title:        stringField(m, fieldTitle),
			Description:  stringField(m, fieldDescription),
			AffectedTank: tank.ID(numberField(m, fieldTank)),
			Action:       domain.Action(stringField(m, fieldAction)),
			Category:     domain.Category(stringField(m, fieldCategory)),
		},
		PeakTemperature:     numberField(m, fieldPeak),
		ExternalTemperature: numberField(m, fieldExternal),
	}

	if level, ok := m[fieldTargetLevel].(float64); ok {
		e.TargetLevel = &level
	}

	if raw, ok := m[fieldResponse].(map[string]any); ok {
		e.SystemResponse = &domain.Outcome{
			Status:  domain.Status(stringField(raw, fieldStatus)),
			Message: stringField(raw, fieldMessage),
		}
	}

	if ts := stringField(m, fieldTriggeredAt); ts != "" {
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("%w: bad %q: %w", errMalformed, fieldTriggeredAt, err)
		}

		e.TriggeredAt = parsed
	}

	return e, nil
}

// tanksToMap flattens a snapshot for structpb.
func tanksToMap(s tank.Snapshot) map[string]any {
	reading := func(r tank.Reading) map[string]any {
		return map[string]any{
			fieldLevel:    r.Level,
			fieldInternal: r.Temperatures.Internal,
			fieldExternal: r.Temperatures.External,
		}
	}

	return map[string]any{
		fieldTank1: reading(s.Tank1),
		fieldTank2: reading(s.Tank2),
		fieldFlow:  s.FlowEnabled,
	}
}

// tanksFromMap is the inverse of tanksToMap.
func tanksFromMap(m map[string]any) tank.Snapshot {
	reading := func(raw any) tank.Reading {
		r, _ := raw.(map[string]any)

		return tank.Reading{
			Level: numberField(r, fieldLevel),
			Temperatures: tank.Temperatures{
				Internal: numberField(r, fieldInternal),
				External: numberField(r, fieldExternal),
			},
		}
	}

	flow, _ := m[fieldFlow].(bool)

	return tank.Snapshot{
		Tank1:       reading(m[fieldTank1]),
		Tank2:       reading(m[fieldTank2]),
		FlowEnabled: flow,
	}
}

// stringField returns m[key] as a string, or "".
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)

	return s
}

// numberField returns m[key] as a float64, or 0.
func numberField(m map[string]any, key string) float64 {
	f, _ := m[key].(float64)

	return f
}
