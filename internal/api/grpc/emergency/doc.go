// Package emergency implements the gRPC transport for the emergency service.
//
// Messages are protobuf well-known types (Struct, Empty, BoolValue), so the
// service descriptor is declared by hand in service.go and the codec helpers
// in codec.go translate between them and the domain types. The same codec is
// used by the console client.
package emergency
