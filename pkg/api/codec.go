// Package api defines the Connect wire contract of the ledger: message types,
// procedure names, the JSON codec, and handler and client constructors for
// LedgerService and AuthService.
package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CodecName is the name Connect negotiates for the JSON codec ("application/json").
const CodecName = "json"

// Codec marshals plain Go message structs with encoding/json and protobuf
// well-known types (emptypb.Empty, structpb.Struct) with protojson.
type Codec struct{}

var _ connect.Codec = Codec{}

// Name implements connect.Codec.
func (Codec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (Codec) Marshal(v any) ([]byte, error) {
	if msg, ok := v.(proto.Message); ok {
		return protojson.Marshal(msg)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	return b, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, v any) error {
	if msg, ok := v.(proto.Message); ok {
		if len(data) == 0 {
			return nil
		}
		return protojson.UnmarshalOptions{DiscardUnknown: true}.Unmarshal(data, msg)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", v, err)
	}
	return nil
}

// withCodec puts the JSON codec ahead of caller options.
func withCodec[O any](codec O, opts []O) []O {
	return append([]O{codec}, opts...)
}
