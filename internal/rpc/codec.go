// Package rpc defines the ShareBox gRPC service: its messages, the JSON
// codec they travel in, the service descriptor and a client stub.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype the codec is registered under.
const CodecName = "json"

// JSONCodec marshals messages as JSON. Clients select it with
// grpc.CallContentSubtype(CodecName); the server picks it from the
// request's content type.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (JSONCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(JSONCodec{})
}
