package engine

import "encoding/json"

// jsonCodecName is registered with grpc's encoding package and selected
// per call via grpc.CallContentSubtype. The online engine client uses
// it in place of the default protobuf-generated-message codec, since no
// .proto/codegen step is available to this module (see SPEC_FULL.md,
// Module D). It carries exactly the fields of Context as JSON.
const jsonCodecName = "json"

// jsonCodec implements google.golang.org/grpc/encoding.Codec.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

// submitRequest/submitReply are the wire types carried by jsonCodec over
// the single Submit RPC method.
type submitRequest struct {
	Context Context
}

type submitReply struct {
	Admitted bool
}
