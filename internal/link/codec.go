package link

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	json "github.com/goccy/go-json"

	"dmrmonitor/internal/structures"
)

// PayloadCodec decodes the structured snapshot payloads sent by the link
// process.
type PayloadCodec interface {
	Name() string
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type cborCodec struct {
	mode cbor.DecMode
}

func (c cborCodec) Name() string                       { return "cbor" }
func (c cborCodec) Unmarshal(data []byte, v any) error { return c.mode.Unmarshal(data, v) }

func NewPayloadCodec(conf *structures.Config) (PayloadCodec, error) {
	switch conf.Link.PayloadCodec {
	case "", "json":
		return jsonCodec{}, nil
	case "cbor":
		mode, err := cbor.DecOptions{
			MaxNestedLevels: 16,
			DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		}.DecMode()
		if err != nil {
			return nil, err
		}
		return cborCodec{mode: mode}, nil
	default:
		return nil, fmt.Errorf("unsupported payload codec %q", conf.Link.PayloadCodec)
	}
}
