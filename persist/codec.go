package persist

import (
	"encoding/json"

	"github.com/plus3/hearth/ecs"
	"github.com/rotisserie/eris"
)

// Codec converts one component kind to and from its persisted form.
type Codec struct {
	Encode func(ecs.Component) (json.RawMessage, error)
	Decode func(json.RawMessage) (ecs.Component, error)
}

// Codecs is the dispatch table from component kind to its codec. Kinds with no
// entry cannot be saved.
type Codecs map[ecs.Kind]Codec

// Define builds the codec for component type T from a pair of explicit
// conversions to and from a wire struct W. fromWire is where malformed input
// is rejected.
func Define[T any, PT ecs.ComponentPtr[T], W any](toWire func(*T) W, fromWire func(W) (*T, error)) Codec {
	return Codec{
		Encode: func(c ecs.Component) (json.RawMessage, error) {
			typed, ok := c.(PT)
			if !ok {
				return nil, eris.Errorf("codec for kind %d got %T", ecs.KindOf[T, PT](), c)
			}
			data, err := json.Marshal(toWire((*T)(typed)))
			if err != nil {
				return nil, eris.Wrapf(err, "encode %T", c)
			}
			return data, nil
		},
		Decode: func(data json.RawMessage) (ecs.Component, error) {
			var wire W
			if err := json.Unmarshal(data, &wire); err != nil {
				return nil, eris.Wrapf(err, "decode kind %d", ecs.KindOf[T, PT]())
			}
			value, err := fromWire(wire)
			if err != nil {
				return nil, err
			}
			if value == nil {
				return nil, eris.Errorf("decode kind %d produced nothing", ecs.KindOf[T, PT]())
			}
			return PT(value), nil
		},
	}
}
