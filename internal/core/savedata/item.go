// Package savedata provides the type-tagged envelope used to move any saved
// state through a generic medium: a type name plus an encoded payload.
package savedata

import (
	"fmt"

	"github.com/flowgraph/flowsave/pkg/serialization"
)

// Typed is implemented by every kind of save data that can be wrapped.
type Typed interface {
	DataType() string
}

// Item is a single piece of save data together with the name of its type.
// Data decodes, under the payload codec, into a value whose DataType equals
// DataType.
type Item struct {
	DataType string `json:"dataType" msgpack:"dataType" validate:"required"`
	Data     string `json:"data" msgpack:"data"`
}

// payloadCodec is the structured-text codec for item payloads.
var payloadCodec = serialization.NewPrettyJSONCodec()

// Create builds an Item without checking that data is well formed.
func Create(dataType, data string) Item {
	return Item{DataType: dataType, Data: data}
}

// CreateFrom encodes v and tags it with v's type name.
func CreateFrom[T Typed](v T) (Item, error) {
	data, err := payloadCodec.Encode(v)
	if err != nil {
		return Item{}, fmt.Errorf("encode %s: %w", v.DataType(), err)
	}
	return Create(v.DataType(), string(data)), nil
}
