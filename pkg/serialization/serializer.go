// Package serialization provides the codecs used for save data: a
// structured-text JSON codec for container payloads and MessagePack for
// store records.
package serialization

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownCodec is returned by CodecByName for unsupported names.
var ErrUnknownCodec = errors.New("unknown codec")

// Codec interface for serialization
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(data []byte, v interface{}) error
	Name() string
}

// SerializationConfig holds serialization settings
type SerializationConfig struct {
	Codec Codec
}

// Serializer wraps a Codec with error context. Stores depend on it rather
// than on a codec directly so the codec can be swapped by configuration.
type Serializer struct {
	config SerializationConfig
}

// NewSerializer creates a new serializer with configuration
func NewSerializer(config SerializationConfig) *Serializer {
	if config.Codec == nil {
		config.Codec = NewMsgPackCodec()
	}
	return &Serializer{config: config}
}

// Serialize encodes v with the configured codec.
func (s *Serializer) Serialize(v interface{}) ([]byte, error) {
	data, err := s.config.Codec.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("%s encoding failed: %w", s.config.Codec.Name(), err)
	}
	return data, nil
}

// Deserialize decodes data into v with the configured codec.
func (s *Serializer) Deserialize(data []byte, v interface{}) error {
	if err := s.config.Codec.Decode(data, v); err != nil {
		return fmt.Errorf("%s decoding failed: %w", s.config.Codec.Name(), err)
	}
	return nil
}

// CodecName returns the name of the configured codec.
func (s *Serializer) CodecName() string {
	return s.config.Codec.Name()
}

// JSONCodec implements JSON serialization. With Indent set the output is
// pretty-printed, which is how container payloads are written.
type JSONCodec struct {
	Indent string
}

func (c *JSONCodec) Encode(v interface{}) ([]byte, error) {
	if c.Indent != "" {
		return sonic.ConfigStd.MarshalIndent(v, "", c.Indent)
	}
	return sonic.ConfigStd.Marshal(v)
}

func (c *JSONCodec) Decode(data []byte, v interface{}) error {
	return sonic.ConfigStd.Unmarshal(data, v)
}

func (c *JSONCodec) Name() string {
	return "json"
}

// MsgPackCodec implements MessagePack serialization
type MsgPackCodec struct{}

func (c *MsgPackCodec) Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (c *MsgPackCodec) Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

func (c *MsgPackCodec) Name() string {
	return "msgpack"
}

// NewJSONCodec creates a new compact JSON codec
func NewJSONCodec() Codec {
	return &JSONCodec{}
}

// NewPrettyJSONCodec creates a JSON codec that indents with four spaces.
func NewPrettyJSONCodec() Codec {
	return &JSONCodec{Indent: "    "}
}

// NewMsgPackCodec creates a new MessagePack codec
func NewMsgPackCodec() Codec {
	return &MsgPackCodec{}
}

// CodecByName maps a configuration value to a codec.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "msgpack":
		return NewMsgPackCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// DefaultSerializer creates a MessagePack serializer.
func DefaultSerializer() *Serializer {
	return NewSerializer(SerializationConfig{Codec: NewMsgPackCodec()})
}
