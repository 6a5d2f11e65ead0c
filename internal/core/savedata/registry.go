package savedata

import (
	"fmt"
	"sort"
	"sync"

	"github.com/flowgraph/flowsave/internal/core/snapshot"
)

// DecodeFunc turns an item payload into its typed value.
type DecodeFunc func(data string) (any, error)

// Registry maps type tags to decoders.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]DecodeFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]DecodeFunc)}
}

// DefaultRegistry returns a registry that knows every snapshot kind in this
// module.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	Register[*snapshot.Flowchart](r, snapshot.FlowchartDataType)
	return r
}

// Register adds a decoder for dataType that decodes payloads into T. T is
// normally a pointer to a struct. Decoding fails with ErrTypeMismatch when the
// decoded value's DataType is not dataType.
func Register[T Typed](r *Registry, dataType string) {
	r.RegisterFunc(dataType, func(data string) (any, error) {
		v := newValue[T]()
		if err := payloadCodec.Decode([]byte(data), v); err != nil {
			return nil, err
		}
		out := derefIfNeeded[T](v)
		if declared := out.(Typed).DataType(); declared != dataType {
			return nil, fmt.Errorf("%w: tag %q decoded to %s", ErrTypeMismatch, dataType, declared)
		}
		return out, nil
	})
}

// RegisterFunc adds or replaces the decoder for dataType.
func (r *Registry) RegisterFunc(dataType string, fn DecodeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[dataType] = fn
}

// Types lists registered tags in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.decoders))
	for k := range r.decoders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Decode looks up the decoder for item.DataType and applies it.
func (r *Registry) Decode(item Item) (any, error) {
	r.mu.RLock()
	fn, ok := r.decoders[item.DataType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTypeTag, item.DataType)
	}

	v, err := fn(item.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, item.DataType, err)
	}
	return v, nil
}

// DecodeAs decodes item and asserts the result is a T.
func DecodeAs[T Typed](r *Registry, item Item) (T, error) {
	var zero T
	v, err := r.Decode(item)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q decoded to %T", ErrTypeMismatch, item.DataType, v)
	}
	return out, nil
}
