package snapshot

// Color is an RGBA color with channels in the 0..1 range.
type Color struct {
	R float64 `json:"r" msgpack:"r"`
	G float64 `json:"g" msgpack:"g"`
	B float64 `json:"b" msgpack:"b"`
	A float64 `json:"a" msgpack:"a"`
}

// Vector2 is a 2D vector.
type Vector2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Vector3 is a 3D vector.
type Vector3 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// Value is the closed set of variable kinds a snapshot can carry.
type Value interface {
	string | int | float64 | bool | Color | Vector2 | Vector3
}

// Var is one saved variable: a key and the value it held at save time.
// Keys are unique within a type group, not across groups.
type Var[T Value] struct {
	Key   string `json:"key" msgpack:"key" validate:"required,var_key"`
	Value T      `json:"value" msgpack:"value"`
}

// NewVar builds a Var.
func NewVar[T Value](key string, value T) Var[T] {
	return Var[T]{Key: key, Value: value}
}
