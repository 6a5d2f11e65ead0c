package snapshot

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/bytedance/sonic"
)

// jsonFloat is a float64 whose JSON form covers NaN and the infinities,
// written as the strings "NaN", "Infinity" and "-Infinity".
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	s := string(data)
	switch s {
	case "null":
		return nil
	case `"NaN"`:
		*f = jsonFloat(math.NaN())
		return nil
	case `"Infinity"`, `"+Infinity"`:
		*f = jsonFloat(math.Inf(1))
		return nil
	case `"-Infinity"`:
		*f = jsonFloat(math.Inf(-1))
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid float %s", s)
	}
	*f = jsonFloat(v)
	return nil
}

type colorJSON struct {
	R jsonFloat `json:"r"`
	G jsonFloat `json:"g"`
	B jsonFloat `json:"b"`
	A jsonFloat `json:"a"`
}

func (c Color) MarshalJSON() ([]byte, error) {
	return sonic.ConfigStd.Marshal(colorJSON{jsonFloat(c.R), jsonFloat(c.G), jsonFloat(c.B), jsonFloat(c.A)})
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var raw colorJSON
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Color{R: float64(raw.R), G: float64(raw.G), B: float64(raw.B), A: float64(raw.A)}
	return nil
}

type vector2JSON struct {
	X jsonFloat `json:"x"`
	Y jsonFloat `json:"y"`
}

func (v Vector2) MarshalJSON() ([]byte, error) {
	return sonic.ConfigStd.Marshal(vector2JSON{jsonFloat(v.X), jsonFloat(v.Y)})
}

func (v *Vector2) UnmarshalJSON(data []byte) error {
	var raw vector2JSON
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Vector2{X: float64(raw.X), Y: float64(raw.Y)}
	return nil
}

type vector3JSON struct {
	X jsonFloat `json:"x"`
	Y jsonFloat `json:"y"`
	Z jsonFloat `json:"z"`
}

func (v Vector3) MarshalJSON() ([]byte, error) {
	return sonic.ConfigStd.Marshal(vector3JSON{jsonFloat(v.X), jsonFloat(v.Y), jsonFloat(v.Z)})
}

func (v *Vector3) UnmarshalJSON(data []byte) error {
	var raw vector3JSON
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Vector3{X: float64(raw.X), Y: float64(raw.Y), Z: float64(raw.Z)}
	return nil
}

type varJSON struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON routes float values through jsonFloat; every other kind
// encodes as usual.
func (v Var[T]) MarshalJSON() ([]byte, error) {
	var value any = v.Value
	if f, ok := value.(float64); ok {
		value = jsonFloat(f)
	}
	raw, err := sonic.ConfigStd.Marshal(value)
	if err != nil {
		return nil, err
	}
	return sonic.ConfigStd.Marshal(varJSON{Key: v.Key, Value: raw})
}

func (v *Var[T]) UnmarshalJSON(data []byte) error {
	var raw varJSON
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.Key = raw.Key
	if len(raw.Value) == 0 {
		return nil
	}
	if p, ok := any(&v.Value).(*float64); ok {
		var f jsonFloat
		if err := f.UnmarshalJSON(raw.Value); err != nil {
			return err
		}
		*p = float64(f)
		return nil
	}
	return sonic.ConfigStd.Unmarshal(raw.Value, &v.Value)
}
